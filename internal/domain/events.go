package domain

// EventKind identifies a notification emitted after a committed change
type EventKind string

const (
	EventRentalCreated        EventKind = "rental.created"
	EventRentalExtended       EventKind = "rental.extended"
	EventRentalStatusChanged  EventKind = "rental.status_changed"
	EventRentalDeleted        EventKind = "rental.deleted"
	EventMaintenanceCancelled EventKind = "maintenance.cancelled"
	EventDamageReported       EventKind = "damage.reported"
	EventVehicleStatusChanged EventKind = "vehicle.status_changed"
)

// RentalEvent is the payload of rental.* notifications
type RentalEvent struct {
	RentalID      int64   `json:"rentalId"`
	Code          string  `json:"code"`
	VehicleID     int64   `json:"vehicleId"`
	CustomerID    int64   `json:"customerId"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	Status        string  `json:"status"`
	TotalAmount   float64 `json:"totalAmount"`
	VehicleStatus string  `json:"vehicleStatus,omitempty"`
}

// MaintenanceEvent is the payload of maintenance.* notifications
type MaintenanceEvent struct {
	MaintenanceID int64  `json:"maintenanceId"`
	VehicleID     int64  `json:"vehicleId"`
	Type          string `json:"type"`
	ScheduledDate string `json:"scheduledDate"`
	Reason        string `json:"reason,omitempty"`
}

// DamageEvent is the payload of damage.* notifications
type DamageEvent struct {
	DamageID  int64  `json:"damageId"`
	VehicleID int64  `json:"vehicleId"`
	Severity  string `json:"severity"`
}

// VehicleStatusEvent is the payload of vehicle.status_changed notifications
type VehicleStatusEvent struct {
	VehicleID int64  `json:"vehicleId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// NewRentalEvent builds the notification payload for r
func NewRentalEvent(r *Rental, vehicleStatus VehicleStatus) RentalEvent {
	return RentalEvent{
		RentalID:      r.ID,
		Code:          r.Code,
		VehicleID:     r.VehicleID,
		CustomerID:    r.CustomerID,
		StartDate:     r.StartDate.Format(DateFormat),
		EndDate:       r.EndDate.Format(DateFormat),
		Status:        string(r.Status),
		TotalAmount:   r.TotalAmount,
		VehicleStatus: string(vehicleStatus),
	}
}

// NewMaintenanceEvent builds the notification payload for m
func NewMaintenanceEvent(m *Maintenance, reason string) MaintenanceEvent {
	return MaintenanceEvent{
		MaintenanceID: m.ID,
		VehicleID:     m.VehicleID,
		Type:          m.Type,
		ScheduledDate: m.ScheduledDate.Format(DateFormat),
		Reason:        reason,
	}
}
