package domain

import "time"

// VehicleStatus represents the derived operational status of a vehicle
type VehicleStatus string

const (
	VehicleAvailable      VehicleStatus = "available"
	VehicleRented         VehicleStatus = "rented"
	VehicleMaintenance    VehicleStatus = "maintenance"
	VehicleMinorDamage    VehicleStatus = "minor_damage"
	VehicleModerateDamage VehicleStatus = "moderate_damage"
	VehicleSevereDamage   VehicleStatus = "severe_damage"
)

var vehicleStatuses = map[VehicleStatus]struct{}{
	VehicleAvailable:      {},
	VehicleRented:         {},
	VehicleMaintenance:    {},
	VehicleMinorDamage:    {},
	VehicleModerateDamage: {},
	VehicleSevereDamage:   {},
}

// IsValid reports whether s is a known vehicle status
func (s VehicleStatus) IsValid() bool {
	_, ok := vehicleStatuses[s]
	return ok
}

// AcceptsNewBookings reports whether a vehicle in this status may take a new rental.
// Minor and moderate damage do not block booking.
func (s VehicleStatus) AcceptsNewBookings() bool {
	switch s {
	case VehicleRented, VehicleMaintenance, VehicleSevereDamage:
		return false
	default:
		return true
	}
}

// ManualOverride is an admin-forced status that holds until the next
// mutation of the vehicle's blocking conditions resynchronizes it.
type ManualOverride struct {
	Status VehicleStatus
	Reason string
	SetAt  time.Time
}

// Vehicle represents a rentable car.
// Status is a cache of the deriver's output, never authored directly.
type Vehicle struct {
	ID          int64
	Make        string
	Model       string
	PlateNumber string
	PricePerDay float64
	Status      VehicleStatus
	Override    *ManualOverride // nil means no override

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOverride reports whether an admin override is in effect
func (v *Vehicle) HasOverride() bool {
	return v.Override != nil
}

// EffectiveStatus returns the forced status if an override is set, otherwise derived
func (v *Vehicle) EffectiveStatus(derived VehicleStatus) VehicleStatus {
	if v.Override != nil {
		return v.Override.Status
	}
	return derived
}
