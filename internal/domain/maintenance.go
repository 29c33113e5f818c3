package domain

import "time"

// MaintenanceStatus represents the lifecycle state of a maintenance record
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceScheduled:  {MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled},
	MaintenanceInProgress: {MaintenanceCompleted, MaintenanceCancelled},
}

// PendingMaintenanceStatuses are not yet finished and can collide with bookings
var PendingMaintenanceStatuses = []MaintenanceStatus{MaintenanceScheduled, MaintenanceInProgress}

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

func (s MaintenanceStatus) CanTransitionTo(target MaintenanceStatus) bool {
	for _, allowed := range maintenanceTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s MaintenanceStatus) IsTerminal() bool {
	return s == MaintenanceCompleted || s == MaintenanceCancelled
}

// IsPending reports whether the record is scheduled or in progress
func (s MaintenanceStatus) IsPending() bool {
	return s == MaintenanceScheduled || s == MaintenanceInProgress
}

// Maintenance represents a scheduled service of a vehicle
type Maintenance struct {
	ID            int64
	VehicleID     int64
	Type          string
	ScheduledDate time.Time
	Cost          float64
	Provider      string
	Status        MaintenanceStatus
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActiveOn reports whether the record blocks the vehicle on the given day:
// in progress, or scheduled for that day or earlier.
func (m *Maintenance) IsActiveOn(today time.Time) bool {
	switch m.Status {
	case MaintenanceInProgress:
		return true
	case MaintenanceScheduled:
		return !DateOf(m.ScheduledDate).After(DateOf(today))
	default:
		return false
	}
}
