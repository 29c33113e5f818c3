package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds exposed by the engine. Layer-specific errors wrap one of these.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrRentalConflict      = errors.New("rental conflict")
	ErrMaintenanceConflict = errors.New("maintenance conflict")
	ErrVehicleUnavailable  = errors.New("vehicle unavailable")
	ErrConcurrency         = errors.New("concurrent modification, retry later")
)

// ValidationError names the violated rule
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Rule)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// RentalConflictError lists the rentals colliding with the requested window.
// It is never resolvable by override.
type RentalConflictError struct {
	Window  DateRange
	Rentals []*Rental
}

func (e *RentalConflictError) Error() string {
	codes := make([]string, 0, len(e.Rentals))
	for _, r := range e.Rentals {
		codes = append(codes, r.Code)
	}
	return fmt.Sprintf("%s: %s collides with %s", ErrRentalConflict, e.Window, strings.Join(codes, ", "))
}

func (e *RentalConflictError) Unwrap() error {
	return ErrRentalConflict
}

// MaintenanceConflictError lists the maintenance records scheduled inside the requested window.
// The caller may retry with override to cancel them.
type MaintenanceConflictError struct {
	Window  DateRange
	Records []*Maintenance
}

func (e *MaintenanceConflictError) Error() string {
	return fmt.Sprintf("%s: %d maintenance record(s) scheduled within %s", ErrMaintenanceConflict, len(e.Records), e.Window)
}

func (e *MaintenanceConflictError) Unwrap() error {
	return ErrMaintenanceConflict
}

// VehicleUnavailableError reports a vehicle whose status rejects new bookings
type VehicleUnavailableError struct {
	VehicleID int64
	Status    VehicleStatus
}

func (e *VehicleUnavailableError) Error() string {
	return fmt.Sprintf("%s: vehicle %d is %s", ErrVehicleUnavailable, e.VehicleID, e.Status)
}

func (e *VehicleUnavailableError) Unwrap() error {
	return ErrVehicleUnavailable
}

// IsClientError reports whether err is an expected outcome caused by the request
// (missing entity, invalid input or a booking conflict) rather than a failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrRentalConflict) ||
		errors.Is(err, ErrMaintenanceConflict) ||
		errors.Is(err, ErrVehicleUnavailable)
}

// ResultLabel classifies an operation outcome for metrics
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRentalConflict),
		errors.Is(err, ErrMaintenanceConflict),
		errors.Is(err, ErrVehicleUnavailable):
		return "conflict"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return "rejected"
	case errors.Is(err, ErrConcurrency):
		return "retry_exhausted"
	default:
		return "error"
	}
}
