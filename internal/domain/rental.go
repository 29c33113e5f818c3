package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RentalStatus represents the lifecycle state of a rental
type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

// PaymentStatus represents the payment state of a rental
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

const rentalCodePrefix = "RNT-"

// rentalTransitions defines the normal lifecycle paths
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalPending: {RentalActive, RentalCancelled},
	RentalActive:  {RentalCompleted, RentalCancelled},
}

// BlockingRentalStatuses hold the vehicle for their date range
var BlockingRentalStatuses = []RentalStatus{RentalPending, RentalActive}

// IsValid reports whether s is a known rental status
func (s RentalStatus) IsValid() bool {
	switch s {
	case RentalPending, RentalActive, RentalCompleted, RentalCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks the normal lifecycle path from s to target
func (s RentalStatus) CanTransitionTo(target RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s RentalStatus) IsTerminal() bool {
	return s == RentalCompleted || s == RentalCancelled
}

// IsBlocking reports whether a rental in this status holds its vehicle
func (s RentalStatus) IsBlocking() bool {
	return s == RentalPending || s == RentalActive
}

// IsAdminCorrection reports whether from -> to is only allowed as an administrative correction
func IsAdminCorrection(from, to RentalStatus) bool {
	return from == RentalPending && to == RentalCompleted
}

// Rental represents a booking of a vehicle by a customer
type Rental struct {
	ID            int64
	Code          string
	VehicleID     int64
	CustomerID    int64
	StartDate     time.Time
	EndDate       time.Time
	Status        RentalStatus
	PaymentStatus PaymentStatus
	TotalAmount   float64
	WithDriver    bool
	Insurance     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Range returns the rental period
func (r *Rental) Range() DateRange {
	return DateRange{Start: r.StartDate, End: r.EndDate}
}

// NewRentalCode generates a human-readable rental code, e.g. RNT-9F86D081
func NewRentalCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return rentalCodePrefix + strings.ToUpper(raw[:8])
}
