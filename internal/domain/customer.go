package domain

import "time"

// Customer represents a renter together with the aggregates maintained by the rental lifecycle
type Customer struct {
	ID           int64
	FullName     string
	Email        string
	Phone        string
	TotalRentals int
	TotalSpent   float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
