package domain

// Default pricing and booking settings
const (
	DefaultDriverFeePerDay    = 150.0
	DefaultInsuranceFeePerDay = 50.0
	DefaultMaxTxRetries       = 3
)

// Business validation constants
const (
	MaxRentalDays          = 365
	MaxStatusReasonLength  = 500
	MaxDescriptionLength   = 1000
	MaxMaintenanceTypeSize = 100
)

// DateFormat is the wire format of calendar dates (YYYY-MM-DD)
const DateFormat = "2006-01-02"
