package domain

// Pricing holds the fixed per-day add-on rates
type Pricing struct {
	DriverFeePerDay    float64
	InsuranceFeePerDay float64
}

// DefaultPricing returns the built-in add-on rates
func DefaultPricing() Pricing {
	return Pricing{
		DriverFeePerDay:    DefaultDriverFeePerDay,
		InsuranceFeePerDay: DefaultInsuranceFeePerDay,
	}
}

// Quote computes the amount for the given number of days:
// price*days + driverFee*days (if withDriver) + insuranceFee*days (if insurance).
func (p Pricing) Quote(pricePerDay float64, days int, withDriver, insurance bool) float64 {
	perDay := pricePerDay
	if withDriver {
		perDay += p.DriverFeePerDay
	}
	if insurance {
		perDay += p.InsuranceFeePerDay
	}
	return perDay * float64(days)
}
