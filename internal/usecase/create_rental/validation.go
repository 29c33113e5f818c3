package create_rental

import (
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// validateRequest проверяет входные данные и возвращает нормализованный период аренды
func validateRequest(req *Request) (domain.DateRange, error) {
	if req.CustomerID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.VehicleID <= 0 {
		return domain.DateRange{}, fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}

	period, err := domain.NewRentalRange(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DateRange{}, err
	}
	if period.Days() > domain.MaxRentalDays {
		return domain.DateRange{}, &domain.ValidationError{
			Field: "endDate",
			Rule:  fmt.Sprintf("rental cannot exceed %d days", domain.MaxRentalDays),
		}
	}

	return period, nil
}
