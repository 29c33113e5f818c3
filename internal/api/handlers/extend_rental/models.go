package extend_rental

import (
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	maintenanceModels "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
	rentalModels "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
	extendRental "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/extend_rental"
)

// ExtendRentalRequest HTTP request model
type ExtendRentalRequest struct {
	EndDate  string `json:"endDate"` // новая дата окончания "2024-06-05"
	Override bool   `json:"override"`
}

// ExtendRentalResponse HTTP response model
type ExtendRentalResponse struct {
	Rental               *rentalModels.RentalResponse             `json:"rental"`
	AddedDays            int                                      `json:"addedDays"`
	AddedAmount          float64                                  `json:"addedAmount"`
	CancelledMaintenance []*maintenanceModels.MaintenanceResponse `json:"cancelledMaintenance,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ExtendRentalRequest) ToUseCaseRequest(rentalID int64) (*extendRental.Request, error) {
	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}
	return &extendRental.Request{
		RentalID:   rentalID,
		NewEndDate: end,
		Override:   r.Override,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *extendRental.Response) *ExtendRentalResponse {
	rental := rentalModels.FromDomainRental(resp.Rental)
	rental.VehicleStatus = string(resp.VehicleStatus)

	return &ExtendRentalResponse{
		Rental:               rental,
		AddedDays:            resp.AddedDays,
		AddedAmount:          resp.AddedAmount,
		CancelledMaintenance: maintenanceModels.FromDomainMaintenanceList(resp.CancelledMaintenance),
	}
}
