package create_rental

import (
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	damageModels "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages/models"
	maintenanceModels "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
	rentalModels "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
	createRental "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/create_rental"
)

// CreateRentalRequest HTTP request model
type CreateRentalRequest struct {
	CustomerID int64  `json:"customerId"`
	VehicleID  int64  `json:"vehicleId"`
	StartDate  string `json:"startDate"` // "2024-06-01"
	EndDate    string `json:"endDate"`   // "2024-06-03"
	WithDriver bool   `json:"withDriver"`
	Insurance  bool   `json:"insurance"`
	Override   bool   `json:"override"`
}

// CreateRentalResponse HTTP response model
type CreateRentalResponse struct {
	Rental               *rentalModels.RentalResponse             `json:"rental"`
	Days                 int                                      `json:"days"`
	OpenDamages          []*damageModels.DamageResponse           `json:"openDamages,omitempty"`
	CancelledMaintenance []*maintenanceModels.MaintenanceResponse `json:"cancelledMaintenance,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRentalRequest) ToUseCaseRequest() (*createRental.Request, error) {
	start, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &createRental.Request{
		CustomerID: r.CustomerID,
		VehicleID:  r.VehicleID,
		StartDate:  start,
		EndDate:    end,
		WithDriver: r.WithDriver,
		Insurance:  r.Insurance,
		Override:   r.Override,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRental.Response) *CreateRentalResponse {
	rental := rentalModels.FromDomainRental(resp.Rental)
	rental.VehicleStatus = string(resp.VehicleStatus)

	out := &CreateRentalResponse{
		Rental:               rental,
		Days:                 resp.Days,
		CancelledMaintenance: maintenanceModels.FromDomainMaintenanceList(resp.CancelledMaintenance),
	}
	for _, d := range resp.OpenDamages {
		out.OpenDamages = append(out.OpenDamages, damageModels.FromDomainDamage(d))
	}
	return out
}
