package models

import (
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Request модели

// TransitionRequest запрос на смену статуса аренды
type TransitionRequest struct {
	Status          string `json:"status"`
	AdminCorrection bool   `json:"adminCorrection,omitempty"` // разрешает pending -> completed
}

// Response модели

// RentalResponse ответ с данными аренды
type RentalResponse struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	VehicleID     int64     `json:"vehicleId"`
	CustomerID    int64     `json:"customerId"`
	StartDate     string    `json:"startDate"` // "2024-06-01"
	EndDate       string    `json:"endDate"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   float64   `json:"totalAmount"`
	WithDriver    bool      `json:"withDriver"`
	Insurance     bool      `json:"insurance"`
	VehicleStatus string    `json:"vehicleStatus,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromDomainRental конвертирует domain.Rental в RentalResponse
func FromDomainRental(r *domain.Rental) *RentalResponse {
	return &RentalResponse{
		ID:            r.ID,
		Code:          r.Code,
		VehicleID:     r.VehicleID,
		CustomerID:    r.CustomerID,
		StartDate:     r.StartDate.Format(domain.DateFormat),
		EndDate:       r.EndDate.Format(domain.DateFormat),
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		TotalAmount:   r.TotalAmount,
		WithDriver:    r.WithDriver,
		Insurance:     r.Insurance,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToDomainRentalStatus конвертирует строку в domain.RentalStatus
func ToDomainRentalStatus(s string) (domain.RentalStatus, bool) {
	status := domain.RentalStatus(s)
	return status, status.IsValid()
}
