package models

import (
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Request модели

// CreateDamageRequest запрос на регистрацию повреждения
type CreateDamageRequest struct {
	VehicleID   int64   `json:"vehicleId"`
	RentalID    *int64  `json:"rentalId,omitempty"` // аренда, во время которой обнаружено повреждение
	Severity    string  `json:"severity"`
	Status      string  `json:"status,omitempty"` // по умолчанию reported
	Description string  `json:"description"`
	RepairCost  float64 `json:"repairCost"`
}

// UpdateDamageRequest частичное обновление повреждения
type UpdateDamageRequest struct {
	Severity    *string  `json:"severity,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Description *string  `json:"description,omitempty"`
	RepairCost  *float64 `json:"repairCost,omitempty"`
}

// Response модели

// DamageResponse ответ с данными повреждения
type DamageResponse struct {
	ID            int64     `json:"id"`
	VehicleID     int64     `json:"vehicleId"`
	RentalID      *int64    `json:"rentalId,omitempty"`
	Severity      string    `json:"severity"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	RepairCost    float64   `json:"repairCost"`
	VehicleStatus string    `json:"vehicleStatus,omitempty"`
	ReportedAt    time.Time `json:"reportedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromDomainDamage конвертирует domain.Damage в DamageResponse
func FromDomainDamage(d *domain.Damage) *DamageResponse {
	return &DamageResponse{
		ID:          d.ID,
		VehicleID:   d.VehicleID,
		RentalID:    d.RentalID,
		Severity:    string(d.Severity),
		Status:      string(d.Status),
		Description: d.Description,
		RepairCost:  d.RepairCost,
		ReportedAt:  d.ReportedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
