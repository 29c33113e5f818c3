package models

import (
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Request модели

// CreateMaintenanceRequest запрос на планирование обслуживания
type CreateMaintenanceRequest struct {
	VehicleID     int64   `json:"vehicleId"`
	Type          string  `json:"type"`
	ScheduledDate string  `json:"scheduledDate"` // "2024-06-02"
	Cost          float64 `json:"cost"`
	Provider      string  `json:"provider"`
	Status        string  `json:"status,omitempty"` // по умолчанию scheduled
	Notes         string  `json:"notes"`
}

// UpdateMaintenanceRequest частичное обновление записи обслуживания
type UpdateMaintenanceRequest struct {
	Type          *string  `json:"type,omitempty"`
	ScheduledDate *string  `json:"scheduledDate,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	Provider      *string  `json:"provider,omitempty"`
	Status        *string  `json:"status,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Response модели

// MaintenanceResponse ответ с данными обслуживания
type MaintenanceResponse struct {
	ID            int64     `json:"id"`
	VehicleID     int64     `json:"vehicleId"`
	Type          string    `json:"type"`
	ScheduledDate string    `json:"scheduledDate"`
	Cost          float64   `json:"cost"`
	Provider      string    `json:"provider"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	VehicleStatus string    `json:"vehicleStatus,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromDomainMaintenance конвертирует domain.Maintenance в MaintenanceResponse
func FromDomainMaintenance(m *domain.Maintenance) *MaintenanceResponse {
	return &MaintenanceResponse{
		ID:            m.ID,
		VehicleID:     m.VehicleID,
		Type:          m.Type,
		ScheduledDate: m.ScheduledDate.Format(domain.DateFormat),
		Cost:          m.Cost,
		Provider:      m.Provider,
		Status:        string(m.Status),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomainMaintenanceList конвертирует список записей
func FromDomainMaintenanceList(records []*domain.Maintenance) []*MaintenanceResponse {
	out := make([]*MaintenanceResponse, 0, len(records))
	for _, m := range records {
		out = append(out, FromDomainMaintenance(m))
	}
	return out
}
