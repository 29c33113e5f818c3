package models

import (
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// Request модели

// ForceStatusRequest запрос на ручную установку статуса
type ForceStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Response модели

// OverrideResponse действующее ручное переопределение
type OverrideResponse struct {
	Status string    `json:"status"`
	Reason string    `json:"reason"`
	SetAt  time.Time `json:"setAt"`
}

// VehicleResponse ответ с данными автомобиля
type VehicleResponse struct {
	ID           int64             `json:"id"`
	Make         string            `json:"make"`
	Model        string            `json:"model"`
	PlateNumber  string            `json:"plateNumber"`
	PricePerDay  float64           `json:"pricePerDay"`
	Status       string            `json:"status"`       // статус на момент запроса
	StoredStatus string            `json:"storedStatus"` // сохранённый кэш статуса
	Override     *OverrideResponse `json:"override,omitempty"`
}

// AvailableVehiclesResponse результат поиска свободных автомобилей
type AvailableVehiclesResponse struct {
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Vehicles  []*VehicleResponse `json:"vehicles"`
}

// ResyncReport итог пересчёта статусов
type ResyncReport struct {
	Checked int `json:"checked"`
	Changed int `json:"changed"`
	Skipped int `json:"skipped"` // автомобили с ручным переопределением
	Failed  int `json:"failed"`
}

// FromDomainVehicle конвертирует domain.Vehicle в VehicleResponse
func FromDomainVehicle(v *domain.Vehicle, current domain.VehicleStatus) *VehicleResponse {
	resp := &VehicleResponse{
		ID:           v.ID,
		Make:         v.Make,
		Model:        v.Model,
		PlateNumber:  v.PlateNumber,
		PricePerDay:  v.PricePerDay,
		Status:       string(current),
		StoredStatus: string(v.Status),
	}
	if v.Override != nil {
		resp.Override = &OverrideResponse{
			Status: string(v.Override.Status),
			Reason: v.Override.Reason,
			SetAt:  v.Override.SetAt,
		}
	}
	return resp
}
