package maintenance

import (
	"fmt"
	"strings"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
)

func validateCreate(req *models.CreateMaintenanceRequest) (*domain.Maintenance, error) {
	if req.VehicleID <= 0 {
		return nil, fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, &domain.ValidationError{Field: "type", Rule: "is required"}
	}

	date, err := parseDate(req.ScheduledDate)
	if err != nil {
		return nil, err
	}

	if req.Cost < 0 {
		return nil, &domain.ValidationError{Field: "cost", Rule: "must not be negative"}
	}

	status := domain.MaintenanceScheduled
	if req.Status != "" {
		status = domain.MaintenanceStatus(req.Status)
		if !status.IsPending() {
			return nil, fmt.Errorf("%w: new record must be scheduled or in_progress, got %q", ErrInvalidInput, req.Status)
		}
	}

	return &domain.Maintenance{
		VehicleID:     req.VehicleID,
		Type:          strings.TrimSpace(req.Type),
		ScheduledDate: date,
		Cost:          req.Cost,
		Provider:      req.Provider,
		Status:        status,
		Notes:         req.Notes,
	}, nil
}

// applyUpdate применяет частичное обновление к записи
func applyUpdate(m *domain.Maintenance, req *models.UpdateMaintenanceRequest) error {
	if m.Status.IsTerminal() {
		return ErrFinished
	}

	if req.Type != nil {
		if strings.TrimSpace(*req.Type) == "" {
			return &domain.ValidationError{Field: "type", Rule: "is required"}
		}
		m.Type = strings.TrimSpace(*req.Type)
	}

	if req.ScheduledDate != nil {
		date, err := parseDate(*req.ScheduledDate)
		if err != nil {
			return err
		}
		m.ScheduledDate = date
	}

	if req.Cost != nil {
		if *req.Cost < 0 {
			return &domain.ValidationError{Field: "cost", Rule: "must not be negative"}
		}
		m.Cost = *req.Cost
	}

	if req.Provider != nil {
		m.Provider = *req.Provider
	}
	if req.Notes != nil {
		m.Notes = *req.Notes
	}

	if req.Status != nil {
		status := domain.MaintenanceStatus(*req.Status)
		if !status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		if status != m.Status && !m.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.Status, status)
		}
		m.Status = status
	}

	return nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &domain.ValidationError{Field: "scheduledDate", Rule: "is required"}
	}
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: "scheduledDate", Rule: "must be YYYY-MM-DD"}
	}
	return date, nil
}
