package damages

import (
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages/models"
)

func validateCreate(req *models.CreateDamageRequest) (*domain.Damage, error) {
	if req.VehicleID <= 0 {
		return nil, fmt.Errorf("%w: vehicleId must be positive", ErrInvalidInput)
	}

	severity := domain.DamageSeverity(req.Severity)
	if !severity.IsValid() {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, req.Severity)
	}

	status := domain.DamageReported
	if req.Status != "" {
		status = domain.DamageStatus(req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
		}
	}

	if req.RepairCost < 0 {
		return nil, &domain.ValidationError{Field: "repairCost", Rule: "must not be negative"}
	}

	return &domain.Damage{
		VehicleID:   req.VehicleID,
		RentalID:    req.RentalID,
		Severity:    severity,
		Status:      status,
		Description: req.Description,
		RepairCost:  req.RepairCost,
	}, nil
}

// applyUpdate применяет частичное обновление к повреждению
func applyUpdate(d *domain.Damage, req *models.UpdateDamageRequest) error {
	if req.Severity != nil {
		severity := domain.DamageSeverity(*req.Severity)
		if !severity.IsValid() {
			return fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, *req.Severity)
		}
		if severity != d.Severity && !d.IsOpen() {
			return fmt.Errorf("%w: damage is %s", ErrSeverityLocked, d.Status)
		}
		d.Severity = severity
	}

	if req.Status != nil {
		status := domain.DamageStatus(*req.Status)
		if !status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		if status != d.Status && !d.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, status)
		}
		d.Status = status
	}

	if req.Description != nil {
		d.Description = *req.Description
	}

	if req.RepairCost != nil {
		if *req.RepairCost < 0 {
			return &domain.ValidationError{Field: "repairCost", Rule: "must not be negative"}
		}
		d.RepairCost = *req.RepairCost
	}

	return nil
}
