package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	maintenanceRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/maintenance"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// Service сервис обслуживания автомобилей.
// Запись scheduled становится блокирующей с наступлением даты, поэтому статус
// пересчитывается при каждом изменении и по расписанию.
type Service struct {
	maintenanceRepo MaintenanceRepository
	vehicles        VehicleLocker
	deriver         StatusDeriver
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса обслуживания
func NewService(
	maintenanceRepo MaintenanceRepository,
	vehicles VehicleLocker,
	deriver StatusDeriver,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		maintenanceRepo: maintenanceRepo,
		vehicles:        vehicles,
		deriver:         deriver,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает запись обслуживания по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.MaintenanceResponse, error) {
	var record *domain.Maintenance
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.getRecord(txCtx, "GetByID", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainMaintenance(record), nil
}

// Create планирует обслуживание автомобиля
func (s *Service) Create(ctx context.Context, req *models.CreateMaintenanceRequest) (*models.MaintenanceResponse, error) {
	s.logger.Info("Create: maintenance %q for vehicle=%d on %s", req.Type, req.VehicleID, req.ScheduledDate)

	record, err := validateCreate(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	var change status.Change
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		change = status.Change{}

		if err := s.lockVehicle(txCtx, "Create", record.VehicleID); err != nil {
			return err
		}

		created, err := s.maintenanceRepo.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("%w: Create - create maintenance: %w", ErrInternal, err)
		}
		record = created

		change, err = s.deriver.Recompute(txCtx, record.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Create - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Create", err)
		return nil, err
	}

	s.logger.Info("Create: maintenance id=%d scheduled, vehicle id=%d is %s", record.ID, record.VehicleID, change.Current)
	s.notifyChange(ctx, change)

	resp := models.FromDomainMaintenance(record)
	resp.VehicleStatus = string(change.Current)
	return resp, nil
}

// Update изменяет запись: scheduled -> in_progress -> completed, отмена из любого незавершённого статуса.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateMaintenanceRequest) (*models.MaintenanceResponse, error) {
	s.logger.Info("Update: maintenance id=%d", id)

	var (
		record   *domain.Maintenance
		previous domain.MaintenanceStatus
		change   status.Change
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		change = status.Change{}

		record, err = s.lockedRecord(txCtx, "Update", id)
		if err != nil {
			return err
		}
		previous = record.Status

		if err := applyUpdate(record, req); err != nil {
			return err
		}

		if err := s.maintenanceRepo.Update(txCtx, record); err != nil {
			if errors.Is(err, maintenanceRepo.ErrMaintenanceNotFound) {
				return ErrMaintenanceNotFound
			}
			return fmt.Errorf("%w: Update - update maintenance: %w", ErrInternal, err)
		}

		change, err = s.deriver.Recompute(txCtx, record.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Update - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Update", err)
		return nil, err
	}

	s.logger.Info("Update: maintenance id=%d is %s, vehicle id=%d is %s", record.ID, record.Status, record.VehicleID, change.Current)

	if previous != domain.MaintenanceCancelled && record.Status == domain.MaintenanceCancelled {
		s.notifier.Notify(ctx, domain.EventMaintenanceCancelled, domain.NewMaintenanceEvent(record, "cancelled"))
	}
	s.notifyChange(ctx, change)

	resp := models.FromDomainMaintenance(record)
	resp.VehicleStatus = string(change.Current)
	return resp, nil
}

// Delete удаляет запись обслуживания и пересчитывает статус автомобиля
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: maintenance id=%d", id)

	var (
		record *domain.Maintenance
		change status.Change
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		change = status.Change{}

		record, err = s.lockedRecord(txCtx, "Delete", id)
		if err != nil {
			return err
		}

		if err := s.maintenanceRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, maintenanceRepo.ErrMaintenanceNotFound) {
				return ErrMaintenanceNotFound
			}
			return fmt.Errorf("%w: Delete - delete maintenance: %w", ErrInternal, err)
		}

		change, err = s.deriver.Recompute(txCtx, record.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Delete - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Delete", err)
		return err
	}

	s.logger.Info("Delete: maintenance id=%d deleted, vehicle id=%d is %s", id, record.VehicleID, change.Current)
	s.notifyChange(ctx, change)
	return nil
}

func (s *Service) lockVehicle(ctx context.Context, op string, vehicleID int64) error {
	if _, err := s.vehicles.LockByID(ctx, vehicleID); err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			s.logger.Warn("%s: vehicle id=%d not found", op, vehicleID)
			return ErrVehicleNotFound
		}
		return fmt.Errorf("%w: %s - lock vehicle id=%d: %w", ErrInternal, op, vehicleID, err)
	}
	return nil
}

// lockedRecord читает запись, блокирует её автомобиль и перечитывает запись под блокировкой
func (s *Service) lockedRecord(ctx context.Context, op string, id int64) (*domain.Maintenance, error) {
	record, err := s.getRecord(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err := s.lockVehicle(ctx, op, record.VehicleID); err != nil {
		return nil, err
	}
	return s.getRecord(ctx, op, id)
}

func (s *Service) getRecord(ctx context.Context, op string, id int64) (*domain.Maintenance, error) {
	record, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, maintenanceRepo.ErrMaintenanceNotFound) {
			s.logger.Warn("%s: maintenance id=%d not found", op, id)
			return nil, ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("%w: %s - get maintenance: %w", ErrInternal, op, err)
	}
	return record, nil
}

func (s *Service) notifyChange(ctx context.Context, change status.Change) {
	if change.Changed() {
		s.notifier.Notify(ctx, domain.EventVehicleStatusChanged, change.Event())
	}
}

func (s *Service) logFailure(op string, err error) {
	if domain.IsClientError(err) {
		s.logger.Warn("%s: %v", op, err)
		return
	}
	s.logger.Error("%s: %v", op, err)
}
