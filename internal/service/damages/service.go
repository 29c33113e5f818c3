package damages

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	damageRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/damage"
	rentalRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/rental"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// Service сервис повреждений. Каждое изменение завершается пересчётом статуса автомобиля
// в той же транзакции под блокировкой автомобиля.
type Service struct {
	damageRepo DamageRepository
	vehicles   VehicleLocker
	rentalRepo RentalRepository
	deriver    StatusDeriver
	txManager  TransactionManager
	notifier   Notifier
	logger     Logger
}

// NewService создает новый экземпляр сервиса повреждений
func NewService(
	damageRepo DamageRepository,
	vehicles VehicleLocker,
	rentalRepo RentalRepository,
	deriver StatusDeriver,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		damageRepo: damageRepo,
		vehicles:   vehicles,
		rentalRepo: rentalRepo,
		deriver:    deriver,
		txManager:  txManager,
		notifier:   notifier,
		logger:     logger,
	}
}

// GetByID получает повреждение по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.DamageResponse, error) {
	var damage *domain.Damage
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		damage, err = s.getDamage(txCtx, "GetByID", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainDamage(damage), nil
}

// Create регистрирует повреждение автомобиля
func (s *Service) Create(ctx context.Context, req *models.CreateDamageRequest) (*models.DamageResponse, error) {
	s.logger.Info("Create: damage for vehicle=%d, severity=%s", req.VehicleID, req.Severity)

	damage, err := validateCreate(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	var change status.Change
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		change = status.Change{}

		// 1. Блокируем автомобиль
		if err := s.lockVehicle(txCtx, "Create", damage.VehicleID); err != nil {
			return err
		}

		// 2. Аренда, если указана, должна относиться к этому автомобилю
		if damage.RentalID != nil {
			rental, err := s.rentalRepo.GetByID(txCtx, *damage.RentalID)
			if err != nil {
				if errors.Is(err, rentalRepo.ErrRentalNotFound) {
					return ErrRentalNotFound
				}
				return fmt.Errorf("%w: Create - get rental: %w", ErrInternal, err)
			}
			if rental.VehicleID != damage.VehicleID {
				return fmt.Errorf("%w: rental %d belongs to another vehicle", ErrInvalidInput, rental.ID)
			}
		}

		// 3. Сохраняем повреждение
		created, err := s.damageRepo.Create(txCtx, damage)
		if err != nil {
			return fmt.Errorf("%w: Create - create damage: %w", ErrInternal, err)
		}
		damage = created

		// 4. Пересчитываем статус автомобиля
		change, err = s.deriver.Recompute(txCtx, damage.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Create - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Create", err)
		return nil, err
	}

	s.logger.Info("Create: damage id=%d registered, vehicle id=%d is %s", damage.ID, damage.VehicleID, change.Current)

	s.notifier.Notify(ctx, domain.EventDamageReported, domain.DamageEvent{
		DamageID:  damage.ID,
		VehicleID: damage.VehicleID,
		Severity:  string(damage.Severity),
	})
	s.notifyChange(ctx, change)

	resp := models.FromDomainDamage(damage)
	resp.VehicleStatus = string(change.Current)
	return resp, nil
}

// Update изменяет повреждение. Статус двигается только вперёд: reported -> in_repair -> repaired.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateDamageRequest) (*models.DamageResponse, error) {
	s.logger.Info("Update: damage id=%d", id)

	var (
		damage *domain.Damage
		change status.Change
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		change = status.Change{}

		damage, err = s.lockedDamage(txCtx, "Update", id)
		if err != nil {
			return err
		}

		if err := applyUpdate(damage, req); err != nil {
			return err
		}

		if err := s.damageRepo.Update(txCtx, damage); err != nil {
			if errors.Is(err, damageRepo.ErrDamageNotFound) {
				return ErrDamageNotFound
			}
			return fmt.Errorf("%w: Update - update damage: %w", ErrInternal, err)
		}

		change, err = s.deriver.Recompute(txCtx, damage.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Update - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Update", err)
		return nil, err
	}

	s.logger.Info("Update: damage id=%d is %s/%s, vehicle id=%d is %s",
		damage.ID, damage.Severity, damage.Status, damage.VehicleID, change.Current)
	s.notifyChange(ctx, change)

	resp := models.FromDomainDamage(damage)
	resp.VehicleStatus = string(change.Current)
	return resp, nil
}

// Delete удаляет повреждение и пересчитывает статус автомобиля
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: damage id=%d", id)

	var (
		damage *domain.Damage
		change status.Change
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		change = status.Change{}

		damage, err = s.lockedDamage(txCtx, "Delete", id)
		if err != nil {
			return err
		}

		if err := s.damageRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, damageRepo.ErrDamageNotFound) {
				return ErrDamageNotFound
			}
			return fmt.Errorf("%w: Delete - delete damage: %w", ErrInternal, err)
		}

		change, err = s.deriver.Recompute(txCtx, damage.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Delete - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Delete", err)
		return err
	}

	s.logger.Info("Delete: damage id=%d deleted, vehicle id=%d is %s", id, damage.VehicleID, change.Current)
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

// lockedDamage читает повреждение, блокирует его автомобиль и перечитывает запись под блокировкой
func (s *Service) lockedDamage(ctx context.Context, op string, id int64) (*domain.Damage, error) {
	damage, err := s.getDamage(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err := s.lockVehicle(ctx, op, damage.VehicleID); err != nil {
		return nil, err
	}
	return s.getDamage(ctx, op, id)
}

func (s *Service) getDamage(ctx context.Context, op string, id int64) (*domain.Damage, error) {
	damage, err := s.damageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, damageRepo.ErrDamageNotFound) {
			s.logger.Warn("%s: damage id=%d not found", op, id)
			return nil, ErrDamageNotFound
		}
		return nil, fmt.Errorf("%w: %s - get damage: %w", ErrInternal, op, err)
	}
	return damage, nil
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
