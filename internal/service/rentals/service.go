package rentals

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	rentalRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/rental"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// Service сервис жизненного цикла аренды: смена статуса, удаление, чтение
type Service struct {
	rentalRepo   RentalRepository
	vehicles     VehicleLocker
	customerRepo CustomerRepository
	deriver      StatusDeriver
	txManager    TransactionManager
	notifier     Notifier
	metrics      MetricsRecorder
	logger       Logger
}

// NewService создает новый экземпляр сервиса аренд
func NewService(
	rentalRepo RentalRepository,
	vehicles VehicleLocker,
	customerRepo CustomerRepository,
	deriver StatusDeriver,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		rentalRepo:   rentalRepo,
		vehicles:     vehicles,
		customerRepo: customerRepo,
		deriver:      deriver,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		logger:       logger,
	}
}

// GetByID получает аренду по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RentalResponse, error) {
	var rental *domain.Rental
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		rental, err = s.getRental(txCtx, "GetByID", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainRental(rental), nil
}

// Transition переводит аренду в новый статус по машине состояний.
// pending -> completed допускается только как административная корректировка.
// После смены статуса статус автомобиля пересчитывается в той же транзакции.
func (s *Service) Transition(ctx context.Context, id int64, req *models.TransitionRequest) (*models.RentalResponse, error) {
	s.logger.Info("Transition: rental id=%d to %s (admin=%t)", id, req.Status, req.AdminCorrection)

	target, ok := models.ToDomainRentalStatus(req.Status)
	if !ok {
		s.logger.Warn("Transition: invalid status=%q for rental id=%d", req.Status, id)
		s.count("transition", ErrInvalidStatus)
		return nil, ErrInvalidStatus
	}

	var (
		rental   *domain.Rental
		previous domain.RentalStatus
		change   status.Change
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		change = status.Change{}

		// 1. Находим аренду под блокировкой автомобиля
		rental, err = s.lockedRental(txCtx, "Transition", id)
		if err != nil {
			return err
		}
		previous = rental.Status

		// 2. Проверяем переход
		allowed := previous.CanTransitionTo(target) ||
			(req.AdminCorrection && domain.IsAdminCorrection(previous, target))
		if !allowed {
			s.logger.Warn("Transition: rental id=%d %s -> %s rejected", id, previous, target)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, target)
		}

		// 3. Сохраняем статус
		if err := s.rentalRepo.UpdateStatus(txCtx, id, target); err != nil {
			return fmt.Errorf("%w: Transition - update status: %w", ErrInternal, err)
		}
		rental.Status = target

		// 4. Пересчитываем статус автомобиля: active даёт rented, терминальный статус освобождает
		change, err = s.deriver.Recompute(txCtx, rental.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Transition - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	s.count("transition", err)
	if err != nil {
		if !domain.IsClientError(err) {
			s.logger.Error("Transition: rental id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("Transition: rental id=%d %s -> %s, vehicle id=%d is %s",
		id, previous, target, rental.VehicleID, change.Current)

	s.notifier.Notify(ctx, domain.EventRentalStatusChanged, domain.NewRentalEvent(rental, change.Current))
	if change.Changed() {
		s.notifier.Notify(ctx, domain.EventVehicleStatusChanged, change.Event())
	}

	resp := models.FromDomainRental(rental)
	resp.VehicleStatus = string(change.Current)
	return resp, nil
}

// Delete удаляет ошибочно созданную аренду.
// Счётчики клиента уменьшаются, статус автомобиля пересчитывается так, будто аренды не было.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting rental id=%d", id)

	var (
		rental *domain.Rental
		change status.Change
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		change = status.Change{}

		rental, err = s.lockedRental(txCtx, "Delete", id)
		if err != nil {
			return err
		}

		if err := s.rentalRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, rentalRepo.ErrRentalNotFound) {
				return ErrRentalNotFound
			}
			return fmt.Errorf("%w: Delete - delete rental: %w", ErrInternal, err)
		}

		if err := s.customerRepo.AdjustAggregates(txCtx, rental.CustomerID, -1, -rental.TotalAmount); err != nil {
			return fmt.Errorf("%w: Delete - adjust customer aggregates: %w", ErrInternal, err)
		}

		change, err = s.deriver.Recompute(txCtx, rental.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: Delete - recompute vehicle status: %w", ErrInternal, err)
		}
		return nil
	})
	s.count("delete", err)
	if err != nil {
		if !domain.IsClientError(err) {
			s.logger.Error("Delete: rental id=%d: %v", id, err)
		}
		return err
	}

	s.logger.Info("Delete: rental id=%d (%s) deleted, vehicle id=%d is %s", id, rental.Code, rental.VehicleID, change.Current)

	s.notifier.Notify(ctx, domain.EventRentalDeleted, domain.NewRentalEvent(rental, change.Current))
	if change.Changed() {
		s.notifier.Notify(ctx, domain.EventVehicleStatusChanged, change.Event())
	}
	return nil
}

// lockedRental читает аренду, блокирует её автомобиль и перечитывает аренду под блокировкой
func (s *Service) lockedRental(ctx context.Context, op string, id int64) (*domain.Rental, error) {
	rental, err := s.getRental(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicles.LockByID(ctx, rental.VehicleID); err != nil {
		return nil, fmt.Errorf("%w: %s - lock vehicle id=%d: %w", ErrInternal, op, rental.VehicleID, err)
	}
	return s.getRental(ctx, op, id)
}

func (s *Service) getRental(ctx context.Context, op string, id int64) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			s.logger.Warn("%s: rental id=%d not found", op, id)
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("%w: %s - get rental: %w", ErrInternal, op, err)
	}
	return rental, nil
}

func (s *Service) count(operation string, err error) {
	if s.metrics != nil {
		s.metrics.IncBooking(operation, domain.ResultLabel(err))
	}
}
