package create_rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	customerRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/customer"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/conflicts"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

const operation = "create"

// UseCase use case для создания аренды
type UseCase struct {
	rentalRepo   RentalRepository
	customerRepo CustomerRepository
	resolver     ConflictResolver
	deriver      StatusDeriver
	txManager    TransactionManager
	notifier     Notifier
	metrics      MetricsRecorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rentalRepo RentalRepository,
	customerRepo CustomerRepository,
	resolver ConflictResolver,
	deriver StatusDeriver,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		rentalRepo:   rentalRepo,
		customerRepo: customerRepo,
		resolver:     resolver,
		deriver:      deriver,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute создает аренду в статусе pending.
// Проверка конфликтов, запись аренды, счётчики клиента и пересчёт статуса автомобиля
// выполняются в одной сериализуемой транзакции под блокировкой автомобиля.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRental: customer=%d, vehicle=%d, start=%s, end=%s, driver=%t, insurance=%t, override=%t",
		req.CustomerID, req.VehicleID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		req.WithDriver, req.Insurance, req.Override)

	// 1. Валидация входных данных
	period, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateRental: validation failed: %v", err)
		uc.count(domain.ErrValidation)
		return nil, err
	}

	var (
		result *Response
		change status.Change
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, change = nil, status.Change{}

		// 2.1. Проверяем клиента
		if _, err := uc.customerRepo.GetByID(txCtx, req.CustomerID); err != nil {
			if errors.Is(err, customerRepo.ErrCustomerNotFound) {
				uc.logger.Warn("CreateRental: customer id=%d not found", req.CustomerID)
				return ErrCustomerNotFound
			}
			return fmt.Errorf("%w: get customer: %w", ErrInternal, err)
		}

		// 2.2. Блокируем автомобиль и проверяем конфликты
		resolution, err := uc.resolver.ResolveBooking(txCtx, conflicts.Request{
			VehicleID:  req.VehicleID,
			Window:     period,
			Billable:   period,
			Override:   req.Override,
			WithDriver: req.WithDriver,
			Insurance:  req.Insurance,
			Mode:       conflicts.ModeNewBooking,
		})
		if err != nil {
			return err
		}

		// 2.3. Сохраняем аренду
		rental, err := uc.rentalRepo.Create(txCtx, &domain.Rental{
			Code:          domain.NewRentalCode(),
			VehicleID:     req.VehicleID,
			CustomerID:    req.CustomerID,
			StartDate:     period.Start,
			EndDate:       period.End,
			Status:        domain.RentalPending,
			PaymentStatus: domain.PaymentPending,
			TotalAmount:   resolution.Amount,
			WithDriver:    req.WithDriver,
			Insurance:     req.Insurance,
		})
		if err != nil {
			return fmt.Errorf("%w: create rental: %w", ErrInternal, err)
		}

		// 2.4. Обновляем счётчики клиента
		if err := uc.customerRepo.AdjustAggregates(txCtx, req.CustomerID, 1, rental.TotalAmount); err != nil {
			return fmt.Errorf("%w: adjust customer aggregates: %w", ErrInternal, err)
		}

		// 2.5. Пересчитываем статус автомобиля (отменённое обслуживание могло его изменить)
		change, err = uc.deriver.Recompute(txCtx, req.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: recompute vehicle status: %w", ErrInternal, err)
		}

		result = &Response{
			Rental:               rental,
			Days:                 resolution.Days,
			VehicleStatus:        change.Current,
			OpenDamages:          resolution.OpenDamages,
			CancelledMaintenance: resolution.CancelledMaintenance,
		}
		return nil
	})
	if err != nil {
		uc.count(err)
		if !domain.IsClientError(err) {
			uc.logger.Error("CreateRental: transaction failed: %v", err)
		}
		return nil, err
	}

	uc.count(nil)
	uc.logger.Info("CreateRental: created rental id=%d code=%s amount=%.2f vehicle_status=%s",
		result.Rental.ID, result.Rental.Code, result.Rental.TotalAmount, result.VehicleStatus)

	// 3. Уведомления отправляются только после фиксации транзакции
	uc.notify(ctx, result, change)

	return result, nil
}

func (uc *UseCase) notify(ctx context.Context, result *Response, change status.Change) {
	uc.notifier.Notify(ctx, domain.EventRentalCreated, domain.NewRentalEvent(result.Rental, result.VehicleStatus))
	for _, m := range result.CancelledMaintenance {
		uc.notifier.Notify(ctx, domain.EventMaintenanceCancelled,
			domain.NewMaintenanceEvent(m, "overridden by rental "+result.Rental.Code))
	}
	if change.Changed() {
		uc.notifier.Notify(ctx, domain.EventVehicleStatusChanged, change.Event())
	}
}

func (uc *UseCase) count(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncBooking(operation, domain.ResultLabel(err))
}
