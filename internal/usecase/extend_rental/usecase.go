package extend_rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	rentalRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/rental"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/conflicts"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

const operation = "extend"

// UseCase use case для продления аренды
type UseCase struct {
	rentalRepo   RentalRepository
	vehicles     VehicleLocker
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
	vehicles VehicleLocker,
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
		vehicles:     vehicles,
		customerRepo: customerRepo,
		resolver:     resolver,
		deriver:      deriver,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute продлевает аренду до новой даты окончания.
// Проверяется только окно продления; уже подтверждённый период повторно не проверяется.
// Статус аренды не меняется, сумма увеличивается на стоимость добавленных дней.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendRental: rental=%d, new_end=%s, override=%t",
		req.RentalID, req.NewEndDate.Format(domain.DateFormat), req.Override)

	// 1. Валидация входных данных
	if req.RentalID <= 0 {
		uc.count(ErrInvalidInput)
		return nil, fmt.Errorf("%w: rentalId must be positive", ErrInvalidInput)
	}
	if req.NewEndDate.IsZero() {
		uc.count(ErrInvalidInput)
		return nil, fmt.Errorf("%w: endDate is required", ErrInvalidInput)
	}
	newEnd := domain.DateOf(req.NewEndDate)

	var (
		result *Response
		change status.Change
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, change = nil, status.Change{}

		// 2.1. Находим аренду и блокируем её автомобиль
		rental, err := uc.lockedRental(txCtx, req.RentalID)
		if err != nil {
			return err
		}

		// 2.2. Проверяем, что аренду можно продлить
		if !rental.Status.IsBlocking() {
			uc.logger.Warn("ExtendRental: rental id=%d is %s", rental.ID, rental.Status)
			return ErrNotExtendable
		}

		oldEnd := domain.DateOf(rental.EndDate)
		if !newEnd.After(oldEnd) {
			return &domain.ValidationError{
				Field: "endDate",
				Rule:  fmt.Sprintf("new end date must be after %s", oldEnd.Format(domain.DateFormat)),
			}
		}
		if (domain.DateRange{Start: rental.StartDate, End: newEnd}).Days() > domain.MaxRentalDays {
			return &domain.ValidationError{
				Field: "endDate",
				Rule:  fmt.Sprintf("rental cannot exceed %d days", domain.MaxRentalDays),
			}
		}

		// 2.3. Проверяем только окно продления
		resolution, err := uc.resolver.ResolveBooking(txCtx, conflicts.Request{
			VehicleID:       rental.VehicleID,
			Window:          uc.resolver.Policy().ExtensionWindow(oldEnd, newEnd),
			Billable:        domain.DateRange{Start: oldEnd, End: newEnd},
			ExcludeRentalID: rental.ID,
			Override:        req.Override,
			WithDriver:      rental.WithDriver,
			Insurance:       rental.Insurance,
			Mode:            conflicts.ModeExtension,
		})
		if err != nil {
			return err
		}

		// 2.4. Сохраняем новую дату окончания и сумму
		total := rental.TotalAmount + resolution.Amount
		if err := uc.rentalRepo.UpdateEndDate(txCtx, rental.ID, newEnd, total); err != nil {
			return fmt.Errorf("%w: update end date: %w", ErrInternal, err)
		}

		// 2.5. Обновляем сумму клиента
		if err := uc.customerRepo.AdjustAggregates(txCtx, rental.CustomerID, 0, resolution.Amount); err != nil {
			return fmt.Errorf("%w: adjust customer aggregates: %w", ErrInternal, err)
		}

		// 2.6. Пересчитываем статус автомобиля
		change, err = uc.deriver.Recompute(txCtx, rental.VehicleID)
		if err != nil {
			return fmt.Errorf("%w: recompute vehicle status: %w", ErrInternal, err)
		}

		rental.EndDate = newEnd
		rental.TotalAmount = total
		result = &Response{
			Rental:               rental,
			AddedDays:            resolution.Days,
			AddedAmount:          resolution.Amount,
			VehicleStatus:        change.Current,
			CancelledMaintenance: resolution.CancelledMaintenance,
		}
		return nil
	})
	if err != nil {
		uc.count(err)
		if !domain.IsClientError(err) {
			uc.logger.Error("ExtendRental: transaction failed: %v", err)
		}
		return nil, err
	}

	uc.count(nil)
	uc.logger.Info("ExtendRental: rental id=%d extended to %s, +%d day(s), +%.2f",
		result.Rental.ID, newEnd.Format(domain.DateFormat), result.AddedDays, result.AddedAmount)

	// 3. Уведомления после фиксации транзакции
	uc.notifier.Notify(ctx, domain.EventRentalExtended, domain.NewRentalEvent(result.Rental, result.VehicleStatus))
	for _, m := range result.CancelledMaintenance {
		uc.notifier.Notify(ctx, domain.EventMaintenanceCancelled,
			domain.NewMaintenanceEvent(m, "overridden by extension of rental "+result.Rental.Code))
	}
	if change.Changed() {
		uc.notifier.Notify(ctx, domain.EventVehicleStatusChanged, change.Event())
	}

	return result, nil
}

// lockedRental читает аренду, блокирует её автомобиль и перечитывает аренду под блокировкой
func (uc *UseCase) lockedRental(ctx context.Context, id int64) (*domain.Rental, error) {
	rental, err := uc.getRental(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := uc.vehicles.LockByID(ctx, rental.VehicleID); err != nil {
		return nil, fmt.Errorf("%w: lock vehicle id=%d: %w", ErrInternal, rental.VehicleID, err)
	}
	return uc.getRental(ctx, id)
}

func (uc *UseCase) getRental(ctx context.Context, id int64) (*domain.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			uc.logger.Warn("ExtendRental: rental id=%d not found", id)
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("%w: get rental: %w", ErrInternal, err)
	}
	return rental, nil
}

func (uc *UseCase) count(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncBooking(operation, domain.ResultLabel(err))
}
