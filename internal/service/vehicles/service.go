package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
)

// Service сервис автомобилей: статус на момент чтения, ручное переопределение,
// поиск свободных автомобилей и пересчёт сохранённых статусов
type Service struct {
	vehicleRepo  VehicleRepository
	rentalRepo   RentalRepository
	statuses     StatusService
	txManager    TransactionManager
	notifier     Notifier
	policy       domain.OverlapPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса автомобилей
func NewService(
	vehicleRepo VehicleRepository,
	rentalRepo RentalRepository,
	statuses StatusService,
	txManager TransactionManager,
	notifier Notifier,
	policy domain.OverlapPolicy,
	logger Logger,
) *Service {
	return &Service{
		vehicleRepo:  vehicleRepo,
		rentalRepo:   rentalRepo,
		statuses:     statuses,
		txManager:    txManager,
		notifier:     notifier,
		policy:       policy,
		timeProvider: &status.RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID возвращает автомобиль со статусом, вычисленным на момент чтения
func (s *Service) GetByID(ctx context.Context, id int64) (*models.VehicleResponse, error) {
	var resp *models.VehicleResponse

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		vehicle, err := s.vehicleRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
				s.logger.Warn("GetByID: vehicle id=%d not found", id)
				return ErrVehicleNotFound
			}
			return fmt.Errorf("%w: GetByID - get vehicle: %w", ErrInternal, err)
		}

		current, err := s.statuses.Current(txCtx, vehicle)
		if err != nil {
			return fmt.Errorf("%w: GetByID - derive status: %w", ErrInternal, err)
		}

		if current != vehicle.Status {
			s.logger.Info("GetByID: vehicle id=%d stored status %s is stale, current %s", id, vehicle.Status, current)
		}
		resp = models.FromDomainVehicle(vehicle, current)
		return nil
	})
	if err != nil {
		if !domain.IsClientError(err) {
			s.logger.Error("GetByID: vehicle id=%d: %v", id, err)
		}
		return nil, err
	}

	return resp, nil
}

// ForceStatus устанавливает статус вручную. Переопределение действует до следующего
// изменения блокирующих условий автомобиля или до пересчёта по расписанию.
func (s *Service) ForceStatus(ctx context.Context, id int64, req *models.ForceStatusRequest) (*models.VehicleResponse, error) {
	s.logger.Info("ForceStatus: vehicle id=%d to %s", id, req.Status)

	target := domain.VehicleStatus(req.Status)
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var (
		vehicle  *domain.Vehicle
		previous domain.VehicleStatus
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error

		vehicle, err = s.vehicleRepo.LockByID(txCtx, id)
		if err != nil {
			if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
				return ErrVehicleNotFound
			}
			return fmt.Errorf("%w: ForceStatus - lock vehicle: %w", ErrInternal, err)
		}
		previous = vehicle.Status

		override := domain.ManualOverride{
			Status: target,
			Reason: reason,
			SetAt:  s.timeProvider.Now().UTC(),
		}
		if err := s.vehicleRepo.SetOverride(txCtx, id, override); err != nil {
			return fmt.Errorf("%w: ForceStatus - set override: %w", ErrInternal, err)
		}

		vehicle.Status = target
		vehicle.Override = &override
		return nil
	})
	if err != nil {
		if domain.IsClientError(err) {
			s.logger.Warn("ForceStatus: vehicle id=%d: %v", id, err)
		} else {
			s.logger.Error("ForceStatus: vehicle id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("ForceStatus: vehicle id=%d %s -> %s (%s)", id, previous, target, reason)
	if previous != target {
		s.notifier.Notify(ctx, domain.EventVehicleStatusChanged, domain.VehicleStatusEvent{
			VehicleID: id,
			From:      string(previous),
			To:        string(target),
		})
	}

	return models.FromDomainVehicle(vehicle, target), nil
}

// SearchAvailable возвращает автомобили, свободные на весь период:
// текущий статус допускает бронирование и ни одна аренда pending/active не пересекается с периодом.
func (s *Service) SearchAvailable(ctx context.Context, start, end time.Time) (*models.AvailableVehiclesResponse, error) {
	period, err := domain.NewRentalRange(start, end)
	if err != nil {
		return nil, err
	}
	s.logger.Info("SearchAvailable: period %s", period)

	resp := &models.AvailableVehiclesResponse{
		StartDate: period.Start.Format(domain.DateFormat),
		EndDate:   period.End.Format(domain.DateFormat),
		Vehicles:  make([]*models.VehicleResponse, 0),
	}

	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		rentals, err := s.rentalRepo.ListBlockingBetween(txCtx, period.Start, period.End)
		if err != nil {
			return fmt.Errorf("%w: SearchAvailable - list rentals: %w", ErrInternal, err)
		}

		booked := make(map[int64]struct{}, len(rentals))
		for _, rental := range rentals {
			if s.policy.Overlaps(period, rental.Range()) {
				booked[rental.VehicleID] = struct{}{}
			}
		}

		vehicles, err := s.vehicleRepo.List(txCtx)
		if err != nil {
			return fmt.Errorf("%w: SearchAvailable - list vehicles: %w", ErrInternal, err)
		}

		for _, vehicle := range vehicles {
			if _, ok := booked[vehicle.ID]; ok {
				continue
			}
			current, err := s.statuses.Current(txCtx, vehicle)
			if err != nil {
				return fmt.Errorf("%w: SearchAvailable - derive status of vehicle id=%d: %w", ErrInternal, vehicle.ID, err)
			}
			if !current.AcceptsNewBookings() {
				continue
			}
			resp.Vehicles = append(resp.Vehicles, models.FromDomainVehicle(vehicle, current))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SearchAvailable: %v", err)
		return nil, err
	}

	s.logger.Info("SearchAvailable: %d vehicle(s) free for %s", len(resp.Vehicles), period)
	return resp, nil
}

// ResyncAll пересчитывает сохранённый статус каждого автомобиля без ручного переопределения.
// Каждый автомобиль обрабатывается в своей транзакции; ошибка по одному не прерывает остальные.
func (s *Service) ResyncAll(ctx context.Context) (*models.ResyncReport, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		s.logger.Error("ResyncAll: list vehicles: %v", err)
		return nil, fmt.Errorf("%w: ResyncAll - list vehicles: %w", ErrInternal, err)
	}

	report := &models.ResyncReport{}
	for _, vehicle := range vehicles {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if vehicle.HasOverride() {
			report.Skipped++
			continue
		}
		report.Checked++

		var change status.Change
		err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			locked, err := s.vehicleRepo.LockByID(txCtx, vehicle.ID)
			if err != nil {
				return err
			}
			// переопределение могло появиться после чтения списка
			if locked.HasOverride() {
				change = status.Change{VehicleID: vehicle.ID, Previous: locked.Status, Current: locked.Status}
				return nil
			}
			change, err = s.statuses.Recompute(txCtx, vehicle.ID)
			return err
		})
		if err != nil {
			report.Failed++
			s.logger.Error("ResyncAll: vehicle id=%d: %v", vehicle.ID, err)
			continue
		}

		if change.Changed() {
			report.Changed++
			s.notifier.Notify(ctx, domain.EventVehicleStatusChanged, change.Event())
		}
	}

	s.logger.Info("ResyncAll: checked=%d changed=%d skipped=%d failed=%d",
		report.Checked, report.Changed, report.Skipped, report.Failed)
	return report, nil
}
