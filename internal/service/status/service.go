package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
)

// Change результат пересчёта статуса
type Change struct {
	VehicleID int64
	Previous  domain.VehicleStatus
	Current   domain.VehicleStatus
}

// Changed сообщает, изменился ли сохранённый статус
func (c Change) Changed() bool {
	return c.Previous != c.Current
}

// Event payload уведомления vehicle.status_changed
func (c Change) Event() domain.VehicleStatusEvent {
	return domain.VehicleStatusEvent{
		VehicleID: c.VehicleID,
		From:      string(c.Previous),
		To:        string(c.Current),
	}
}

// Service вычисляет статус автомобиля из открытых повреждений, активного обслуживания и активной аренды
type Service struct {
	vehicleRepo     VehicleRepository
	rentalRepo      RentalRepository
	damageRepo      DamageRepository
	maintenanceRepo MaintenanceRepository
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса статусов
func NewService(
	vehicleRepo VehicleRepository,
	rentalRepo RentalRepository,
	damageRepo DamageRepository,
	maintenanceRepo MaintenanceRepository,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		vehicleRepo:     vehicleRepo,
		rentalRepo:      rentalRepo,
		damageRepo:      damageRepo,
		maintenanceRepo: maintenanceRepo,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Derive вычисляет статус по текущему состоянию БД на сегодняшнюю дату, ничего не записывая
func (s *Service) Derive(ctx context.Context, vehicleID int64) (domain.VehicleStatus, error) {
	conditions, err := s.collect(ctx, vehicleID)
	if err != nil {
		return "", err
	}

	derived := domain.DeriveStatus(conditions)
	if s.metrics != nil {
		s.metrics.IncStatusDerivation(string(derived))
	}
	return derived, nil
}

// Recompute вычисляет статус и сохраняет его, снимая ручное переопределение.
// Вызывается внутри транзакции, изменившей блокирующие условия автомобиля.
func (s *Service) Recompute(ctx context.Context, vehicleID int64) (Change, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			return Change{}, ErrVehicleNotFound
		}
		return Change{}, fmt.Errorf("%w: Recompute - get vehicle: %w", ErrInternal, err)
	}

	derived, err := s.Derive(ctx, vehicleID)
	if err != nil {
		return Change{}, err
	}

	change := Change{VehicleID: vehicleID, Previous: vehicle.Status, Current: derived}
	if !change.Changed() && !vehicle.HasOverride() {
		return change, nil
	}

	if err := s.vehicleRepo.SaveDerivedStatus(ctx, vehicleID, derived); err != nil {
		return Change{}, fmt.Errorf("%w: Recompute - save status: %w", ErrInternal, err)
	}

	if vehicle.HasOverride() {
		s.logger.Info("Recompute: vehicle id=%d manual override %s cleared", vehicleID, vehicle.Override.Status)
	}
	if change.Changed() {
		s.logger.Info("Recompute: vehicle id=%d status %s -> %s", vehicleID, change.Previous, change.Current)
	}

	return change, nil
}

// Current возвращает статус на момент чтения: ручное переопределение, если оно есть, иначе вычисленный
func (s *Service) Current(ctx context.Context, vehicle *domain.Vehicle) (domain.VehicleStatus, error) {
	if vehicle.HasOverride() {
		return vehicle.Override.Status, nil
	}
	return s.Derive(ctx, vehicle.ID)
}

func (s *Service) collect(ctx context.Context, vehicleID int64) (domain.BlockingConditions, error) {
	damages, err := s.damageRepo.ListOpenByVehicle(ctx, vehicleID)
	if err != nil {
		return domain.BlockingConditions{}, fmt.Errorf("%w: collect - list damages: %w", ErrInternal, err)
	}

	maintenance, err := s.maintenanceRepo.ListPendingByVehicle(ctx, vehicleID)
	if err != nil {
		return domain.BlockingConditions{}, fmt.Errorf("%w: collect - list maintenance: %w", ErrInternal, err)
	}

	rentals, err := s.rentalRepo.ListBlockingByVehicle(ctx, vehicleID)
	if err != nil {
		return domain.BlockingConditions{}, fmt.Errorf("%w: collect - list rentals: %w", ErrInternal, err)
	}

	return domain.CollectConditions(damages, maintenance, rentals, s.timeProvider.Now()), nil
}
