package conflicts

import (
	"context"
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	vehicleRepo "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/infra/storage/vehicle"
)

const (
	conflictKindRental      = "rental"
	conflictKindMaintenance = "maintenance"
	conflictKindVehicle     = "vehicle_status"
)

// Resolver проверяет окно бронирования на конфликты с арендами и обслуживанием.
// Должен вызываться внутри транзакции: первым шагом блокируется строка автомобиля.
type Resolver struct {
	vehicleRepo     VehicleRepository
	rentalRepo      RentalRepository
	damageRepo      DamageRepository
	maintenanceRepo MaintenanceRepository
	policy          domain.OverlapPolicy
	pricing         domain.Pricing
	metrics         MetricsRecorder
	logger          Logger
}

// NewResolver создает новый экземпляр резолвера
func NewResolver(
	vehicleRepo VehicleRepository,
	rentalRepo RentalRepository,
	damageRepo DamageRepository,
	maintenanceRepo MaintenanceRepository,
	policy domain.OverlapPolicy,
	pricing domain.Pricing,
	metrics MetricsRecorder,
	logger Logger,
) *Resolver {
	return &Resolver{
		vehicleRepo:     vehicleRepo,
		rentalRepo:      rentalRepo,
		damageRepo:      damageRepo,
		maintenanceRepo: maintenanceRepo,
		policy:          policy,
		pricing:         pricing,
		metrics:         metrics,
		logger:          logger,
	}
}

// Policy возвращает политику пересечения интервалов
func (r *Resolver) Policy() domain.OverlapPolicy {
	return r.policy
}

// ResolveBooking проверяет окно и при override отменяет конфликтующее обслуживание.
// Конфликт с арендой не снимается никаким флагом.
func (r *Resolver) ResolveBooking(ctx context.Context, req Request) (*Resolution, error) {
	// 1. Загружаем и блокируем автомобиль
	vehicle, err := r.vehicleRepo.LockByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleRepo.ErrVehicleNotFound) {
			r.logger.Warn("ResolveBooking: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		return nil, fmt.Errorf("%w: ResolveBooking - lock vehicle: %w", ErrInternal, err)
	}

	// 2. Для новой аренды проверяем сохранённый статус автомобиля
	if req.Mode == ModeNewBooking && !vehicle.Status.AcceptsNewBookings() {
		r.logger.Warn("ResolveBooking: vehicle id=%d is %s, new bookings rejected", vehicle.ID, vehicle.Status)
		r.countConflict(conflictKindVehicle)
		return nil, &domain.VehicleUnavailableError{VehicleID: vehicle.ID, Status: vehicle.Status}
	}

	openDamages, err := r.damageRepo.ListOpenByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveBooking - list damages: %w", ErrInternal, err)
	}

	// 3. Пересечения с другими арендами - жёсткий конфликт
	rentals, err := r.rentalRepo.ListBlockingByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveBooking - list rentals: %w", ErrInternal, err)
	}

	var clashing []*domain.Rental
	for _, rental := range rentals {
		if rental.ID == req.ExcludeRentalID {
			continue
		}
		if r.policy.Overlaps(req.Window, rental.Range()) {
			clashing = append(clashing, rental)
		}
	}
	if len(clashing) > 0 {
		r.logger.Warn("ResolveBooking: vehicle id=%d window %s collides with %d rental(s)",
			vehicle.ID, req.Window, len(clashing))
		r.countConflict(conflictKindRental)
		return nil, &domain.RentalConflictError{Window: req.Window, Rentals: clashing}
	}

	// 4. Обслуживание внутри окна - мягкий конфликт
	pending, err := r.maintenanceRepo.ListPendingByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveBooking - list maintenance: %w", ErrInternal, err)
	}

	var colliding []*domain.Maintenance
	for _, m := range pending {
		if r.policy.Contains(req.Window, m.ScheduledDate) {
			colliding = append(colliding, m)
		}
	}

	// 5. Без override возвращаем список конфликтующих записей
	if len(colliding) > 0 && !req.Override {
		r.logger.Warn("ResolveBooking: vehicle id=%d window %s collides with %d maintenance record(s)",
			vehicle.ID, req.Window, len(colliding))
		r.countConflict(conflictKindMaintenance)
		return nil, &domain.MaintenanceConflictError{Window: req.Window, Records: colliding}
	}

	// 6. С override отменяем конфликтующее обслуживание
	for _, m := range colliding {
		if err := r.maintenanceRepo.UpdateStatus(ctx, m.ID, domain.MaintenanceCancelled); err != nil {
			return nil, fmt.Errorf("%w: ResolveBooking - cancel maintenance id=%d: %w", ErrInternal, m.ID, err)
		}
		m.Status = domain.MaintenanceCancelled
		r.logger.Info("ResolveBooking: maintenance id=%d (%s on %s) cancelled by override",
			m.ID, m.Type, m.ScheduledDate.Format(domain.DateFormat))
	}

	// 7. Считаем стоимость
	billable := req.Billable
	if billable.Start.IsZero() {
		billable = req.Window
	}
	days := billable.Days()

	return &Resolution{
		Vehicle:              vehicle,
		Days:                 days,
		Amount:               r.pricing.Quote(vehicle.PricePerDay, days, req.WithDriver, req.Insurance),
		OpenDamages:          openDamages,
		CancelledMaintenance: colliding,
	}, nil
}

func (r *Resolver) countConflict(kind string) {
	if r.metrics != nil {
		r.metrics.IncBookingConflict(kind)
	}
}
