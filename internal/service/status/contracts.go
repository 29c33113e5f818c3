package status

import (
	"context"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	SaveDerivedStatus(ctx context.Context, id int64, status domain.VehicleStatus) error
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	ListBlockingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Rental, error)
}

// DamageRepository интерфейс репозитория повреждений
type DamageRepository interface {
	ListOpenByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Damage, error)
}

// MaintenanceRepository интерфейс репозитория обслуживания
type MaintenanceRepository interface {
	ListPendingByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Maintenance, error)
}

// MetricsRecorder счётчик вычислений статуса
type MetricsRecorder interface {
	IncStatusDerivation(status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production.
// Location задаёт часовой пояс календарных дат (nil - локальный пояс процесса).
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location != nil {
		return time.Now().In(p.Location)
	}
	return time.Now()
}
