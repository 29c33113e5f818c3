package conflicts

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.Vehicle, error)
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
	UpdateStatus(ctx context.Context, id int64, status domain.MaintenanceStatus) error
}

// MetricsRecorder счётчик конфликтов бронирования
type MetricsRecorder interface {
	IncBookingConflict(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
