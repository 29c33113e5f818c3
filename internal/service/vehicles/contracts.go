package vehicles

import (
	"context"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// VehicleRepository интерфейс репозитория автомобилей
type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	LockByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	List(ctx context.Context) ([]*domain.Vehicle, error)
	SetOverride(ctx context.Context, id int64, override domain.ManualOverride) error
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	ListBlockingBetween(ctx context.Context, from, to time.Time) ([]*domain.Rental, error)
}

// StatusService вычисление и пересчёт статуса автомобиля
type StatusService interface {
	Current(ctx context.Context, vehicle *domain.Vehicle) (domain.VehicleStatus, error)
	Recompute(ctx context.Context, vehicleID int64) (status.Change, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier приёмник уведомлений
type Notifier interface {
	Notify(ctx context.Context, kind domain.EventKind, payload interface{})
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
