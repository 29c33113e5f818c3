package maintenance

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// MaintenanceRepository интерфейс репозитория обслуживания
type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error)
	GetByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) error
	Delete(ctx context.Context, id int64) error
}

// VehicleLocker блокирует строку автомобиля до конца транзакции
type VehicleLocker interface {
	LockByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// StatusDeriver пересчитывает статус автомобиля
type StatusDeriver interface {
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
