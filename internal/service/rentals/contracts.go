package rentals

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RentalStatus) error
	Delete(ctx context.Context, id int64) error
}

// VehicleLocker блокирует строку автомобиля до конца транзакции
type VehicleLocker interface {
	LockByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	AdjustAggregates(ctx context.Context, id int64, rentalsDelta int, spentDelta float64) error
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

// MetricsRecorder счётчик операций бронирования
type MetricsRecorder interface {
	IncBooking(operation, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
