package create_rental

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/conflicts"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/status"
)

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	AdjustAggregates(ctx context.Context, id int64, rentalsDelta int, spentDelta float64) error
}

// ConflictResolver проверяет окно бронирования
type ConflictResolver interface {
	ResolveBooking(ctx context.Context, req conflicts.Request) (*conflicts.Resolution, error)
}

// StatusDeriver пересчитывает статус автомобиля
type StatusDeriver interface {
	Recompute(ctx context.Context, vehicleID int64) (status.Change, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier приёмник уведомлений (fire-and-forget)
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
