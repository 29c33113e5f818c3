package jobs

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
)

// StatusResyncer пересчитывает сохранённые статусы автомобилей
type StatusResyncer interface {
	ResyncAll(ctx context.Context) (*models.ResyncReport, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
