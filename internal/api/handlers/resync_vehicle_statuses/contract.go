package resync_vehicle_statuses

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
)

type StatusResyncer interface {
	ResyncAll(ctx context.Context) (*models.ResyncReport, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
