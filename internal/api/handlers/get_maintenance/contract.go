package get_maintenance

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
)

type MaintenanceService interface {
	GetByID(ctx context.Context, id int64) (*models.MaintenanceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
