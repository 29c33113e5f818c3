package force_vehicle_status

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
)

type VehicleService interface {
	ForceStatus(ctx context.Context, id int64, req *models.ForceStatusRequest) (*models.VehicleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
