package search_available_vehicles

import (
	"context"
	"time"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
)

type VehicleService interface {
	SearchAvailable(ctx context.Context, start, end time.Time) (*models.AvailableVehiclesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
