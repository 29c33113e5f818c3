package get_rental

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
)

type RentalService interface {
	GetByID(ctx context.Context, id int64) (*models.RentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
