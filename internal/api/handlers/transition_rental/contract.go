package transition_rental

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
)

type RentalService interface {
	Transition(ctx context.Context, id int64, req *models.TransitionRequest) (*models.RentalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
