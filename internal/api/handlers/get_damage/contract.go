package get_damage

import (
	"context"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages/models"
)

type DamageService interface {
	GetByID(ctx context.Context, id int64) (*models.DamageResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
