package extend_rental

import (
	"context"

	extendRental "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/extend_rental"
)

type ExtendRentalUseCase interface {
	Execute(ctx context.Context, req *extendRental.Request) (*extendRental.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
