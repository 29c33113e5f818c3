package conflicts

import (
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = fmt.Errorf("conflicts: vehicle %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках резолвера
	ErrInternal = errors.New("conflicts: internal error")
)
