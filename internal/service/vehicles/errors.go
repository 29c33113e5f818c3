package vehicles

import (
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = fmt.Errorf("vehicles: vehicle %w", domain.ErrNotFound)

	// ErrInvalidStatus возвращается при неизвестном статусе автомобиля
	ErrInvalidStatus = fmt.Errorf("vehicles: invalid vehicle status: %w", domain.ErrValidation)

	// ErrReasonRequired возвращается, если ручное переопределение не содержит причины
	ErrReasonRequired = fmt.Errorf("vehicles: override reason is required: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("vehicles: internal error")
)
