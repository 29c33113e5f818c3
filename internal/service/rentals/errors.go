package rentals

import (
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = fmt.Errorf("rentals: rental %w", domain.ErrNotFound)

	// ErrInvalidStatus возвращается при неизвестном статусе аренды
	ErrInvalidStatus = fmt.Errorf("rentals: invalid rental status: %w", domain.ErrValidation)

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = fmt.Errorf("rentals: transition not allowed: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rentals: internal error")
)
