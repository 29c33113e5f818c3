package extend_rental

import (
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = fmt.Errorf("extend_rental: rental %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("extend_rental: invalid input: %w", domain.ErrValidation)

	// ErrNotExtendable возвращается при попытке продлить завершённую или отменённую аренду
	ErrNotExtendable = fmt.Errorf("extend_rental: only pending or active rentals can be extended: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("extend_rental: internal error")
)
