package damages

import (
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

var (
	// ErrDamageNotFound возвращается, когда повреждение не найдено
	ErrDamageNotFound = fmt.Errorf("damages: damage %w", domain.ErrNotFound)

	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = fmt.Errorf("damages: vehicle %w", domain.ErrNotFound)

	// ErrRentalNotFound возвращается, когда указанная аренда не найдена
	ErrRentalNotFound = fmt.Errorf("damages: rental %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("damages: invalid input: %w", domain.ErrValidation)

	// ErrInvalidTransition возвращается при попытке вернуть повреждение в предыдущий статус
	ErrInvalidTransition = fmt.Errorf("damages: status can only move forward: %w", domain.ErrValidation)

	// ErrSeverityLocked возвращается при смене тяжести уже устраненного повреждения
	ErrSeverityLocked = fmt.Errorf("damages: severity of a resolved damage cannot change: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("damages: internal error")
)
