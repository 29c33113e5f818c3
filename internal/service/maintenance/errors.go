package maintenance

import (
	"errors"
	"fmt"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

var (
	// ErrMaintenanceNotFound возвращается, когда запись обслуживания не найдена
	ErrMaintenanceNotFound = fmt.Errorf("maintenance: record %w", domain.ErrNotFound)

	// ErrVehicleNotFound возвращается, когда автомобиль не найден
	ErrVehicleNotFound = fmt.Errorf("maintenance: vehicle %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("maintenance: invalid input: %w", domain.ErrValidation)

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = fmt.Errorf("maintenance: transition not allowed: %w", domain.ErrValidation)

	// ErrFinished возвращается при изменении завершённой или отменённой записи
	ErrFinished = fmt.Errorf("maintenance: record is completed or cancelled: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("maintenance: internal error")
)
