package create_rental

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	createRental "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/create_rental"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRental       = "некорректные параметры аренды"
	msgCustomerNotFound    = "клиент не найден"
	msgVehicleNotFound     = "автомобиль не найден"
	msgRentalConflict      = "автомобиль уже забронирован на выбранные даты"
	msgMaintenanceConflict = "на выбранные даты запланировано обслуживание, повторите с override для его отмены"
	msgVehicleNotAvailable = "автомобиль недоступен для бронирования"
)

type Handler struct {
	useCase CreateRentalUseCase
	logger  Logger
}

func NewHandler(useCase CreateRentalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rentals
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateRentalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rentals - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /rentals - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRentalConflict):
			h.logger.Warn("POST /rentals - Rental conflict: vehicle_id=%d, %s..%s", req.VehicleID, req.StartDate, req.EndDate)
			handlers.RespondConflict(w, msgRentalConflict, err)

		case errors.Is(err, domain.ErrMaintenanceConflict):
			h.logger.Warn("POST /rentals - Maintenance conflict: vehicle_id=%d, %s..%s", req.VehicleID, req.StartDate, req.EndDate)
			handlers.RespondConflict(w, msgMaintenanceConflict, err)

		case errors.Is(err, domain.ErrVehicleUnavailable):
			h.logger.Warn("POST /rentals - Vehicle unavailable: vehicle_id=%d", req.VehicleID)
			handlers.RespondConflict(w, msgVehicleNotAvailable, err)

		case errors.Is(err, createRental.ErrCustomerNotFound):
			h.logger.Warn("POST /rentals - Customer not found: customer_id=%d", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /rentals - Vehicle not found: vehicle_id=%d", req.VehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /rentals - Validation failed: %v", err)
			handlers.RespondValidation(w, msgInvalidRental, err)

		case errors.Is(err, domain.ErrConcurrency):
			h.logger.Warn("POST /rentals - Retries exhausted: vehicle_id=%d", req.VehicleID)
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /rentals - Failed to create rental: customer_id=%d, vehicle_id=%d, error=%v",
				req.CustomerID, req.VehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rentals - Rental created: rental_id=%d, code=%s, vehicle_id=%d, total=%.2f",
		result.Rental.ID, result.Rental.Code, result.Rental.VehicleID, result.Rental.TotalAmount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
