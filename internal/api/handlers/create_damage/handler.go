package create_damage

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgVehicleNotFound    = "автомобиль не найден"
	msgRentalNotFound     = "аренда не найдена"
	msgInvalidData        = "некорректные данные повреждения"
)

type Handler struct {
	service DamageService
	logger  Logger
}

func NewHandler(service DamageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/damages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDamageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /damages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, damages.ErrVehicleNotFound):
			h.logger.Warn("POST /damages - %v", err)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, damages.ErrRentalNotFound):
			h.logger.Warn("POST /damages - %v", err)
			handlers.RespondNotFound(w, msgRentalNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /damages - Validation failed: %v", err)
			handlers.RespondValidation(w, msgInvalidData, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /damages - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /damages - Created: id=%d, vehicle_id=%d, severity=%s, vehicle_status=%s",
		result.ID, result.VehicleID, result.Severity, result.VehicleStatus)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
