package update_damage

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages/models"
)

const (
	msgInvalidID          = "некорректный ID повреждения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "повреждение не найдено"
	msgInvalidData        = "некорректные данные повреждения"
	msgInvalidTransition  = "статус повреждения можно менять только вперёд"
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

// Handle PATCH /api/v1/damages/{damageId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "damageId")
	if err != nil {
		h.logger.Warn("PATCH /damages/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.UpdateDamageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /damages/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, damages.ErrDamageNotFound):
			h.logger.Warn("PATCH /damages/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, damages.ErrInvalidTransition):
			h.logger.Warn("PATCH /damages/{id} - %v", err)
			handlers.RespondValidation(w, msgInvalidTransition, err)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PATCH /damages/{id} - Validation failed: %v", err)
			handlers.RespondValidation(w, msgInvalidData, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("PATCH /damages/{id} - Failed: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /damages/{id} - Updated: id=%d, status=%s, vehicle_status=%s", id, result.Status, result.VehicleStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
