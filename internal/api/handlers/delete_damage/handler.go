package delete_damage

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/damages"
)

const (
	msgInvalidID = "некорректный ID повреждения"
	msgNotFound  = "повреждение не найдено"
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

// Handle DELETE /api/v1/damages/{damageId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "damageId")
	if err != nil {
		h.logger.Warn("DELETE /damages/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	err = h.service.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, damages.ErrDamageNotFound):
			h.logger.Warn("DELETE /damages/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("DELETE /damages/{id} - Failed: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /damages/{id} - Deleted: id=%d", id)
	handlers.RespondNoContent(w)
}
