package delete_maintenance

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance"
)

const (
	msgInvalidID = "некорректный ID записи обслуживания"
	msgNotFound  = "запись обслуживания не найдена"
)

type Handler struct {
	service MaintenanceService
	logger  Logger
}

func NewHandler(service MaintenanceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/maintenance/{maintenanceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "maintenanceId")
	if err != nil {
		h.logger.Warn("DELETE /maintenance/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	err = h.service.Delete(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrMaintenanceNotFound):
			h.logger.Warn("DELETE /maintenance/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("DELETE /maintenance/{id} - Failed: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /maintenance/{id} - Deleted: id=%d", id)
	handlers.RespondNoContent(w)
}
