package update_maintenance

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
)

const (
	msgInvalidID          = "некорректный ID записи обслуживания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "запись обслуживания не найдена"
	msgInvalidData        = "некорректные данные обслуживания"
	msgInvalidTransition  = "недопустимая смена статуса обслуживания"
	msgFinished           = "завершённую или отменённую запись изменить нельзя"
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

// Handle PATCH /api/v1/maintenance/{maintenanceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "maintenanceId")
	if err != nil {
		h.logger.Warn("PATCH /maintenance/{id} - Invalid ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req models.UpdateMaintenanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /maintenance/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrMaintenanceNotFound):
			h.logger.Warn("PATCH /maintenance/{id} - Not found: id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, maintenance.ErrFinished):
			h.logger.Warn("PATCH /maintenance/{id} - Record is finished: id=%d", id)
			handlers.RespondBadRequest(w, msgFinished)

		case errors.Is(err, maintenance.ErrInvalidTransition):
			h.logger.Warn("PATCH /maintenance/{id} - %v", err)
			handlers.RespondValidation(w, msgInvalidTransition, err)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("PATCH /maintenance/{id} - Validation failed: %v", err)
			handlers.RespondValidation(w, msgInvalidData, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("PATCH /maintenance/{id} - Failed: id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /maintenance/{id} - Updated: id=%d, status=%s, vehicle_status=%s", id, result.Status, result.VehicleStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
