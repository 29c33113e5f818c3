package create_maintenance

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/maintenance/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgVehicleNotFound    = "автомобиль не найден"
	msgInvalidData        = "некорректные данные обслуживания"
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

// Handle POST /api/v1/maintenance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMaintenanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /maintenance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, maintenance.ErrVehicleNotFound):
			h.logger.Warn("POST /maintenance - %v", err)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /maintenance - Validation failed: %v", err)
			handlers.RespondValidation(w, msgInvalidData, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /maintenance - Failed: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /maintenance - Created: id=%d, vehicle_id=%d, scheduled=%s, vehicle_status=%s",
		result.ID, result.VehicleID, result.ScheduledDate, result.VehicleStatus)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
