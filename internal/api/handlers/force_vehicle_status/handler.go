package force_vehicle_status

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles/models"
)

const (
	msgInvalidVehicleID   = "некорректный ID автомобиля"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "автомобиль не найден"
	msgInvalidStatus      = "неизвестный статус автомобиля"
	msgReasonRequired     = "необходимо указать причину ручной смены статуса"
)

type Handler struct {
	service VehicleService
	logger  Logger
}

func NewHandler(service VehicleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/vehicles/{vehicleId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := handlers.PathID(r, "vehicleId")
	if err != nil {
		h.logger.Warn("PUT /vehicles/{id}/status - Invalid vehicle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	var req models.ForceStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vehicles/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	vehicle, err := h.service.ForceStatus(r.Context(), vehicleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, vehicles.ErrVehicleNotFound):
			h.logger.Warn("PUT /vehicles/{id}/status - Vehicle not found: vehicle_id=%d", vehicleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, vehicles.ErrInvalidStatus):
			h.logger.Warn("PUT /vehicles/{id}/status - Unknown status %q", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, vehicles.ErrReasonRequired):
			handlers.RespondBadRequest(w, msgReasonRequired)

		case errors.Is(err, domain.ErrValidation):
			handlers.RespondValidation(w, msgInvalidRequestBody, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("PUT /vehicles/{id}/status - Failed to force status: vehicle_id=%d, error=%v", vehicleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /vehicles/{id}/status - Status forced: vehicle_id=%d, status=%s, reason=%q",
		vehicleID, req.Status, req.Reason)
	handlers.RespondJSON(w, http.StatusOK, vehicle)
}
