package get_vehicle

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/vehicles"
)

const (
	msgInvalidVehicleID = "некорректный ID автомобиля"
	msgNotFound         = "автомобиль не найден"
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

// Handle GET /api/v1/vehicles/{vehicleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := handlers.PathID(r, "vehicleId")
	if err != nil {
		h.logger.Warn("GET /vehicles/{id} - Invalid vehicle ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVehicleID)
		return
	}

	vehicle, err := h.service.GetByID(r.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, vehicles.ErrVehicleNotFound) {
			h.logger.Warn("GET /vehicles/{id} - Vehicle not found: vehicle_id=%d", vehicleID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /vehicles/{id} - Failed to get vehicle: vehicle_id=%d, error=%v", vehicleID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, vehicle)
}
