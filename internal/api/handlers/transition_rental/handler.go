package transition_rental

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals/models"
)

const (
	msgInvalidRentalID    = "некорректный ID аренды"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "аренда не найдена"
	msgInvalidStatus      = "неизвестный статус аренды"
	msgInvalidTransition  = "недопустимая смена статуса аренды"
)

type Handler struct {
	service RentalService
	logger  Logger
}

func NewHandler(service RentalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/rentals/{rentalId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rentalID, err := handlers.PathID(r, "rentalId")
	if err != nil {
		h.logger.Warn("PATCH /rentals/{id}/status - Invalid rental ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRentalID)
		return
	}

	var req models.TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /rentals/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	rental, err := h.service.Transition(r.Context(), rentalID, &req)
	if err != nil {
		switch {
		case errors.Is(err, rentals.ErrRentalNotFound):
			h.logger.Warn("PATCH /rentals/{id}/status - Rental not found: rental_id=%d", rentalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rentals.ErrInvalidStatus):
			h.logger.Warn("PATCH /rentals/{id}/status - Unknown status %q", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, rentals.ErrInvalidTransition):
			h.logger.Warn("PATCH /rentals/{id}/status - Transition rejected: rental_id=%d, target=%s", rentalID, req.Status)
			handlers.RespondValidation(w, msgInvalidTransition, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("PATCH /rentals/{id}/status - Failed to change status: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /rentals/{id}/status - Status changed: rental_id=%d, status=%s, vehicle_status=%s",
		rentalID, rental.Status, rental.VehicleStatus)
	handlers.RespondJSON(w, http.StatusOK, rental)
}
