package get_rental

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/service/rentals"
)

const (
	msgInvalidRentalID = "некорректный ID аренды"
	msgNotFound        = "аренда не найдена"
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

// Handle GET /api/v1/rentals/{rentalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rentalID, err := handlers.PathID(r, "rentalId")
	if err != nil {
		h.logger.Warn("GET /rentals/{id} - Invalid rental ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRentalID)
		return
	}

	rental, err := h.service.GetByID(r.Context(), rentalID)
	if err != nil {
		if errors.Is(err, rentals.ErrRentalNotFound) {
			h.logger.Warn("GET /rentals/{id} - Rental not found: rental_id=%d", rentalID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /rentals/{id} - Failed to get rental: rental_id=%d, error=%v", rentalID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rental)
}
