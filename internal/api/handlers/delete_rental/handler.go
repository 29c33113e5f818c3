package delete_rental

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
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

// Handle DELETE /api/v1/rentals/{rentalId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rentalID, err := handlers.PathID(r, "rentalId")
	if err != nil {
		h.logger.Warn("DELETE /rentals/{id} - Invalid rental ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRentalID)
		return
	}

	if err := h.service.Delete(r.Context(), rentalID); err != nil {
		switch {
		case errors.Is(err, rentals.ErrRentalNotFound):
			h.logger.Warn("DELETE /rentals/{id} - Rental not found: rental_id=%d", rentalID)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)
		default:
			h.logger.Error("DELETE /rentals/{id} - Failed to delete rental: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /rentals/{id} - Rental deleted: rental_id=%d", rentalID)
	handlers.RespondNoContent(w)
}
