package extend_rental

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
	extendRental "github.com/tejjzakaria/Carvo-Rentals-sub002/internal/usecase/extend_rental"
)

const (
	msgInvalidRentalID     = "некорректный ID аренды"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты окончания, ожидается YYYY-MM-DD"
	msgNotFound            = "аренда не найдена"
	msgNotExtendable       = "продлить можно только ожидающую или активную аренду"
	msgInvalidExtension    = "некорректная дата продления"
	msgRentalConflict      = "продление пересекается с другой арендой"
	msgMaintenanceConflict = "на даты продления запланировано обслуживание, повторите с override для его отмены"
)

type Handler struct {
	useCase ExtendRentalUseCase
	logger  Logger
}

func NewHandler(useCase ExtendRentalUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/rentals/{rentalId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rentalID, err := handlers.PathID(r, "rentalId")
	if err != nil {
		h.logger.Warn("POST /rentals/{id}/extend - Invalid rental ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRentalID)
		return
	}

	var req ExtendRentalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /rentals/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(rentalID)
	if err != nil {
		h.logger.Warn("POST /rentals/{id}/extend - Invalid end date %q: %v", req.EndDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, extendRental.ErrRentalNotFound):
			h.logger.Warn("POST /rentals/{id}/extend - Rental not found: rental_id=%d", rentalID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendRental.ErrNotExtendable):
			h.logger.Warn("POST /rentals/{id}/extend - Rental not extendable: rental_id=%d", rentalID)
			handlers.RespondBadRequest(w, msgNotExtendable)

		case errors.Is(err, domain.ErrRentalConflict):
			h.logger.Warn("POST /rentals/{id}/extend - Rental conflict: rental_id=%d, end=%s", rentalID, req.EndDate)
			handlers.RespondConflict(w, msgRentalConflict, err)

		case errors.Is(err, domain.ErrMaintenanceConflict):
			h.logger.Warn("POST /rentals/{id}/extend - Maintenance conflict: rental_id=%d, end=%s", rentalID, req.EndDate)
			handlers.RespondConflict(w, msgMaintenanceConflict, err)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /rentals/{id}/extend - Validation failed: %v", err)
			handlers.RespondValidation(w, msgInvalidExtension, err)

		case errors.Is(err, domain.ErrConcurrency):
			handlers.RespondRetryLater(w)

		default:
			h.logger.Error("POST /rentals/{id}/extend - Failed to extend rental: rental_id=%d, error=%v", rentalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /rentals/{id}/extend - Rental extended: rental_id=%d, new_end=%s, added=%.2f",
		rentalID, req.EndDate, result.AddedAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
