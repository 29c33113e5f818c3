package search_available_vehicles

import (
	"errors"
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/domain"
)

const (
	msgMissingDates = "необходимо указать start и end"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange = "некорректный период"
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

// Handle GET /api/v1/vehicles/available?start=2024-06-01&end=2024-06-03
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startStr, endStr := query.Get("start"), query.Get("end")
	if startStr == "" || endStr == "" {
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	start, err := handlers.ParseDate(startStr)
	if err != nil {
		h.logger.Warn("GET /vehicles/available - Invalid start %q: %v", startStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	end, err := handlers.ParseDate(endStr)
	if err != nil {
		h.logger.Warn("GET /vehicles/available - Invalid end %q: %v", endStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.SearchAvailable(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.logger.Warn("GET /vehicles/available - Invalid period %s..%s: %v", startStr, endStr, err)
			handlers.RespondValidation(w, msgInvalidRange, err)
			return
		}
		h.logger.Error("GET /vehicles/available - Search failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
