package resync_vehicle_statuses

import (
	"net/http"

	"github.com/tejjzakaria/Carvo-Rentals-sub002/internal/api/handlers"
)

type Handler struct {
	resyncer StatusResyncer
	logger   Logger
}

func NewHandler(resyncer StatusResyncer, logger Logger) *Handler {
	return &Handler{
		resyncer: resyncer,
		logger:   logger,
	}
}

// Handle POST /api/v1/admin/vehicles/resync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	report, err := h.resyncer.ResyncAll(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/vehicles/resync - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/vehicles/resync - checked=%d, changed=%d, skipped=%d, failed=%d",
		report.Checked, report.Changed, report.Skipped, report.Failed)
	handlers.RespondJSON(w, http.StatusOK, report)
}
