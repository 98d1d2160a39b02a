package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/wattbill/internal/service"
)

// DashboardHandler serves GET /api/dashboard
type DashboardHandler struct {
	dashboard *service.DashboardService
	logger    *slog.Logger
}

func NewDashboardHandler(dashboard *service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.ComputeDashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
