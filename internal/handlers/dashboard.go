package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ammerola/smartstock-be/internal/core/ports"
)

// DashboardHandler handles dashboard operations
type DashboardHandler struct {
	responder
	inventory ports.InventoryService
	insights  ports.InsightService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(inventory ports.InventoryService, insights ports.InsightService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		responder: responder{logger: logger.With(slog.String("handler", "dashboard"))},
		inventory: inventory,
		insights:  insights,
	}
}

// DashboardData is the dashboard response body
type DashboardData struct {
	*ports.Dashboard
	Timestamp time.Time `json:"timestamp"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, DashboardData{
		Dashboard: h.inventory.Dashboard(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// GetInsights handles GET /api/v1/dashboard/insights. The insight service
// never fails; a fallback message is still a 200.
func (h *DashboardHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insight := h.insights.Insights(r.Context())

	if insight.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	h.respondJSON(w, http.StatusOK, insight)
}

// GetReorderList handles GET /api/v1/reorder
func (h *DashboardHandler) GetReorderList(w http.ResponseWriter, r *http.Request) {
	report := h.inventory.ReorderList(r.Context())

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates":  report.Candidates,
		"total_value": report.TotalValue,
		"total":       len(report.Candidates),
	})
}
