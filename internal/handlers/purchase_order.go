// internal/handlers/purchase_order.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/smartstock-be/internal/core/ports"
)

// PurchaseOrderHandler drives the purchase-order builder
type PurchaseOrderHandler struct {
	responder
	service ports.InventoryService
}

// NewPurchaseOrderHandler creates a new purchase-order handler
func NewPurchaseOrderHandler(service ports.InventoryService, logger *slog.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		responder: responder{logger: logger.With(slog.String("handler", "purchase_order"))},
		service:   service,
	}
}

// GetState handles GET /api/v1/purchase-order
func (h *PurchaseOrderHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.PurchaseOrderState(r.Context()))
}

// Toggle handles POST /api/v1/purchase-order/toggle/{id}
func (h *PurchaseOrderHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	selected, err := h.service.TogglePurchaseSelection(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to toggle selection")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"selected": selected,
	})
}

// SelectAll handles POST /api/v1/purchase-order/select-all
func (h *PurchaseOrderHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.SelectAllForPurchase(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to select reorder candidates")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"selection": ids,
		"total":     len(ids),
	})
}

// Preview handles POST /api/v1/purchase-order/preview
func (h *PurchaseOrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.service.PreviewPurchaseOrder(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to preview purchase order")
		return
	}

	h.respondJSON(w, http.StatusOK, preview)
}

// Cancel handles POST /api/v1/purchase-order/cancel
func (h *PurchaseOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelPurchasePreview(r.Context()); err != nil {
		h.respondServiceError(w, r, err, "Failed to cancel preview")
		return
	}

	h.respondJSON(w, http.StatusOK, h.service.PurchaseOrderState(r.Context()))
}

// Commit handles POST /api/v1/purchase-order/commit
func (h *PurchaseOrderHandler) Commit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.service.CommitPurchaseOrder(ctx)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to commit purchase order")
		return
	}

	h.logger.InfoContext(ctx, "purchase order committed",
		slog.Int("lines", len(order.Lines)),
		slog.String("total", order.Total.String()))

	h.respondJSON(w, http.StatusOK, order)
}
