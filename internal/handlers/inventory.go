// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
)

const maxTransactionsLimit = 500

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	responder
	service ports.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		responder: responder{logger: logger.With(slog.String("handler", "inventory"))},
		service:   service,
	}
}

// ListInventory handles GET /api/v1/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	params := ports.ListParams{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	items, err := h.service.ListItems(r.Context(), params)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list inventory items")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

// GetInventory handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve inventory item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// CreateInventory handles POST /api/v1/inventory
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondValidation(w, err)
		return
	}

	item, err := h.service.CreateItem(ctx, req.ToDomain())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item created",
		slog.String("item_id", item.ID),
		slog.String("sku", item.SKU))

	h.respondJSON(w, http.StatusCreated, item)
}

// UpdateInventory handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var req ItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondValidation(w, err)
		return
	}

	item, err := h.service.UpdateItem(ctx, id, req.ToDomain())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item updated",
		slog.String("item_id", id))

	h.respondJSON(w, http.StatusOK, item)
}

// DeleteInventory handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.service.DeleteItem(ctx, id); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete inventory item")
		return
	}

	h.logger.InfoContext(ctx, "inventory item deleted",
		slog.String("item_id", id))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Inventory item deleted successfully",
		"id":      id,
	})
}

// AdjustQuantity handles POST /api/v1/inventory/{id}/adjust
func (h *InventoryHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondValidation(w, err)
		return
	}

	item, err := h.service.AdjustQuantity(r.Context(), r.PathValue("id"), req.Delta, ports.AdjustOptions{
		Record: req.Record,
		Note:   strings.TrimSpace(req.Note),
	})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to adjust quantity")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// ListTransactions handles GET /api/v1/transactions
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ports.TransactionFilter{ItemID: query.Get("item_id")}

	if t := query.Get("type"); t != "" {
		parsed, err := domain.ParseTransactionType(t)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Type = parsed
	}

	if limit := query.Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = min(l, maxTransactionsLimit)
	}

	entries, err := h.service.Transactions(r.Context(), filter)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": entries,
		"total":        len(entries),
	})
}

// Request DTOs

// ItemRequest is the body of create and update requests
type ItemRequest struct {
	SKU             string          `json:"sku" validate:"max=64"`
	Brand           string          `json:"brand" validate:"max=100"`
	Name            string          `json:"name" validate:"required,max=200"`
	Size            string          `json:"size" validate:"max=50"`
	Color           string          `json:"color" validate:"max=50"`
	Category        string          `json:"category" validate:"max=50"`
	Quantity        int             `json:"quantity" validate:"gte=0,lte=1000000000"`
	MinQuantity     int             `json:"min_quantity" validate:"gte=0"`
	OptimalQuantity int             `json:"optimal_quantity" validate:"gte=0"`
	Price           decimal.Decimal `json:"price" validate:"gte=0"`
	Location        string          `json:"location" validate:"max=100"`
}

// ToDomain converts the request to a domain model
func (r *ItemRequest) ToDomain() domain.InventoryItem {
	item := domain.InventoryItem{
		SKU:             strings.TrimSpace(r.SKU),
		Brand:           strings.TrimSpace(r.Brand),
		Name:            strings.TrimSpace(r.Name),
		Size:            strings.TrimSpace(r.Size),
		Color:           strings.TrimSpace(r.Color),
		Quantity:        r.Quantity,
		MinQuantity:     r.MinQuantity,
		OptimalQuantity: r.OptimalQuantity,
		Price:           r.Price,
		Location:        strings.TrimSpace(r.Location),
	}

	// Unknown category names are kept so validation can reject them
	if c := strings.TrimSpace(r.Category); c != "" {
		item.Category = domain.ParseCategory(c)
		if !strings.EqualFold(c, string(item.Category)) {
			item.Category = domain.ItemCategory(c)
		}
	}

	return item
}

// AdjustRequest is the body of a manual quantity adjustment
type AdjustRequest struct {
	Delta  int    `json:"delta" validate:"ne=0,min=-1000000000,max=1000000000"`
	Record bool   `json:"record"`
	Note   string `json:"note" validate:"max=200"`
}
