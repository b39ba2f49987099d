// internal/handlers/export.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/smartstock-be/internal/adapters/documents"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
)

// Export sheets
const (
	SheetInventory    = "inventory"
	SheetReorder      = "reorder"
	SheetTransactions = "transactions"
)

// ExportHandler handles export operations
type ExportHandler struct {
	responder
	service ports.InventoryService
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.InventoryService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		responder: responder{logger: logger.With(slog.String("handler", "export"))},
		service:   service,
	}
}

// JSONExportResponse is the body of the JSON export
type JSONExportResponse struct {
	domain.Snapshot
	Metadata ExportMetadata `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate        time.Time `json:"export_date"`
	TotalItems        int       `json:"total_items"`
	TotalTransactions int       `json:"total_transactions"`
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sheet := r.URL.Query().Get("sheet")
	if sheet == "" {
		sheet = SheetInventory
	}

	var (
		data []byte
		rows int
		err  error
	)
	switch sheet {
	case SheetInventory:
		items, listErr := h.service.ListItems(ctx, ports.ListParams{})
		if listErr != nil {
			h.respondServiceError(w, r, listErr, "Failed to retrieve data")
			return
		}
		rows = len(items)
		data, err = documents.InventoryWorkbook(items)
	case SheetReorder:
		report := h.service.ReorderList(ctx)
		rows = len(report.Candidates)
		data, err = documents.ReorderWorkbook(report.Candidates)
	case SheetTransactions:
		entries, listErr := h.service.Transactions(ctx, ports.TransactionFilter{})
		if listErr != nil {
			h.respondServiceError(w, r, listErr, "Failed to retrieve data")
			return
		}
		rows = len(entries)
		data, err = documents.TransactionsWorkbook(entries)
	default:
		h.respondError(w, http.StatusBadRequest, "sheet must be one of: inventory, reorder, transactions")
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to generate Excel file", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("%s_export_%s.xlsx", sheet, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", documents.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "Failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed successfully",
		slog.String("sheet", sheet),
		slog.Int("total_rows", rows),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot(r.Context())

	filename := fmt.Sprintf("smartstock_%s.json", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	h.respondJSON(w, http.StatusOK, JSONExportResponse{
		Snapshot: snap,
		Metadata: ExportMetadata{
			ExportDate:        time.Now().UTC(),
			TotalItems:        len(snap.Items),
			TotalTransactions: len(snap.Transactions),
		},
	})
}

// Reset handles POST /api/v1/admin/reset
func (h *ExportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Reset(ctx); err != nil {
		h.respondServiceError(w, r, err, "Failed to reset data")
		return
	}

	h.logger.WarnContext(ctx, "inventory data reset to seed state")

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Data reset to initial state",
	})
}
