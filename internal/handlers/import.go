// internal/handlers/import.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/workers"
)

const defaultUploadLimit = 10 << 20

// UploadLimits caps the size of each uploaded file kind in bytes
type UploadLimits struct {
	CSV   int64
	Excel int64
	PDF   int64
}

// ImportHandler handles import operations
type ImportHandler struct {
	responder
	inventory  ports.InventoryService
	dispatcher *workers.Dispatcher
	limits     UploadLimits
}

// NewImportHandler creates a new import handler
func NewImportHandler(inventory ports.InventoryService, dispatcher *workers.Dispatcher, limits UploadLimits, logger *slog.Logger) *ImportHandler {
	if limits.CSV <= 0 {
		limits.CSV = defaultUploadLimit
	}
	if limits.Excel <= 0 {
		limits.Excel = defaultUploadLimit
	}
	if limits.PDF <= 0 {
		limits.PDF = defaultUploadLimit
	}
	return &ImportHandler{
		responder:  responder{logger: logger.With(slog.String("handler", "import"))},
		inventory:  inventory,
		dispatcher: dispatcher,
		limits:     limits,
	}
}

// ImportItemsRequest carries already-parsed item candidates
type ImportItemsRequest struct {
	Items []importer.Candidate `json:"items" validate:"required,min=1,max=1000"`
}

// ImportTextRequest carries free text for the bulk interpreter
type ImportTextRequest struct {
	Text string `json:"text" validate:"required,max=100000"`
}

// ImportTransactionsRequest carries already-parsed stock movements
type ImportTransactionsRequest struct {
	Source  string            `json:"source" validate:"max=50"`
	Records []importer.Record `json:"records" validate:"required,min=1,max=5000,dive"`
}

// ImportItems handles POST /api/v1/import/items
func (h *ImportHandler) ImportItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ImportItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondValidation(w, err)
		return
	}

	created, err := h.inventory.ImportItems(ctx, req.Items)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to import items")
		return
	}

	h.logger.InfoContext(ctx, "items imported",
		slog.Int("created", len(created)))

	h.respondJSON(w, http.StatusOK, workers.Result{Updated: len(created), Items: created})
}

// ImportText handles POST /api/v1/import/text
func (h *ImportHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	var req ImportTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondValidation(w, err)
		return
	}

	h.submit(w, r, workers.KindText, "text", "text/plain", []byte(req.Text))
}

// ImportTransactions handles POST /api/v1/import/transactions
func (h *ImportHandler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ImportTransactionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.respondValidation(w, err)
		return
	}
	if req.Source == "" {
		req.Source = "API"
	}

	updated, err := h.inventory.ApplyTransactions(ctx, req.Source, req.Records)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to apply transactions")
		return
	}

	h.logger.InfoContext(ctx, "transactions imported",
		slog.String("source", req.Source),
		slog.Int("updated", updated))

	h.respondJSON(w, http.StatusOK, workers.Result{Updated: updated})
}

// ImportCSV handles POST /api/v1/import/csv
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, workers.KindCSV, h.limits.CSV)
}

// ImportExcel handles POST /api/v1/import/excel
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, workers.KindExcel, h.limits.Excel)
}

// ImportPDF handles POST /api/v1/import/pdf
func (h *ImportHandler) ImportPDF(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, workers.KindPDF, h.limits.PDF)
}

// ImportStatus handles GET /api/v1/import/status/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.dispatcher.Status(r.Context(), r.PathValue("jobId"))
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to get job status")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

func (h *ImportHandler) upload(w http.ResponseWriter, r *http.Request, kind workers.Kind, limit int64) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File exceeds the %d MB limit", limit>>20))
			return
		}
		h.respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	if header.Size > limit {
		h.respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds the %d MB limit", limit>>20))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		h.respondError(w, http.StatusBadRequest, "File is empty")
		return
	}

	h.submit(w, r, kind, header.Filename, header.Header.Get("Content-Type"), data)
}

func (h *ImportHandler) submit(w http.ResponseWriter, r *http.Request, kind workers.Kind, filename, contentType string, data []byte) {
	ctx := r.Context()

	sub, err := h.dispatcher.Submit(ctx, kind, filename, contentType, data)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to import "+kind.Source())
		return
	}

	if sub.Queued() {
		h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
			"job_id":  sub.JobID,
			"status":  sub.Status,
			"message": fmt.Sprintf("%s import has been queued for processing", kind.Source()),
		})
		return
	}

	h.logger.InfoContext(ctx, "import completed",
		slog.String("kind", string(kind)),
		slog.String("filename", filename),
		slog.Int("updated", sub.Result.Updated))

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  sub.Status,
		"updated": sub.Result.Updated,
		"items":   sub.Result.Items,
	})
}
