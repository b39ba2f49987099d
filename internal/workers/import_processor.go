// internal/workers/import_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/smartstock-be/internal/adapters/documents"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/pkg/logger"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
)

// ErrUnreadableFile is returned when an upload cannot be parsed as its kind
var ErrUnreadableFile = errors.New("uploaded file could not be read")

// Result is the outcome of one import
type Result struct {
	Updated int                    `json:"updated"`
	Items   []domain.InventoryItem `json:"items,omitempty"`
}

// ImportProcessor turns uploaded payloads into store mutations. It runs
// inline from the HTTP handlers or as the asynq handler for import:* tasks.
type ImportProcessor struct {
	inventory ports.InventoryService
	insights  ports.InsightService
	storage   ports.FileStorage
	jobs      *JobTracker
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(
	inventory ports.InventoryService,
	insights ports.InsightService,
	storage ports.FileStorage,
	jobs *JobTracker,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ImportProcessor {
	return &ImportProcessor{
		inventory: inventory,
		insights:  insights,
		storage:   storage,
		jobs:      jobs,
		metrics:   m,
		logger:    logger.With(slog.String("processor", "import")),
	}
}

// Process interprets data according to kind and applies it.
//
// CSV goes through the language model into ledger records, Excel is read
// column-wise into ledger records, and PDF text or free text goes through
// the language model into new items.
func (p *ImportProcessor) Process(ctx context.Context, kind Kind, data []byte) (*Result, error) {
	switch kind {
	case KindCSV:
		records, err := p.insights.InterpretCSV(ctx, string(data))
		if err != nil {
			return nil, err
		}
		return p.applyRecords(ctx, kind, len(records), func() (int, error) {
			return p.inventory.ApplyTransactions(ctx, kind.Source(), records)
		})

	case KindExcel:
		records, err := documents.ParseTransactionSheet(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		}
		return p.applyRecords(ctx, kind, len(records), func() (int, error) {
			return p.inventory.ApplyTransactions(ctx, kind.Source(), records)
		})

	case KindPDF:
		text, err := documents.ExtractPDFText(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		}
		return p.importText(ctx, text)

	case KindText:
		return p.importText(ctx, string(data))

	default:
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}
}

func (p *ImportProcessor) applyRecords(ctx context.Context, kind Kind, parsed int, apply func() (int, error)) (*Result, error) {
	updated, err := apply()
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s transactions: %w", kind, err)
	}

	p.logger.InfoContext(ctx, "transactions applied",
		slog.String("kind", string(kind)),
		slog.Int("parsed", parsed),
		slog.Int("updated", updated))

	return &Result{Updated: updated}, nil
}

func (p *ImportProcessor) importText(ctx context.Context, text string) (*Result, error) {
	candidates, err := p.insights.InterpretBulkText(ctx, text)
	if err != nil {
		return nil, err
	}

	items, err := p.inventory.ImportItems(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to import items: %w", err)
	}

	return &Result{Updated: len(items), Items: items}, nil
}

// ProcessTask is the asynq handler for every import:* task type.
func (p *ImportProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.metrics.RecordJob(t.Type(), false)
		return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	ctx = context.WithValue(ctx, logger.ContextKeyJobID, payload.JobID)
	ctx = context.WithValue(ctx, logger.ContextKeyTaskType, t.Type())

	status := &JobStatus{JobID: payload.JobID, Kind: payload.Kind}
	if existing, err := p.jobs.Get(ctx, payload.JobID); err == nil {
		status = existing
	}

	status.Status = StatusProcessing
	status.Error = ""
	p.saveStatus(ctx, status)

	result, err := p.processObject(ctx, payload)
	if err != nil {
		permanent := isPermanent(err)
		if permanent || lastAttempt(ctx) {
			status.Status = StatusFailed
			status.Error = err.Error()
			p.saveStatus(ctx, status)
			p.cleanup(ctx, payload.StorageKey)
		}
		p.metrics.RecordJob(t.Type(), false)

		p.logger.ErrorContext(ctx, "import job failed",
			slog.String("kind", string(payload.Kind)),
			slog.Bool("permanent", permanent),
			slog.String("error", err.Error()))

		if permanent {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	status.Status = StatusCompleted
	status.Updated = result.Updated
	p.saveStatus(ctx, status)
	p.cleanup(ctx, payload.StorageKey)
	p.metrics.RecordJob(t.Type(), true)

	p.logger.InfoContext(ctx, "import job completed",
		slog.String("kind", string(payload.Kind)),
		slog.Int("updated", result.Updated),
		slog.Duration("duration", time.Since(start)))

	return nil
}

func (p *ImportProcessor) processObject(ctx context.Context, payload ImportPayload) (*Result, error) {
	data, err := p.storage.Download(ctx, payload.StorageKey)
	if err != nil {
		if errors.Is(err, ports.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
		}
		return nil, fmt.Errorf("failed to download upload: %w", err)
	}

	return p.Process(ctx, payload.Kind, data)
}

func (p *ImportProcessor) saveStatus(ctx context.Context, status *JobStatus) {
	if err := p.jobs.Save(ctx, status); err != nil {
		p.logger.WarnContext(ctx, "failed to record job status",
			slog.String("status", status.Status),
			slog.String("error", err.Error()))
	}
}

func (p *ImportProcessor) cleanup(ctx context.Context, key string) {
	if err := p.storage.Delete(ctx, key); err != nil {
		p.logger.WarnContext(ctx, "failed to delete processed upload",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// lastAttempt reports whether asynq will not retry the running task again.
func lastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	return retried >= maxRetry
}

// isPermanent reports whether retrying the task cannot help. The language
// model client already retries transient failures once.
func isPermanent(err error) bool {
	return errors.Is(err, services.ErrInterpretation) ||
		errors.Is(err, ErrUnreadableFile) ||
		errors.Is(err, domain.ErrInvalidItem) ||
		errors.Is(err, domain.ErrSKUConflict)
}
