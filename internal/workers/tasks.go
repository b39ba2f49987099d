// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeImportCSV       = "import:csv"
	TypeImportExcel     = "import:excel"
	TypeImportPDF       = "import:pdf"
	TypeImportText      = "import:text"
	TypeInsightsRefresh = "insights:refresh"
	TypeCleanupUploads  = "cleanup:uploads"
)

// Kind identifies how an uploaded payload is interpreted
type Kind string

// Import kinds
const (
	KindCSV   Kind = "csv"
	KindExcel Kind = "excel"
	KindPDF   Kind = "pdf"
	KindText  Kind = "text"
)

// TaskType returns the asynq task type that processes k.
func (k Kind) TaskType() (string, error) {
	switch k {
	case KindCSV:
		return TypeImportCSV, nil
	case KindExcel:
		return TypeImportExcel, nil
	case KindPDF:
		return TypeImportPDF, nil
	case KindText:
		return TypeImportText, nil
	default:
		return "", fmt.Errorf("unknown import kind %q", k)
	}
}

// Source is the label written into ledger notes for transaction imports.
func (k Kind) Source() string {
	switch k {
	case KindCSV:
		return "CSV"
	case KindExcel:
		return "Excel"
	case KindPDF:
		return "PDF"
	default:
		return "Text"
	}
}

// ImportPayload is the payload of every import:* task
type ImportPayload struct {
	JobID      string `json:"job_id"`
	Kind       Kind   `json:"kind"`
	StorageKey string `json:"storage_key"`
	Filename   string `json:"filename,omitempty"`
}

// CleanupPayload is the payload of cleanup:uploads
type CleanupPayload struct {
	MaxAge time.Duration `json:"max_age"`
}

// NewImportTask builds the task that processes an uploaded object.
func NewImportTask(payload ImportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	taskType, err := payload.Kind.TaskType()
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}

	return asynq.NewTask(taskType, b, opts...), nil
}

// NewInsightsRefreshTask builds the periodic insight warm-up task.
func NewInsightsRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeInsightsRefresh, nil, asynq.MaxRetry(0), asynq.Unique(10*time.Minute))
}

// NewCleanupUploadsTask builds the task that sweeps stale local uploads.
func NewCleanupUploadsTask(maxAge time.Duration) (*asynq.Task, error) {
	b, err := json.Marshal(CleanupPayload{MaxAge: maxAge})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeCleanupUploads, b, asynq.MaxRetry(1)), nil
}
