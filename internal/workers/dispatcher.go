// internal/workers/dispatcher.go
package workers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ammerola/smartstock-be/internal/core/ports"
)

// TaskEnqueuer is the part of *asynq.Client the dispatcher uses
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Submission describes what happened to an import request
type Submission struct {
	JobID  string  `json:"job_id,omitempty"`
	Status string  `json:"status"`
	Result *Result `json:"result,omitempty"`
}

// Queued reports whether the import runs in the background
func (s *Submission) Queued() bool {
	return s.Status == StatusQueued
}

// DispatcherConfig controls how imports are queued
type DispatcherConfig struct {
	UploadPrefix string
	Queue        string
	MaxRetry     int
	Timeout      time.Duration
	Retention    time.Duration
}

// Dispatcher runs imports inline, or stores the payload and queues a task
// when an enqueuer is configured.
type Dispatcher struct {
	processor *ImportProcessor
	storage   ports.FileStorage
	enqueuer  TaskEnqueuer
	jobs      *JobTracker
	cfg       DispatcherConfig
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil enqueuer processes inline.
func NewDispatcher(
	processor *ImportProcessor,
	storage ports.FileStorage,
	enqueuer TaskEnqueuer,
	jobs *JobTracker,
	cfg DispatcherConfig,
	logger *slog.Logger,
) *Dispatcher {
	if cfg.UploadPrefix == "" {
		cfg.UploadPrefix = "uploads"
	}
	if cfg.Queue == "" {
		cfg.Queue = "default"
	}
	return &Dispatcher{
		processor: processor,
		storage:   storage,
		enqueuer:  enqueuer,
		jobs:      jobs,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "import_dispatcher")),
	}
}

// Async reports whether submissions are queued
func (d *Dispatcher) Async() bool {
	return d.enqueuer != nil
}

// Submit processes or queues one import payload.
func (d *Dispatcher) Submit(ctx context.Context, kind Kind, filename, contentType string, data []byte) (*Submission, error) {
	if !d.Async() {
		result, err := d.processor.Process(ctx, kind, data)
		if err != nil {
			return nil, err
		}
		return &Submission{Status: StatusCompleted, Result: result}, nil
	}

	jobID := uuid.New().String()
	key := path.Join(d.cfg.UploadPrefix, string(kind), jobID)

	if _, err := d.storage.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	if err := d.jobs.Save(ctx, &JobStatus{JobID: jobID, Kind: kind, Status: StatusQueued}); err != nil {
		d.discard(ctx, key)
		return nil, err
	}

	task, err := NewImportTask(ImportPayload{
		JobID:      jobID,
		Kind:       kind,
		StorageKey: key,
		Filename:   filename,
	}, d.taskOptions()...)
	if err != nil {
		d.discard(ctx, key)
		return nil, err
	}

	info, err := d.enqueuer.EnqueueContext(ctx, task)
	if err != nil {
		d.discard(ctx, key)
		return nil, fmt.Errorf("failed to enqueue import: %w", err)
	}

	d.logger.InfoContext(ctx, "import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.String("kind", string(kind)),
		slog.String("filename", filename))

	return &Submission{JobID: jobID, Status: StatusQueued}, nil
}

// Status returns the recorded status of a queued import
func (d *Dispatcher) Status(ctx context.Context, jobID string) (*JobStatus, error) {
	return d.jobs.Get(ctx, jobID)
}

func (d *Dispatcher) taskOptions() []asynq.Option {
	opts := []asynq.Option{
		asynq.Queue(d.cfg.Queue),
		asynq.MaxRetry(d.cfg.MaxRetry),
	}
	if d.cfg.Timeout > 0 {
		opts = append(opts, asynq.Timeout(d.cfg.Timeout))
	}
	if d.cfg.Retention > 0 {
		opts = append(opts, asynq.Retention(d.cfg.Retention))
	}
	return opts
}

func (d *Dispatcher) discard(ctx context.Context, key string) {
	if err := d.storage.Delete(ctx, key); err != nil {
		d.logger.WarnContext(ctx, "failed to delete orphaned upload",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
