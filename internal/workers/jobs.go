// internal/workers/jobs.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis_a "github.com/ammerola/smartstock-be/internal/adapters/redis_adapter"
	"github.com/ammerola/smartstock-be/internal/core/ports"
)

// ErrJobNotFound is returned when no status is recorded for a job id
var ErrJobNotFound = errors.New("job not found")

// Job statuses
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// JobStatus is the externally visible progress of an import job
type JobStatus struct {
	JobID     string    `json:"job_id"`
	Kind      Kind      `json:"kind"`
	Status    string    `json:"status"`
	Updated   int       `json:"updated"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobTracker keeps job statuses in the cache
type JobTracker struct {
	cache ports.CacheRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewJobTracker creates a tracker whose records expire after ttl
func NewJobTracker(cache ports.CacheRepository, ttl time.Duration) *JobTracker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JobTracker{
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Save stamps and stores status.
func (t *JobTracker) Save(ctx context.Context, status *JobStatus) error {
	now := t.now().UTC()
	if status.CreatedAt.IsZero() {
		status.CreatedAt = now
	}
	status.UpdatedAt = now

	if err := t.cache.SetWithTTL(ctx, jobKey(status.JobID), status, t.ttl); err != nil {
		return fmt.Errorf("failed to save job status: %w", err)
	}
	return nil
}

// Get returns the recorded status or ErrJobNotFound.
func (t *JobTracker) Get(ctx context.Context, jobID string) (*JobStatus, error) {
	var status JobStatus
	if err := t.cache.Get(ctx, jobKey(jobID), &status); err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	return &status, nil
}

func jobKey(jobID string) string {
	return redis_a.BuildKey(redis_a.PrefixJob, jobID)
}
