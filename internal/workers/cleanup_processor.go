// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
)

const defaultUploadMaxAge = 24 * time.Hour

// CleanupProcessor removes local uploads that were never processed, such as
// those of a job dropped from the queue.
type CleanupProcessor struct {
	dir    string
	logger *slog.Logger
}

// NewCleanupProcessor creates a cleanup processor for uploads under dir
func NewCleanupProcessor(dir string, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		dir:    dir,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupUploads handles cleanup:uploads
func (p *CleanupProcessor) CleanupUploads(ctx context.Context, t *asynq.Task) error {
	maxAge := defaultUploadMaxAge
	if len(t.Payload()) > 0 {
		var payload CleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
		if payload.MaxAge > 0 {
			maxAge = payload.MaxAge
		}
	}

	deleted, err := p.sweep(ctx, maxAge)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "stale uploads cleaned up",
		slog.Int("files_deleted", deleted),
		slog.Duration("max_age", maxAge))

	return nil
}

func (p *CleanupProcessor) sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	var deleted int
	err := filepath.WalkDir(p.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if time.Since(info.ModTime()) <= maxAge {
			return nil
		}

		if err := os.Remove(path); err != nil {
			p.logger.WarnContext(ctx, "failed to delete stale upload",
				slog.String("file", path),
				slog.String("error", err.Error()))
			return nil
		}
		deleted++
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return deleted, fmt.Errorf("failed to walk upload directory: %w", err)
	}

	return deleted, nil
}
