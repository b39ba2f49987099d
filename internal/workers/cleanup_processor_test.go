// internal/workers/cleanup_processor_test.go
package workers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/workers"
	"github.com/ammerola/smartstock-be/test/helpers"
)

func TestCleanupProcessor_CleanupUploads(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "csv", "old-job")
	fresh := filepath.Join(dir, "pdf", "new-job")

	for _, path := range []string{stale, fresh} {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	}
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	task, err := workers.NewCleanupUploadsTask(time.Hour)
	require.NoError(t, err)

	p := workers.NewCleanupProcessor(dir, helpers.TestLogger())
	require.NoError(t, p.CleanupUploads(context.Background(), task))

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestCleanupProcessor_MissingDirectory(t *testing.T) {
	p := workers.NewCleanupProcessor(filepath.Join(t.TempDir(), "never-created"), helpers.TestLogger())

	err := p.CleanupUploads(context.Background(), asynq.NewTask(workers.TypeCleanupUploads, nil))

	assert.NoError(t, err)
}
