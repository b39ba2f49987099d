package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/adapters/persistence"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/pkg/config"
	"github.com/ammerola/smartstock-be/test/helpers"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		expectedErr string
		expected    string
	}{
		{name: "file_backend", backend: config.BackendFile, expected: "file"},
		{name: "empty_defaults_to_file", backend: "", expected: "file"},
		{name: "unknown_backend", backend: "mongo", expectedErr: `unknown persistence backend "mongo"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := helpers.LoadTestConfig()
			cfg.Persistence.Backend = tt.backend
			cfg.Persistence.DataDir = t.TempDir()

			backend, err := persistence.Open(context.Background(), cfg, helpers.TestLogger())
			if tt.expectedErr != "" {
				require.EqualError(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			defer backend.Close()
			assert.Equal(t, tt.expected, backend.Snapshots.Name())
			assert.Nil(t, backend.Database)
			assert.NoError(t, backend.Ping(context.Background()))
		})
	}
}

func TestOpen_FileRoundTrip(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.Persistence.Backend = config.BackendFile
	cfg.Persistence.DataDir = t.TempDir()
	ctx := context.Background()

	backend, err := persistence.Open(ctx, cfg, helpers.TestLogger())
	require.NoError(t, err)

	_, found, err := backend.Snapshots.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	item := helpers.CreateTestItem()
	require.NoError(t, backend.Snapshots.Save(ctx, domain.Snapshot{Items: []domain.InventoryItem{item}}))

	reopened, err := persistence.Open(ctx, cfg, helpers.TestLogger())
	require.NoError(t, err)
	snap, found, err := reopened.Snapshots.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, item.SKU, snap.Items[0].SKU)
}

func TestS3Config(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.AWS.S3Bucket = "smartstock"
	cfg.AWS.S3Endpoint = "http://localhost:9000"
	cfg.AWS.UsePathStyle = true

	s3 := persistence.S3Config(cfg)

	assert.Equal(t, "smartstock", s3.Bucket)
	assert.Equal(t, "http://localhost:9000", s3.Endpoint)
	assert.True(t, s3.UsePathStyle)
	assert.Equal(t, cfg.AWS.Region, s3.Region)
}
