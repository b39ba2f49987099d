// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/adapters/db"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/internal/pkg/config"
)

// FixedTime is the clock value used by NewTestStore
var FixedTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// TestDB represents a test database instance
type TestDB struct {
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// NewTestStore returns a seeded store with a frozen clock and sequential
// ids ("gen-1", "gen-2", ...).
func NewTestStore(t testing.TB) *store.Store {
	t.Helper()

	var seq atomic.Int64
	return store.New(TestLogger(),
		store.WithClock(func() time.Time { return FixedTime }),
		store.WithIDGenerator(func() string {
			return fmt.Sprintf("gen-%d", seq.Add(1))
		}),
	)
}

// StaticLoader is a store.Loader that always finds the given snapshot
type StaticLoader domain.Snapshot

func (l StaticLoader) Load(context.Context) (*domain.Snapshot, bool, error) {
	snap := domain.Snapshot(l)
	return &snap, true, nil
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_smartstock",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_smartstock",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		var err error
		database, err = db.NewDatabase(context.Background(), dbConfig, TestLogger())
		return err
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	err = db.RunMigrationsWithRetry(context.Background(),
		&db.MigrationConfig{DatabaseURL: dbConfig.URL()}, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{Client: client, Server: mr}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return mock, sqlDB
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "smartstock-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Persistence: config.PersistenceConfig{
			Backend: config.BackendFile,
			DataDir: os.TempDir(),
			Timeout: 5 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			JobStatusTTL: 24 * time.Hour,
		},
		LLM: config.LLMConfig{
			Model:       "gemini-1.5-flash",
			Timeout:     time.Second,
			MaxRetries:  1,
			RetryWait:   time.Millisecond,
			InsightsTTL: time.Hour,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		FileProcessing: config.FileProcessingConfig{
			PDFMaxSizeMB:      10,
			ExcelMaxSizeMB:    10,
			CSVMaxSizeMB:      5,
			ProcessingTimeout: time.Minute,
			TempDir:           os.TempDir(),
			UploadPrefix:      "uploads",
		},
	}
}

// CreateTestItem creates a valid inventory item without an id
func CreateTestItem(overrides ...func(*domain.InventoryItem)) domain.InventoryItem {
	item := domain.InventoryItem{
		SKU:             "SAM-T7-1TB",
		Brand:           "Samsung",
		Name:            "T7 SSD",
		Size:            "1TB",
		Color:           "Blue",
		Category:        domain.CategoryElectronics,
		Quantity:        6,
		MinQuantity:     4,
		OptimalQuantity: 12,
		Price:           decimal.NewFromInt(129000),
		Location:        "Shelf B3",
	}

	for _, override := range overrides {
		override(&item)
	}

	return item
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")
	require.NoError(t, file.Close())

	return file.Name()
}
