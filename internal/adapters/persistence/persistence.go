// Package persistence opens the snapshot backend selected by configuration.
package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/smartstock-be/internal/adapters/db"
	"github.com/ammerola/smartstock-be/internal/adapters/storage"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/pkg/config"
)

// Backend is an opened snapshot store. Database is set only for the
// postgres backend.
type Backend struct {
	Snapshots ports.SnapshotStore
	Database  *db.Database
}

// Close releases the database pool, if any
func (b *Backend) Close() {
	if b.Database != nil {
		b.Database.Close()
	}
}

// Ping checks the backend is reachable. File and object backends are
// checked lazily on the next save.
func (b *Backend) Ping(ctx context.Context) error {
	if b.Database == nil {
		return nil
	}
	return b.Database.Ping(ctx)
}

// Open connects to cfg.Persistence.Backend. The postgres backend runs the
// schema migrations before returning.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.Persistence.Backend {
	case config.BackendPostgres:
		logger.Info("connecting to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Name),
		)

		database, err := db.NewDatabase(ctx, &db.Config{
			Host:               cfg.Database.Host,
			Port:               cfg.Database.Port,
			User:               cfg.Database.User,
			Password:           cfg.Database.Password,
			Database:           cfg.Database.Name,
			SSLMode:            cfg.Database.SSLMode,
			MaxConnections:     cfg.Database.MaxConnections,
			MinConnections:     cfg.Database.MinConnections,
			MaxConnLifetime:    cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
			HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
			ConnectTimeout:     cfg.Database.ConnectTimeout,
			EnableQueryLogging: cfg.Database.EnableQueryLogging,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		if err := db.RunMigrationsWithRetry(ctx, &db.MigrationConfig{
			DatabaseURL: cfg.GetDatabaseURL(),
		}, logger, cfg.Database.MigrationRetries); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return &Backend{
			Snapshots: db.NewSnapshotRepository(database.SQL(), logger),
			Database:  database,
		}, nil

	case config.BackendS3:
		objects, err := storage.NewS3Storage(ctx, S3Config(cfg), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 snapshot storage: %w", err)
		}
		return &Backend{
			Snapshots: storage.NewObjectSnapshotStore(objects, cfg.Persistence.S3Prefix, config.BackendS3, logger),
		}, nil

	case config.BackendFile, "":
		return &Backend{
			Snapshots: storage.NewFileSnapshotStore(cfg.Persistence.DataDir, logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}
}

// S3Config maps the AWS settings onto the S3 adapter config
func S3Config(cfg *config.Config) *storage.S3Config {
	return &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}
}
