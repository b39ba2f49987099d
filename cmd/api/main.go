// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/smartstock-be/internal/adapters/llm"
	"github.com/ammerola/smartstock-be/internal/adapters/persistence"
	redis_a "github.com/ammerola/smartstock-be/internal/adapters/redis_adapter"
	"github.com/ammerola/smartstock-be/internal/adapters/storage"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/purchaseorder"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/internal/handlers"
	"github.com/ammerola/smartstock-be/internal/handlers/middleware"
	"github.com/ammerola/smartstock-be/internal/pkg/config"
	"github.com/ammerola/smartstock-be/internal/pkg/logger"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
	"github.com/ammerola/smartstock-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting smartstock inventory dashboard",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("persistence", cfg.Persistence.Backend),
		slog.Bool("asynq", cfg.Asynq.Enabled),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if err := deps.startWorkers(slogger); err != nil {
		slogger.Error("failed to start background workers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		deps.stopWorkers()

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	persistence *persistence.Backend
	redisClient *redis.Client
	cache       ports.CacheRepository
	metrics     *metrics.Metrics

	store   *store.Store
	builder *purchaseorder.Builder

	asynqServer    *asynq.Server
	asynqMux       *asynq.ServeMux
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
	scheduler      *asynq.Scheduler

	handlers handlers.Handlers
}

func (d *dependencies) cleanup() {
	if d.builder != nil {
		d.builder.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.asynqInspector != nil {
		d.asynqInspector.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.persistence != nil {
		d.persistence.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{metrics: metrics.New(nil)}

	// Snapshot persistence
	backend, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.persistence = backend
	snapshot := backend.Snapshots

	// In-memory store, loaded once and persisted on every commit
	deps.store = store.New(logger)
	if err := deps.store.Load(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	deps.store.Subscribe(services.NewPersister(snapshot, cfg.Persistence.Timeout, logger).OnCommit)
	deps.store.Subscribe(services.NewLedgerMetrics(deps.metrics, deps.store.Transactions()).OnCommit)

	// Redis cache for insights and job status
	deps.cache = redis_a.NoopCache{}
	if cfg.Redis.Enabled {
		logger.Info("connecting to Redis",
			slog.String("host", cfg.Redis.Host),
			slog.String("port", cfg.Redis.Port),
		)

		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddress(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			if cfg.Asynq.Enabled {
				return nil, fmt.Errorf("failed to connect to Redis: %w", err)
			}
			logger.Warn("redis unavailable, insights will not be cached",
				slog.String("error", err.Error()))
		} else {
			deps.redisClient = redisClient
			deps.cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, cfg.Redis.KeyPrefix, logger)
		}
	}

	// Language model
	var sm config.SecretsManager = config.NewEnvSecretsManager()
	if cfg.LLM.APIKeySecret != "" {
		awsSM, err := config.NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.LLM.APIKeySecret, logger)
		if err != nil {
			logger.Warn("secrets manager unavailable", slog.String("error", err.Error()))
		} else {
			sm = awsSM
		}
	}
	config.ResolveLLMAPIKey(ctx, cfg, sm, logger)

	llmClient := llm.NewClient(llm.Config{
		APIKey:          cfg.LLM.APIKey,
		Model:           cfg.LLM.Model,
		BaseURL:         cfg.LLM.BaseURL,
		Timeout:         cfg.LLM.Timeout,
		MaxRetries:      cfg.LLM.MaxRetries,
		RetryWait:       cfg.LLM.RetryWait,
		BreakerFailures: cfg.LLM.BreakerFailures,
		BreakerTimeout:  cfg.LLM.BreakerTimeout,
	}, deps.metrics, logger)
	if !llmClient.Configured() {
		logger.Warn("language model credential missing, insights and text import use fallbacks")
	}

	// Services
	deps.builder = purchaseorder.NewBuilder(deps.store, logger)
	inventoryService := services.NewInventoryService(
		deps.store,
		deps.builder,
		importer.New(deps.store, logger),
		deps.metrics,
		logger,
	)
	insightService := services.NewInsightService(deps.store, llmClient, deps.cache, cfg.LLM.InsightsTTL, logger)

	// Upload storage and import dispatch
	files, uploadDir, err := setupFileStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	jobs := workers.NewJobTracker(deps.cache, cfg.Asynq.JobStatusTTL)
	importProcessor := workers.NewImportProcessor(inventoryService, insightService, files, jobs, deps.metrics, logger)

	var enqueuer workers.TaskEnqueuer
	if cfg.Asynq.Enabled {
		redisOpt := workers.RedisOpt(cfg.Asynq)
		deps.asynqClient = asynq.NewClient(redisOpt)
		deps.asynqInspector = asynq.NewInspector(redisOpt)
		enqueuer = deps.asynqClient

		var cleanup *workers.CleanupProcessor
		if uploadDir != "" {
			cleanup = workers.NewCleanupProcessor(uploadDir, logger)
		}
		deps.asynqServer = workers.NewServer(cfg.Asynq, logger)
		deps.asynqMux = workers.NewMux(workers.Processors{
			Import:   importProcessor,
			Insights: workers.NewInsightsProcessor(insightService, deps.metrics, logger),
			Cleanup:  cleanup,
		})

		schedule := workers.ScheduleConfig{InsightsRefresh: cfg.Asynq.InsightsSchedule}
		if cleanup != nil {
			schedule.CleanupUploads = cfg.Asynq.CleanupSchedule
			schedule.UploadMaxAge = 24 * time.Hour
		}
		deps.scheduler, err = workers.NewScheduler(cfg.Asynq, schedule, logger)
		if err != nil {
			return nil, err
		}
	}

	dispatcher := workers.NewDispatcher(importProcessor, files, enqueuer, jobs, workers.DispatcherConfig{
		UploadPrefix: cfg.FileProcessing.UploadPrefix,
		MaxRetry:     cfg.Asynq.RetryMax,
		Timeout:      cfg.FileProcessing.ProcessingTimeout,
		Retention:    cfg.Asynq.JobStatusTTL,
	}, logger)

	// Handlers
	deps.handlers = handlers.Handlers{
		Inventory:     handlers.NewInventoryHandler(inventoryService, logger),
		Dashboard:     handlers.NewDashboardHandler(inventoryService, insightService, logger),
		PurchaseOrder: handlers.NewPurchaseOrderHandler(inventoryService, logger),
		Import: handlers.NewImportHandler(inventoryService, dispatcher, handlers.UploadLimits{
			CSV:   int64(cfg.FileProcessing.CSVMaxSizeMB) << 20,
			Excel: int64(cfg.FileProcessing.ExcelMaxSizeMB) << 20,
			PDF:   int64(cfg.FileProcessing.PDFMaxSizeMB) << 20,
		}, logger),
		Export: handlers.NewExportHandler(inventoryService, logger),
		Health: handlers.NewHealthHandler(cfg, logger, deps.healthChecks()...),
	}
	if cfg.Server.EnableMetrics {
		deps.handlers.Metrics = deps.metrics.Handler()
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// setupFileStorage returns the upload storage. uploadDir is set only for
// local storage, whose stale files are swept by the cleanup task.
func setupFileStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.FileStorage, string, error) {
	if cfg.AWS.S3Bucket != "" {
		files, err := storage.NewS3Storage(ctx, persistence.S3Config(cfg), logger)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return files, "", nil
	}

	base := filepath.Join(cfg.FileProcessing.TempDir, "smartstock")
	return storage.NewLocalStorage(base, logger), filepath.Join(base, cfg.FileProcessing.UploadPrefix), nil
}

func (d *dependencies) healthChecks() []handlers.HealthCheck {
	checks := []handlers.HealthCheck{
		handlers.PingCheck("store", true, d.persistence.Ping,
			func(context.Context) map[string]interface{} {
				return map[string]interface{}{
					"backend": d.persistence.Snapshots.Name(),
					"items":   len(d.store.Items()),
					"version": d.store.Version(),
				}
			}),
	}
	if db := d.persistence.Database; db != nil {
		checks = append(checks, handlers.PingCheck("database", true, db.Ping, db.Health))
	}
	if d.redisClient != nil {
		checks = append(checks, handlers.RedisCheck(d.redisClient))
	}
	if d.asynqInspector != nil {
		checks = append(checks, handlers.AsynqCheck(d.asynqInspector))
	}
	return checks
}

// startWorkers runs the embedded asynq server and scheduler
func (d *dependencies) startWorkers(logger *slog.Logger) error {
	if d.asynqServer == nil {
		return nil
	}

	if err := d.asynqServer.Start(d.asynqMux); err != nil {
		return fmt.Errorf("failed to start asynq server: %w", err)
	}
	if err := d.scheduler.Start(); err != nil {
		d.asynqServer.Shutdown()
		return fmt.Errorf("failed to start asynq scheduler: %w", err)
	}

	logger.Info("background workers started")
	return nil
}

func (d *dependencies) stopWorkers() {
	if d.scheduler != nil {
		d.scheduler.Shutdown()
	}
	if d.asynqServer != nil {
		d.asynqServer.Shutdown()
	}
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps.handlers)

	// The first middleware is the outermost; Metrics stays next to the mux
	// so it sees the matched route pattern.
	handler := middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID(cfg.Security.RequestIDHeader),
		middleware.Logger(logger),
		middleware.CORS(cfg.Security.AllowedOrigins),
		middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration),
		middleware.Compression,
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.Metrics(deps.metrics),
	)
	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}
