// internal/workers/server.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/smartstock-be/internal/pkg/config"
)

// Processors groups the task handlers registered on the mux
type Processors struct {
	Import   *ImportProcessor
	Insights *InsightsProcessor
	Cleanup  *CleanupProcessor
}

// RedisOpt returns the asynq connection options for cfg
func RedisOpt(cfg config.AsynqConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewServer creates the asynq server. It runs inside the API process so
// tasks mutate the same in-memory store as the HTTP handlers.
func NewServer(cfg config.AsynqConfig, logger *slog.Logger) *asynq.Server {
	l := logger.With(slog.String("component", "asynq"))

	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          cfg.Queues,
		StrictPriority:  cfg.StrictPriority,
		ErrorHandler:    errorHandler(l),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.ShutdownTimeout,
		HealthCheckFunc: healthCheck(l),
		Logger:          newAsynqLogger(l),
	})
}

// NewMux registers every task type
func NewMux(p Processors) *asynq.ServeMux {
	mux := asynq.NewServeMux()

	for _, taskType := range []string{TypeImportCSV, TypeImportExcel, TypeImportPDF, TypeImportText} {
		mux.HandleFunc(taskType, p.Import.ProcessTask)
	}
	mux.HandleFunc(TypeInsightsRefresh, p.Insights.Refresh)
	if p.Cleanup != nil {
		mux.HandleFunc(TypeCleanupUploads, p.Cleanup.CleanupUploads)
	}

	return mux
}

// ScheduleConfig holds the periodic task specs. Empty specs are skipped.
type ScheduleConfig struct {
	InsightsRefresh string
	CleanupUploads  string
	UploadMaxAge    time.Duration
}

// NewScheduler registers the periodic tasks
func NewScheduler(cfg config.AsynqConfig, sc ScheduleConfig, logger *slog.Logger) (*asynq.Scheduler, error) {
	l := logger.With(slog.String("component", "asynq_scheduler"))

	scheduler := asynq.NewScheduler(RedisOpt(cfg), &asynq.SchedulerOpts{
		Logger:   newAsynqLogger(l),
		Location: time.UTC,
		EnqueueErrorHandler: func(task *asynq.Task, opts []asynq.Option, err error) {
			l.Error("failed to enqueue periodic task",
				slog.String("type", task.Type()),
				slog.String("error", err.Error()))
		},
	})

	if sc.InsightsRefresh != "" {
		if _, err := scheduler.Register(sc.InsightsRefresh, NewInsightsRefreshTask()); err != nil {
			return nil, fmt.Errorf("failed to schedule insights refresh: %w", err)
		}
	}

	if sc.CleanupUploads != "" {
		task, err := NewCleanupUploadsTask(sc.UploadMaxAge)
		if err != nil {
			return nil, err
		}
		if _, err := scheduler.Register(sc.CleanupUploads, task); err != nil {
			return nil, fmt.Errorf("failed to schedule upload cleanup: %w", err)
		}
	}

	return scheduler, nil
}

func errorHandler(logger *slog.Logger) asynq.ErrorHandlerFunc {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		logger.ErrorContext(ctx, "task processing failed",
			slog.String("type", task.Type()),
			slog.Int("retried", retried),
			slog.Int("max_retry", maxRetry),
			slog.String("error", err.Error()))
	}
}

func exponentialBackoff(n int, _ error, _ *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}
	return delay
}

func healthCheck(logger *slog.Logger) func(error) {
	return func(err error) {
		if err != nil {
			logger.Error("worker health check failed", slog.String("error", err.Error()))
		}
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
