// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/smartstock-be/internal/pkg/config"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// HealthCheck probes one dependency. Critical checks also gate readiness.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) ServiceInfo
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checks    []HealthCheck
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, logger *slog.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus represents the health status of the application
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SystemInfo represents system-level information
type SystemInfo struct {
	GoVersion      string `json:"go_version"`
	NumGoroutines  int    `json:"num_goroutines"`
	NumCPU         int    `json:"num_cpu"`
	MemoryAllocMB  uint64 `json:"memory_alloc_mb"`
	MemorySysMB    uint64 `json:"memory_sys_mb"`
	GCPauseTotalMs uint64 `json:"gc_pause_total_ms"`
	NumGC          uint32 `json:"num_gc"`
}

// Health handles the /health endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      statusHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo, len(h.checks)),
		System:      h.getSystemInfo(),
	}

	for _, c := range h.checks {
		info := c.Check(ctx)
		health.Services[c.Name] = info
		if info.Status != statusHealthy {
			health.Status = statusDegraded
			h.logger.ErrorContext(ctx, "health check failed",
				slog.String("service", c.Name),
				slog.String("error", info.Message))
		}
	}

	statusCode := http.StatusOK
	if health.Status == statusDegraded {
		statusCode = http.StatusServiceUnavailable
	}

	h.write(ctx, w, statusCode, health)
}

// Readiness handles the /ready endpoint
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string)

	for _, c := range h.checks {
		if !c.Critical {
			continue
		}
		if c.Check(ctx).Status != statusHealthy {
			ready = false
			details[c.Name] = "not ready"
		} else {
			details[c.Name] = "ready"
		}
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	h.write(ctx, w, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func (h *HealthHandler) write(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response",
			slog.String("error", err.Error()))
	}
}

// PingCheck wraps a plain ping function, such as a database ping
func PingCheck(name string, critical bool, ping func(ctx context.Context) error, details func(ctx context.Context) map[string]interface{}) HealthCheck {
	return HealthCheck{
		Name:     name,
		Critical: critical,
		Check: func(ctx context.Context) ServiceInfo {
			start := time.Now()
			if err := ping(ctx); err != nil {
				return ServiceInfo{Status: statusUnhealthy, Message: err.Error()}
			}
			info := ServiceInfo{Status: statusHealthy}
			if details != nil {
				info.Details = details(ctx)
			}
			info.ResponseTime = time.Since(start).String()
			return info
		},
	}
}

// RedisCheck reports the redis connection and pool statistics
func RedisCheck(client *redis.Client) HealthCheck {
	return HealthCheck{
		Name: "redis",
		Check: func(ctx context.Context) ServiceInfo {
			start := time.Now()
			info := ServiceInfo{
				Status:  statusHealthy,
				Details: make(map[string]interface{}),
			}

			pong, err := client.Ping(ctx).Result()
			if err != nil {
				info.Status = statusUnhealthy
				info.Message = err.Error()
				return info
			}
			info.Details["ping"] = pong

			poolStats := client.PoolStats()
			info.Details["total_conns"] = poolStats.TotalConns
			info.Details["idle_conns"] = poolStats.IdleConns
			info.Details["stale_conns"] = poolStats.StaleConns

			info.ResponseTime = time.Since(start).String()
			return info
		},
	}
}

// AsynqCheck reports queue sizes and worker servers
func AsynqCheck(inspector *asynq.Inspector) HealthCheck {
	return HealthCheck{
		Name: "asynq",
		Check: func(ctx context.Context) ServiceInfo {
			start := time.Now()
			info := ServiceInfo{
				Status:  statusHealthy,
				Details: make(map[string]interface{}),
			}

			queues, err := inspector.Queues()
			if err != nil {
				info.Status = statusUnhealthy
				info.Message = err.Error()
				return info
			}

			queueStats := make(map[string]interface{})
			for _, queue := range queues {
				qInfo, err := inspector.GetQueueInfo(queue)
				if err != nil {
					continue
				}
				queueStats[queue] = map[string]interface{}{
					"size":      qInfo.Size,
					"active":    qInfo.Active,
					"pending":   qInfo.Pending,
					"scheduled": qInfo.Scheduled,
					"retry":     qInfo.Retry,
					"archived":  qInfo.Archived,
					"completed": qInfo.Completed,
				}
			}
			info.Details["queues"] = queueStats

			if servers, err := inspector.Servers(); err == nil && len(servers) > 0 {
				info.Details["servers"] = len(servers)
				info.Details["workers"] = len(servers[0].ActiveWorkers)
			}

			info.ResponseTime = time.Since(start).String()
			return info
		},
	}
}

// getSystemInfo returns system-level information
func (h *HealthHandler) getSystemInfo() SystemInfo {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemInfo{
		GoVersion:      runtime.Version(),
		NumGoroutines:  runtime.NumGoroutine(),
		NumCPU:         runtime.NumCPU(),
		MemoryAllocMB:  memStats.Alloc / 1024 / 1024,
		MemorySysMB:    memStats.Sys / 1024 / 1024,
		GCPauseTotalMs: memStats.PauseTotalNs / 1000 / 1000,
		NumGC:          memStats.NumGC,
	}
}
