// Package metrics holds the Prometheus collectors for the API and its
// background jobs. All Record methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business metrics
	StockMutations          *prometheus.CounterVec
	LedgerEntries           *prometheus.CounterVec
	PurchaseOrdersCommitted prometheus.Counter
	JobsProcessed           *prometheus.CounterVec

	// Language model metrics
	LLMRequests        *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
}

// Config holds metrics configuration
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() *Config {
	return &Config{Namespace: "smartstock"}
}

// New creates a Metrics instance on its own registry
func New(config *Config) *Metrics {
	if config == nil {
		config = DefaultConfig()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	m.StockMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "stock_mutations_total",
			Help:      "Committed store mutations by kind",
		},
		[]string{"kind"},
	)

	m.LedgerEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "ledger_entries_total",
			Help:      "Ledger entries appended by transaction type",
		},
		[]string{"type"},
	)

	m.PurchaseOrdersCommitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "purchase_orders_committed_total",
			Help:      "Committed purchase orders",
		},
	)

	m.JobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "jobs_processed_total",
			Help:      "Background jobs processed by task type and status",
		},
		[]string{"task_type", "status"},
	)

	m.LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "llm_requests_total",
			Help:      "Language model calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Language model call duration in seconds, retries included",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"operation"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.StockMutations,
		m.LedgerEntries,
		m.PurchaseOrdersCommitted,
		m.JobsProcessed,
		m.LLMRequests,
		m.LLMRequestDuration,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.HTTPRequestsInFlight.Inc()
	return m.HTTPRequestsInFlight.Dec
}

// RecordMutation records a committed store mutation
func (m *Metrics) RecordMutation(kind string) {
	if m == nil {
		return
	}
	m.StockMutations.WithLabelValues(kind).Inc()
}

// RecordLedgerEntries records appended ledger entries by type
func (m *Metrics) RecordLedgerEntries(entryTypes ...string) {
	if m == nil {
		return
	}
	for _, t := range entryTypes {
		m.LedgerEntries.WithLabelValues(t).Inc()
	}
}

// RecordPurchaseOrder records a committed purchase order
func (m *Metrics) RecordPurchaseOrder() {
	if m == nil {
		return
	}
	m.PurchaseOrdersCommitted.Inc()
}

// RecordJob records a finished background job
func (m *Metrics) RecordJob(taskType string, success bool) {
	if m == nil {
		return
	}
	m.JobsProcessed.WithLabelValues(taskType, outcome(success)).Inc()
}

// RecordLLMRequest records a language model call
func (m *Metrics) RecordLLMRequest(operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequests.WithLabelValues(operation, result).Inc()
	m.LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetCircuitBreakerState records the breaker state (0 closed, 1 half-open, 2 open)
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
