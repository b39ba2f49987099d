package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
)

func TestMetrics_RecordBusinessCounters(t *testing.T) {
	m := metrics.New(nil)

	m.RecordMutation("adjust")
	m.RecordMutation("import_transactions")
	m.RecordLedgerEntries("IN", "OUT", "IN")
	m.RecordPurchaseOrder()
	m.RecordLLMRequest("insights", "success", time.Second)
	m.RecordJob("import:csv", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockMutations.WithLabelValues("adjust")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerEntries.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PurchaseOrdersCommitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("insights", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsProcessed.WithLabelValues("import:csv", "error")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.RecordMutation("create")
		m.RecordLedgerEntries("IN")
		m.RecordPurchaseOrder()
		m.RecordJob("import:text", true)
		m.RecordLLMRequest("bulk", "timeout", time.Second)
		m.SetCircuitBreakerState("llm", 2)
		m.TrackInFlight()()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New(nil)
	m.RecordHTTPRequest("GET", "/api/v1/inventory", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "smartstock_http_requests_total")
}
