// internal/workers/insights_processor.go
package workers

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
)

// InsightsProcessor warms the insight cache for the current inventory
type InsightsProcessor struct {
	insights ports.InsightService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewInsightsProcessor creates a new insights processor
func NewInsightsProcessor(insights ports.InsightService, m *metrics.Metrics, logger *slog.Logger) *InsightsProcessor {
	return &InsightsProcessor{
		insights: insights,
		metrics:  m,
		logger:   logger.With(slog.String("processor", "insights")),
	}
}

// Refresh handles insights:refresh. A fallback text is not an error; the
// next run tries again.
func (p *InsightsProcessor) Refresh(ctx context.Context, t *asynq.Task) error {
	insight := p.insights.Insights(ctx)

	p.metrics.RecordJob(t.Type(), !insight.Fallback)
	p.logger.InfoContext(ctx, "insights refreshed",
		slog.Bool("cached", insight.Cached),
		slog.Bool("fallback", insight.Fallback))

	return nil
}
