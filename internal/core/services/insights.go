package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/store"
)

// ErrInterpretation is returned when free text could not be turned into
// rows, whatever the underlying model failure was.
var ErrInterpretation = errors.New("could not interpret input")

// Fixed insight texts used instead of model output
const (
	FallbackNotConfigured = "Language model credential is not configured. Set GEMINI_API_KEY to enable inventory analysis."
	FallbackFailed        = "Analysis failed. Check the API key and try again."
	FallbackNoItems       = "No items to analyze. Add inventory items to get restocking advice."
)

const (
	insightCachePrefix = "insights"

	operationInsights = "insights"
	operationBulkText = "bulk_text"
	operationCSV      = "csv"
)

// InsightService produces dashboard analysis and interprets free text
// through a ports.TextGenerator.
type InsightService struct {
	store  *store.Store
	llm    ports.TextGenerator
	cache  ports.CacheRepository
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Statically assert that *InsightService implements the InsightService interface.
var _ ports.InsightService = (*InsightService)(nil)

// NewInsightService creates an insight service. Insight texts are cached
// for ttl under a key derived from the item contents.
func NewInsightService(s *store.Store, llm ports.TextGenerator, cache ports.CacheRepository, ttl time.Duration, logger *slog.Logger) *InsightService {
	return &InsightService{
		store:  s,
		llm:    llm,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With(slog.String("service", "insights")),
	}
}

// Insights returns the analysis text for the current items. Failures are
// reported as one of the fallback texts, never as an error.
func (s *InsightService) Insights(ctx context.Context) *ports.Insight {
	items := s.store.Items()
	if len(items) == 0 {
		return s.fallback(FallbackNoItems)
	}

	if !s.llm.Configured() {
		return s.fallback(FallbackNotConfigured)
	}

	key, err := insightCacheKey(items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build insight cache key",
			slog.String("error", err.Error()))
	}

	if key != "" {
		var cached ports.Insight
		switch err := s.cache.Get(ctx, key, &cached); {
		case err == nil:
			cached.Cached = true
			return &cached
		case !errors.Is(err, ports.ErrCacheMiss):
			s.logger.WarnContext(ctx, "insight cache read failed",
				slog.String("error", err.Error()))
		}
	}

	text, err := s.llm.GenerateText(ctx, operationInsights, insightPrompt(items))
	if err != nil {
		s.logger.ErrorContext(ctx, "insight generation failed",
			slog.Int("items", len(items)),
			slog.String("error", err.Error()))
		return s.fallback(FallbackFailed)
	}

	insight := &ports.Insight{Text: text, GeneratedAt: s.now().UTC()}
	if key != "" {
		if err := s.cache.SetWithTTL(ctx, key, insight, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "insight cache write failed",
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "insight generated", slog.Int("items", len(items)))
	return insight
}

// InterpretBulkText asks the model to extract item candidates from text
func (s *InsightService) InterpretBulkText(ctx context.Context, text string) ([]importer.Candidate, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInterpretation)
	}

	var candidates []importer.Candidate
	if err := s.llm.GenerateJSON(ctx, operationBulkText, bulkTextPrompt(text), &candidates); err != nil {
		s.logger.ErrorContext(ctx, "bulk text interpretation failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrInterpretation, err)
	}

	s.logger.InfoContext(ctx, "bulk text interpreted", slog.Int("candidates", len(candidates)))
	return candidates, nil
}

// InterpretCSV asks the model to turn CSV text into transaction records
func (s *InsightService) InterpretCSV(ctx context.Context, csv string) ([]importer.Record, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, fmt.Errorf("%w: empty csv", ErrInterpretation)
	}

	var records []importer.Record
	if err := s.llm.GenerateJSON(ctx, operationCSV, csvPrompt(csv), &records); err != nil {
		s.logger.ErrorContext(ctx, "csv interpretation failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrInterpretation, err)
	}

	s.logger.InfoContext(ctx, "csv interpreted", slog.Int("records", len(records)))
	return records, nil
}

func (s *InsightService) fallback(text string) *ports.Insight {
	return &ports.Insight{Text: text, Fallback: true, GeneratedAt: s.now().UTC()}
}

// insightCacheKey hashes the items so that any change yields a new key
func insightCacheKey(items []domain.InventoryItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal items: %w", err)
	}
	sum := sha256.Sum256(data)
	return insightCachePrefix + ":" + hex.EncodeToString(sum[:]), nil
}
