package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/smartstock-be/internal/adapters/redis_adapter"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/test/helpers"
	"github.com/ammerola/smartstock-be/test/mocks"
)

func TestInsightService_Insights(t *testing.T) {
	tests := []struct {
		name             string
		setupMocks       func(*mocks.MockTextGenerator, *mocks.MockCacheRepository)
		expectedText     string
		expectedFallback bool
		expectedCached   bool
	}{
		{
			name: "credential_missing_returns_fixed_text",
			setupMocks: func(llm *mocks.MockTextGenerator, _ *mocks.MockCacheRepository) {
				llm.EXPECT().Configured().Return(false)
			},
			expectedText:     services.FallbackNotConfigured,
			expectedFallback: true,
		},
		{
			name: "generated_text_is_cached",
			setupMocks: func(llm *mocks.MockTextGenerator, cache *mocks.MockCacheRepository) {
				llm.EXPECT().Configured().Return(true)
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(ports.ErrCacheMiss)
				llm.EXPECT().
					GenerateText(gomock.Any(), "insights", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, prompt string) (string, error) {
						assert.Contains(t, prompt, "Logitech MX Master 3S (Standard/Graphite): on hand 8, minimum 10, optimal 50, unit price 150000")
						assert.Contains(t, prompt, "50% of the minimum")
						return "Order 42 MX Master 3S.", nil
					})
				cache.EXPECT().
					SetWithTTL(gomock.Any(), gomock.Any(), gomock.Any(), time.Hour).
					DoAndReturn(func(_ context.Context, key string, _ any, _ time.Duration) error {
						assert.Regexp(t, `^insights:[0-9a-f]{64}$`, key)
						return nil
					})
			},
			expectedText: "Order 42 MX Master 3S.",
		},
		{
			name: "cache_hit_skips_model",
			setupMocks: func(llm *mocks.MockTextGenerator, cache *mocks.MockCacheRepository) {
				llm.EXPECT().Configured().Return(true)
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, dest any) error {
						*dest.(*ports.Insight) = ports.Insight{Text: "cached analysis"}
						return nil
					})
			},
			expectedText:   "cached analysis",
			expectedCached: true,
		},
		{
			name: "model_failure_returns_fixed_text",
			setupMocks: func(llm *mocks.MockTextGenerator, cache *mocks.MockCacheRepository) {
				llm.EXPECT().Configured().Return(true)
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(ports.ErrCacheMiss)
				llm.EXPECT().
					GenerateText(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("language model unavailable"))
			},
			expectedText:     services.FallbackFailed,
			expectedFallback: true,
		},
		{
			name: "cache_errors_do_not_block_generation",
			setupMocks: func(llm *mocks.MockTextGenerator, cache *mocks.MockCacheRepository) {
				llm.EXPECT().Configured().Return(true)
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
				llm.EXPECT().GenerateText(gomock.Any(), gomock.Any(), gomock.Any()).Return("fresh", nil)
				cache.EXPECT().SetWithTTL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
			},
			expectedText: "fresh",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			llm := mocks.NewMockTextGenerator(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(llm, cache)

			service := services.NewInsightService(helpers.NewTestStore(t), llm, cache, time.Hour, helpers.TestLogger())

			insight := service.Insights(context.Background())

			require.NotNil(t, insight)
			assert.Equal(t, tt.expectedText, insight.Text)
			assert.Equal(t, tt.expectedFallback, insight.Fallback)
			assert.Equal(t, tt.expectedCached, insight.Cached)
		})
	}
}

func TestInsightService_Insights_EmptyInventorySkipsModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockTextGenerator(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	s := helpers.NewTestStore(t)
	require.NoError(t, s.Mutate(context.Background(), func(tx *store.Tx) error {
		tx.Reset(nil)
		return nil
	}))
	service := services.NewInsightService(s, llm, cache, time.Hour, helpers.TestLogger())

	insight := service.Insights(context.Background())

	require.NotNil(t, insight)
	assert.Equal(t, services.FallbackNoItems, insight.Text)
	assert.True(t, insight.Fallback)
	assert.False(t, insight.Cached)
}

func TestInsightService_Insights_KeyFollowsItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockTextGenerator(ctrl)
	llm.EXPECT().Configured().Return(true).AnyTimes()
	llm.EXPECT().GenerateText(gomock.Any(), gomock.Any(), gomock.Any()).Return("first", nil)
	llm.EXPECT().GenerateText(gomock.Any(), gomock.Any(), gomock.Any()).Return("second", nil)

	r := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(r.Client, time.Hour, "test", helpers.TestLogger())
	s := helpers.NewTestStore(t)
	service := services.NewInsightService(s, llm, cache, time.Hour, helpers.TestLogger())
	ctx := context.Background()

	assert.Equal(t, "first", service.Insights(ctx).Text)

	again := service.Insights(ctx)
	assert.Equal(t, "first", again.Text)
	assert.True(t, again.Cached)

	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.AdjustQuantity("1", -1)
		return nil
	}))

	changed := service.Insights(ctx)
	assert.Equal(t, "second", changed.Text)
	assert.False(t, changed.Cached)
}

func TestInsightService_InterpretBulkText(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		setupMocks  func(*mocks.MockTextGenerator)
		expected    []importer.Candidate
		expectedErr error
	}{
		{
			name: "candidates_decoded",
			text: "Sony WH-1000XM5 black x4 399000",
			setupMocks: func(llm *mocks.MockTextGenerator) {
				llm.EXPECT().
					GenerateJSON(gomock.Any(), "bulk_text", gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, prompt string, dest any) error {
						assert.Contains(t, prompt, "Sony WH-1000XM5 black x4 399000")
						assert.Contains(t, prompt, "brand, name, size, color, quantity, price, category")
						*dest.(*[]importer.Candidate) = []importer.Candidate{
							{Brand: "Sony", Name: "WH-1000XM5", Color: "black", Quantity: 4, Price: decimal.NewFromInt(399000)},
						}
						return nil
					})
			},
			expected: []importer.Candidate{
				{Brand: "Sony", Name: "WH-1000XM5", Color: "black", Quantity: 4, Price: decimal.NewFromInt(399000)},
			},
		},
		{
			name:        "empty_text_rejected_without_call",
			text:        "   ",
			setupMocks:  func(*mocks.MockTextGenerator) {},
			expectedErr: services.ErrInterpretation,
		},
		{
			name: "model_failure_is_interpretation_error",
			text: "anything",
			setupMocks: func(llm *mocks.MockTextGenerator) {
				llm.EXPECT().
					GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("language model returned a malformed response"))
			},
			expectedErr: services.ErrInterpretation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			llm := mocks.NewMockTextGenerator(ctrl)
			tt.setupMocks(llm)

			service := services.NewInsightService(helpers.NewTestStore(t), llm, redis_a.NoopCache{}, time.Hour, helpers.TestLogger())

			got, err := service.InterpretBulkText(context.Background(), tt.text)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInsightService_InterpretCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	llm := mocks.NewMockTextGenerator(ctrl)
	llm.EXPECT().
		GenerateJSON(gomock.Any(), "csv", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, prompt string, dest any) error {
			assert.Contains(t, prompt, "sku,type,quantity")
			assert.Contains(t, prompt, "type (IN or OUT)")
			*dest.(*[]importer.Record) = []importer.Record{
				{SKU: "LOG-MXM-3S-BK", Type: domain.TransactionIn, Quantity: 5},
			}
			return nil
		})

	service := services.NewInsightService(helpers.NewTestStore(t), llm, redis_a.NoopCache{}, time.Hour, helpers.TestLogger())

	records, err := service.InterpretCSV(context.Background(), "sku,type,quantity\nLOG-MXM-3S-BK,IN,5")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TransactionIn, records[0].Type)

	_, err = service.InterpretCSV(context.Background(), "")
	assert.ErrorIs(t, err, services.ErrInterpretation)
}
