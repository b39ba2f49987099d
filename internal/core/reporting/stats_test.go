package reporting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/reporting"
)

func TestComputeStats_SeedItems(t *testing.T) {
	stats := reporting.ComputeStats(domain.SeedItems(time.Now()))

	assert.Equal(t, 3, stats.TotalItems)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(38978000)), "total value %s", stats.TotalValue)
	assert.Equal(t, 2, stats.LowStockCount)
	assert.Equal(t, 0, stats.OutOfStockCount)
	assert.True(t, stats.ReorderValue.Equal(decimal.NewFromInt(8107000)), "reorder value %s", stats.ReorderValue)
}

func TestComputeStats_OrderIndependentAndIdempotent(t *testing.T) {
	items := domain.SeedItems(time.Now())
	reversed := []domain.InventoryItem{items[2], items[1], items[0]}

	first := reporting.ComputeStats(items)
	second := reporting.ComputeStats(items)
	shuffled := reporting.ComputeStats(reversed)

	assert.Equal(t, first, second)
	assert.True(t, first.TotalValue.Equal(shuffled.TotalValue))
	assert.True(t, first.ReorderValue.Equal(shuffled.ReorderValue))
}

func TestComputeStats_OutOfStock(t *testing.T) {
	stats := reporting.ComputeStats([]domain.InventoryItem{
		{Name: "empty", Quantity: 0, MinQuantity: 2, OptimalQuantity: 4, Price: decimal.NewFromInt(10)},
		{Name: "full", Quantity: 9, MinQuantity: 2, OptimalQuantity: 4, Price: decimal.NewFromInt(10)},
	})

	assert.Equal(t, 1, stats.OutOfStockCount)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(90)))
	assert.True(t, stats.ReorderValue.Equal(decimal.NewFromInt(40)))
}

func TestComputeStats_Empty(t *testing.T) {
	stats := reporting.ComputeStats(nil)

	assert.Equal(t, 0, stats.TotalItems)
	assert.True(t, stats.TotalValue.IsZero())
	assert.True(t, stats.ReorderValue.IsZero())
}

func TestComputeStockHealth(t *testing.T) {
	tests := []struct {
		name     string
		q, min   int
		expected domain.StockHealth
	}{
		{name: "critical_at_half", q: 5, min: 10, expected: domain.StockHealth{Critical: 1}},
		{name: "critical_odd_min", q: 2, min: 5, expected: domain.StockHealth{Critical: 1}},
		{name: "warning_just_above_half", q: 3, min: 5, expected: domain.StockHealth{Warning: 1}},
		{name: "warning_at_min", q: 5, min: 5, expected: domain.StockHealth{Warning: 1}},
		{name: "healthy_above_min", q: 6, min: 5, expected: domain.StockHealth{Healthy: 1}},
		{name: "zero_min_zero_quantity_is_critical", q: 0, min: 0, expected: domain.StockHealth{Critical: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reporting.ComputeStockHealth([]domain.InventoryItem{{Quantity: tt.q, MinQuantity: tt.min}})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestComputeCategoryBreakdown(t *testing.T) {
	items := []domain.InventoryItem{
		{Category: domain.CategoryFashion, Quantity: 2},
		{Category: domain.CategoryElectronics, Quantity: 15},
		{Category: domain.CategoryFashion, Quantity: 3},
	}

	got := reporting.ComputeCategoryBreakdown(items)

	require.Len(t, got, 2)
	assert.Equal(t, domain.CategoryTotal{Category: domain.CategoryFashion, Quantity: 5}, got[0])
	assert.Equal(t, domain.CategoryTotal{Category: domain.CategoryElectronics, Quantity: 15}, got[1])
}

func TestSearch(t *testing.T) {
	items := domain.SeedItems(time.Now())

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "empty_query_returns_all", query: "", expected: []string{"1", "2", "3"}},
		{name: "matches_brand_case_insensitive", query: "logi", expected: []string{"2"}},
		{name: "matches_name", query: "jordan", expected: []string{"3"}},
		{name: "matches_sku", query: "mbp-14", expected: []string{"1"}},
		{name: "no_match", query: "chair", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reporting.Search(items, tt.query)
			ids := make([]string, 0, len(got))
			for _, item := range got {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestFilterByCategory(t *testing.T) {
	items := domain.SeedItems(time.Now())

	assert.Len(t, reporting.FilterByCategory(items, ""), 3)
	got := reporting.FilterByCategory(items, domain.CategoryAccessories)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}
