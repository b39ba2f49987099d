// Package reporting computes dashboard aggregates. Everything here is a pure
// function of the item list.
package reporting

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/reorder"
)

var half = decimal.NewFromFloat(0.5)

// ComputeStats returns the dashboard stats for items.
func ComputeStats(items []domain.InventoryItem) domain.DashboardStats {
	stats := domain.DashboardStats{
		TotalItems:   len(items),
		TotalValue:   decimal.Zero,
		ReorderValue: reorder.ComputeReorderValue(items),
	}
	for i := range items {
		stats.TotalValue = stats.TotalValue.Add(items[i].StockValue())
		if items[i].IsLowStock() {
			stats.LowStockCount++
		}
		if items[i].IsOutOfStock() {
			stats.OutOfStockCount++
		}
	}
	return stats
}

// ComputeStockHealth buckets items into critical (q <= 0.5*min),
// warning (q <= min) and healthy.
func ComputeStockHealth(items []domain.InventoryItem) domain.StockHealth {
	var health domain.StockHealth
	for _, item := range items {
		q := decimal.NewFromInt(int64(item.Quantity))
		min := decimal.NewFromInt(int64(item.MinQuantity))
		switch {
		case q.LessThanOrEqual(min.Mul(half)):
			health.Critical++
		case item.Quantity <= item.MinQuantity:
			health.Warning++
		default:
			health.Healthy++
		}
	}
	return health
}

// ComputeCategoryBreakdown sums quantity per category in order of first
// appearance.
func ComputeCategoryBreakdown(items []domain.InventoryItem) []domain.CategoryTotal {
	totals := make([]domain.CategoryTotal, 0)
	index := make(map[domain.ItemCategory]int)
	for _, item := range items {
		i, ok := index[item.Category]
		if !ok {
			i = len(totals)
			index[item.Category] = i
			totals = append(totals, domain.CategoryTotal{Category: item.Category})
		}
		totals[i].Quantity += item.Quantity
	}
	return totals
}

// Search keeps items whose name, brand or SKU contains query,
// case-insensitively. An empty query keeps everything.
func Search(items []domain.InventoryItem, query string) []domain.InventoryItem {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if query == "" ||
			strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Brand), query) ||
			strings.Contains(strings.ToLower(item.SKU), query) {
			out = append(out, item)
		}
	}
	return out
}

// FilterByCategory keeps items of the given category; empty keeps all.
func FilterByCategory(items []domain.InventoryItem, category domain.ItemCategory) []domain.InventoryItem {
	if category == "" {
		return items
	}
	out := make([]domain.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
