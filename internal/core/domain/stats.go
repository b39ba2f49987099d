package domain

import "github.com/shopspring/decimal"

// DashboardStats holds the derived dashboard aggregates. Never persisted.
type DashboardStats struct {
	TotalItems      int             `json:"total_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	ReorderValue    decimal.Decimal `json:"reorder_value"`
}

// StockHealth buckets items by how far below their reorder point they are.
type StockHealth struct {
	Healthy  int `json:"healthy"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// CategoryTotal is the summed quantity of one category.
type CategoryTotal struct {
	Category ItemCategory `json:"category"`
	Quantity int          `json:"quantity"`
}
