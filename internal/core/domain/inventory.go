// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItemCategory represents item categories
type ItemCategory string

// Category constants
const (
	CategoryElectronics    ItemCategory = "Electronics"
	CategoryAccessories    ItemCategory = "Accessories"
	CategoryFashion        ItemCategory = "Fashion"
	CategoryFurniture      ItemCategory = "Furniture"
	CategoryOfficeSupplies ItemCategory = "Office Supplies"
	CategoryOthers         ItemCategory = "Others"
)

// Categories lists every category in display order.
var Categories = []ItemCategory{
	CategoryElectronics,
	CategoryAccessories,
	CategoryFashion,
	CategoryFurniture,
	CategoryOfficeSupplies,
	CategoryOthers,
}

// IsValid reports whether c is one of the known categories.
func (c ItemCategory) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s case-insensitively against the known categories,
// falling back to CategoryOthers.
func ParseCategory(s string) ItemCategory {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return CategoryOthers
}

// InventoryItem represents a single tracked SKU variant
type InventoryItem struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Brand           string          `json:"brand"`
	Name            string          `json:"name"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
	Category        ItemCategory    `json:"category"`
	Quantity        int             `json:"quantity"`
	MinQuantity     int             `json:"min_quantity"`
	OptimalQuantity int             `json:"optimal_quantity"`
	Price           decimal.Decimal `json:"price"`
	Location        string          `json:"location"`
	LastUpdated     time.Time       `json:"last_updated"`
}

// DisplayName is the "brand name" label copied into ledger entries.
func (i *InventoryItem) DisplayName() string {
	return strings.TrimSpace(i.Brand + " " + i.Name)
}

// IsLowStock reports whether the item sits at or below its reorder point.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// IsOutOfStock reports whether the item has no stock left.
func (i *InventoryItem) IsOutOfStock() bool {
	return i.Quantity <= 0
}

// NeededQuantity is the amount required to bring the item to its optimal level.
func (i *InventoryItem) NeededQuantity() int {
	if n := i.OptimalQuantity - i.Quantity; n > 0 {
		return n
	}
	return 0
}

// StockValue returns price x quantity.
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate performs domain validation on the inventory item
func (i *InventoryItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidItem)
	}
	if i.MinQuantity < 0 {
		return fmt.Errorf("%w: min_quantity cannot be negative", ErrInvalidItem)
	}
	if i.OptimalQuantity < 0 {
		return fmt.Errorf("%w: optimal_quantity cannot be negative", ErrInvalidItem)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidItem)
	}
	if i.Category == "" {
		i.Category = CategoryOthers
	}
	if !i.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, i.Category)
	}
	return nil
}

// Touch refreshes the last-updated timestamp.
func (i *InventoryItem) Touch(now time.Time) {
	i.LastUpdated = now.UTC()
}

// ApplyDelta applies delta to the quantity with a floor of zero and returns
// the resulting quantity. Sums past math.MaxInt saturate.
func (i *InventoryItem) ApplyDelta(delta int) int {
	var q int
	switch {
	case delta > 0 && i.Quantity > math.MaxInt-delta:
		q = math.MaxInt
	default:
		q = i.Quantity + delta
	}
	if q < 0 {
		q = 0
	}
	i.Quantity = q
	return q
}

// AbsQuantity returns |n| as a ledger quantity. math.MinInt maps to
// math.MaxInt instead of staying negative.
func AbsQuantity(n int) int {
	switch {
	case n == math.MinInt:
		return math.MaxInt
	case n < 0:
		return -n
	}
	return n
}
