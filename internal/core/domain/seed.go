package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedItems returns the initial item set used when no snapshot exists.
func SeedItems(now time.Time) []InventoryItem {
	now = now.UTC()
	return []InventoryItem{
		{
			ID:              "1",
			SKU:             "APP-MBP-14-GR",
			Brand:           "Apple",
			Name:            `MacBook Pro 14"`,
			Size:            "14-inch",
			Color:           "Space Gray",
			Category:        CategoryElectronics,
			Quantity:        15,
			MinQuantity:     5,
			OptimalQuantity: 20,
			Price:           decimal.NewFromInt(2500000),
			Location:        "Shelf A1",
			LastUpdated:     now,
		},
		{
			ID:              "2",
			SKU:             "LOG-MXM-3S-BK",
			Brand:           "Logitech",
			Name:            "MX Master 3S",
			Size:            "Standard",
			Color:           "Graphite",
			Category:        CategoryAccessories,
			Quantity:        8,
			MinQuantity:     10,
			OptimalQuantity: 50,
			Price:           decimal.NewFromInt(150000),
			Location:        "Shelf B2",
			LastUpdated:     now,
		},
		{
			ID:              "3",
			SKU:             "NIKE-AJ1-RED-270",
			Brand:           "Nike",
			Name:            "Air Jordan 1 Low",
			Size:            "270mm",
			Color:           "Chicago Red",
			Category:        CategoryFashion,
			Quantity:        2,
			MinQuantity:     5,
			OptimalQuantity: 15,
			Price:           decimal.NewFromInt(139000),
			Location:        "Shelf C1",
			LastUpdated:     now,
		},
	}
}
