// Package reorder derives the replenishment list from the current items.
package reorder

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
)

// Candidate is an item at or below its reorder point.
type Candidate struct {
	Item           domain.InventoryItem `json:"item"`
	NeededQuantity int                  `json:"needed_quantity"`
	// UrgencyRatio is quantity/minQuantity; lower is more urgent.
	// Items with a zero reorder point get 0.
	UrgencyRatio float64         `json:"urgency_ratio"`
	NeededAmount decimal.Decimal `json:"needed_amount"`
}

// ComputeReorderList returns every item with quantity <= minQuantity,
// stable-sorted ascending by quantity/minQuantity.
func ComputeReorderList(items []domain.InventoryItem) []Candidate {
	candidates := make([]Candidate, 0)
	for _, item := range items {
		if !item.IsLowStock() {
			continue
		}
		needed := item.NeededQuantity()
		candidates = append(candidates, Candidate{
			Item:           item,
			NeededQuantity: needed,
			UrgencyRatio:   urgencyRatio(item),
			NeededAmount:   item.Price.Mul(decimal.NewFromInt(int64(needed))),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UrgencyRatio < candidates[j].UrgencyRatio
	})
	return candidates
}

// ComputeReorderValue sums neededQuantity x price over the reorder list.
func ComputeReorderValue(items []domain.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, c := range ComputeReorderList(items) {
		total = total.Add(c.NeededAmount)
	}
	return total
}

// IDs returns the item ids of candidates in list order.
func IDs(candidates []Candidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Item.ID
	}
	return ids
}

func urgencyRatio(item domain.InventoryItem) float64 {
	if item.MinQuantity <= 0 {
		return 0
	}
	return float64(item.Quantity) / float64(item.MinQuantity)
}
