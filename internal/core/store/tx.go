package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/ammerola/smartstock-be/internal/core/domain"
)

// Movement describes one quantity change. Delta is applied with a floor of
// zero; unless NoRecord is set a ledger entry of |Delta| is appended.
type Movement struct {
	ItemID   string
	Delta    int
	Type     domain.TransactionType
	Note     string
	NoRecord bool
}

// Tx is the staged view handed to Mutate callbacks. It is only valid
// inside the callback.
type Tx struct {
	items   []domain.InventoryItem
	pending []domain.Transaction
	reset   bool
	dirty   bool
	now     time.Time
	newID   func() string
}

// Now returns the timestamp applied to every change in this mutation.
func (tx *Tx) Now() time.Time {
	return tx.now
}

// Items returns a copy of the staged items.
func (tx *Tx) Items() []domain.InventoryItem {
	return cloneItems(tx.items)
}

// Item returns the staged item with the given id.
func (tx *Tx) Item(id string) (domain.InventoryItem, bool) {
	if i := tx.indexOf(id); i >= 0 {
		return tx.items[i], true
	}
	return domain.InventoryItem{}, false
}

// FindBySKUOrName returns the first item, in insertion order, whose SKU
// equals sku or whose name equals name. Empty keys never match.
func (tx *Tx) FindBySKUOrName(sku, name string) (domain.InventoryItem, bool) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	for _, item := range tx.items {
		if (sku != "" && item.SKU == sku) || (name != "" && item.Name == name) {
			return item, true
		}
	}
	return domain.InventoryItem{}, false
}

// SKUExists reports whether any staged item other than exceptID uses sku.
func (tx *Tx) SKUExists(sku, exceptID string) bool {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return false
	}
	for _, item := range tx.items {
		if item.ID != exceptID && item.SKU == sku {
			return true
		}
	}
	return false
}

// Create adds item with a fresh id and timestamp.
func (tx *Tx) Create(item domain.InventoryItem) (domain.InventoryItem, error) {
	item.SKU = strings.TrimSpace(item.SKU)
	if err := item.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}
	if tx.SKUExists(item.SKU, "") {
		return domain.InventoryItem{}, fmt.Errorf("%w: %s", domain.ErrSKUConflict, item.SKU)
	}

	item.ID = tx.newID()
	item.Touch(tx.now)
	tx.items = append(tx.items, item)
	tx.dirty = true
	return item, nil
}

// Update replaces the record for id, keeping the id. It returns false and
// changes nothing when id is unknown.
func (tx *Tx) Update(id string, item domain.InventoryItem) (domain.InventoryItem, bool, error) {
	i := tx.indexOf(id)
	if i < 0 {
		return domain.InventoryItem{}, false, nil
	}

	item.SKU = strings.TrimSpace(item.SKU)
	if err := item.Validate(); err != nil {
		return domain.InventoryItem{}, true, err
	}
	if tx.SKUExists(item.SKU, id) {
		return domain.InventoryItem{}, true, fmt.Errorf("%w: %s", domain.ErrSKUConflict, item.SKU)
	}

	item.ID = id
	item.Touch(tx.now)
	tx.items[i] = item
	tx.dirty = true
	return item, true, nil
}

// Delete removes the item. Ledger entries keep the orphaned item id.
func (tx *Tx) Delete(id string) bool {
	i := tx.indexOf(id)
	if i < 0 {
		return false
	}
	tx.items = append(tx.items[:i], tx.items[i+1:]...)
	tx.dirty = true
	return true
}

// AdjustQuantity applies delta with the zero floor and no ledger entry.
func (tx *Tx) AdjustQuantity(id string, delta int) (domain.InventoryItem, bool) {
	return tx.ApplyMovement(Movement{
		ItemID:   id,
		Delta:    delta,
		Type:     domain.TransactionAdjust,
		NoRecord: true,
	})
}

// ApplyMovement is the single quantity-change primitive. It floors the
// result at zero, refreshes the timestamp and, unless m.NoRecord is set,
// appends one ledger entry carrying |m.Delta|.
func (tx *Tx) ApplyMovement(m Movement) (domain.InventoryItem, bool) {
	i := tx.indexOf(m.ItemID)
	if i < 0 {
		return domain.InventoryItem{}, false
	}

	item := &tx.items[i]
	item.ApplyDelta(m.Delta)
	item.Touch(tx.now)
	tx.dirty = true

	if !m.NoRecord {
		tx.pending = append(tx.pending, domain.Transaction{
			ID:        tx.newID(),
			ItemID:    item.ID,
			ItemName:  item.DisplayName(),
			Type:      m.Type,
			Quantity:  domain.AbsQuantity(m.Delta),
			Timestamp: tx.now,
			Note:      m.Note,
		})
	}

	return *item, true
}

// SetQuantity moves the item to exactly q, recording the difference.
func (tx *Tx) SetQuantity(id string, q int, typ domain.TransactionType, note string) (domain.InventoryItem, bool) {
	current, ok := tx.Item(id)
	if !ok {
		return domain.InventoryItem{}, false
	}
	return tx.ApplyMovement(Movement{
		ItemID: id,
		Delta:  q - current.Quantity,
		Type:   typ,
		Note:   note,
	})
}

// Reset replaces every item and clears the ledger.
func (tx *Tx) Reset(items []domain.InventoryItem) {
	tx.items = cloneItems(items)
	tx.pending = nil
	tx.reset = true
	tx.dirty = true
}

// Pending returns the ledger entries staged so far, oldest first.
func (tx *Tx) Pending() []domain.Transaction {
	out := make([]domain.Transaction, len(tx.pending))
	copy(out, tx.pending)
	return out
}

func (tx *Tx) indexOf(id string) int {
	for i := range tx.items {
		if tx.items[i].ID == id {
			return i
		}
	}
	return -1
}
