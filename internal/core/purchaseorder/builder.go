// Package purchaseorder implements the select, preview and commit flow that
// restocks reorder candidates to their optimal quantity.
package purchaseorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/reorder"
	"github.com/ammerola/smartstock-be/internal/core/store"
)

// ReceiptNote is the ledger note on every purchase receipt.
const ReceiptNote = "automatic purchase-order receipt"

// State of the builder.
type State string

const (
	StateSelecting  State = "selecting"
	StatePreviewing State = "previewing"
)

// Line is one row of a purchase order.
type Line struct {
	ItemID   string          `json:"item_id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
}

// Preview is the order as it would be committed now.
type Preview struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// PurchaseOrder is a committed order.
type PurchaseOrder struct {
	Lines       []Line          `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	CommittedAt time.Time       `json:"committed_at"`
}

// View is a point-in-time copy of the builder.
type View struct {
	State     State    `json:"state"`
	Selection []string `json:"selection"`
	Preview   *Preview `json:"preview,omitempty"`
}

// Builder holds the transient selection. It is safe for concurrent use.
type Builder struct {
	mu       sync.Mutex
	state    State
	selected map[string]struct{}

	store       *store.Store
	unsubscribe func()
	logger      *slog.Logger
}

// NewBuilder creates a builder in the Selecting state and subscribes it to
// s so that deleted items drop out of the selection.
func NewBuilder(s *store.Store, logger *slog.Logger) *Builder {
	b := &Builder{
		state:    StateSelecting,
		selected: make(map[string]struct{}),
		store:    s,
		logger:   logger.With(slog.String("component", "purchase_order")),
	}
	b.unsubscribe = s.Subscribe(b.prune)
	return b
}

// Close detaches the builder from the store.
func (b *Builder) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}

// Toggle flips id in the selection and reports whether it is now
// selected. Only reorder candidates can be added.
func (b *Builder) Toggle(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateSelecting {
		return false, fmt.Errorf("%w: cannot change selection while %s", domain.ErrInvalidState, b.state)
	}

	if _, ok := b.selected[id]; ok {
		delete(b.selected, id)
		return false, nil
	}

	if !isCandidate(b.store.Items(), id) {
		return false, fmt.Errorf("%w: %s", domain.ErrNotReorderCandidate, id)
	}
	b.selected[id] = struct{}{}
	return true, nil
}

// SelectAll replaces the selection with every current reorder candidate.
func (b *Builder) SelectAll() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateSelecting {
		return nil, fmt.Errorf("%w: cannot change selection while %s", domain.ErrInvalidState, b.state)
	}

	ids := reorder.IDs(reorder.ComputeReorderList(b.store.Items()))
	b.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		b.selected[id] = struct{}{}
	}
	return ids, nil
}

// Selection returns the selected ids in reorder-list order. Selected items
// that have since left the reorder list follow in item order.
func (b *Builder) Selection() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.orderedSelection(b.store.Items())
}

// Preview computes the order lines and moves to Previewing. On error the
// builder stays where it was.
func (b *Builder) Preview() (*Preview, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.store.Items()
	preview, err := buildPreview(items, b.orderedSelection(items))
	if err != nil {
		return nil, err
	}

	b.state = StatePreviewing
	return preview, nil
}

// CancelPreview returns to Selecting and keeps the selection.
func (b *Builder) CancelPreview() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StatePreviewing {
		return fmt.Errorf("%w: no preview to cancel", domain.ErrInvalidState)
	}
	b.state = StateSelecting
	return nil
}

// Commit restocks every selected item to its optimal quantity in a single
// store mutation, one PURCHASE entry per item. If any item is gone or
// already above optimal, nothing changes.
func (b *Builder) Commit(ctx context.Context) (*PurchaseOrder, error) {
	b.mu.Lock()
	if b.state != StatePreviewing {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: commit requires a preview", domain.ErrInvalidState)
	}
	ids := b.orderedSelection(b.store.Items())
	b.mu.Unlock()

	if len(ids) == 0 {
		return nil, domain.ErrEmptySelection
	}

	var order PurchaseOrder
	err := b.store.Mutate(ctx, func(tx *store.Tx) error {
		order = PurchaseOrder{Lines: make([]Line, 0, len(ids)), Total: decimal.Zero, CommittedAt: tx.Now()}

		for _, id := range ids {
			item, ok := tx.Item(id)
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
			}
			line, err := lineFor(item)
			if err != nil {
				return err
			}
			tx.SetQuantity(id, item.OptimalQuantity, domain.TransactionPurchase, ReceiptNote)
			order.Lines = append(order.Lines, line)
			order.Total = order.Total.Add(line.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit purchase order: %w", err)
	}

	b.mu.Lock()
	b.selected = make(map[string]struct{})
	b.state = StateSelecting
	b.mu.Unlock()

	b.logger.InfoContext(ctx, "purchase order committed",
		slog.Int("lines", len(order.Lines)),
		slog.String("total", order.Total.String()))

	return &order, nil
}

// State returns the current state.
func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// View returns the state, the selection and, while previewing, the lines
// recomputed against the current items.
func (b *Builder) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.store.Items()
	v := View{State: b.state, Selection: b.orderedSelection(items)}
	if b.state == StatePreviewing {
		if preview, err := buildPreview(items, v.Selection); err == nil {
			v.Preview = preview
		}
	}
	return v
}

func (b *Builder) prune(ctx context.Context, snap store.Snapshot) {
	live := make(map[string]struct{}, len(snap.Items))
	for _, item := range snap.Items {
		live[item.ID] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for id := range b.selected {
		if _, ok := live[id]; !ok {
			delete(b.selected, id)
			b.logger.DebugContext(ctx, "pruned deleted item from selection", slog.String("item_id", id))
		}
	}
	if len(b.selected) == 0 && b.state == StatePreviewing {
		b.state = StateSelecting
	}
}

func (b *Builder) orderedSelection(items []domain.InventoryItem) []string {
	ids := make([]string, 0, len(b.selected))
	seen := make(map[string]struct{}, len(b.selected))

	for _, c := range reorder.ComputeReorderList(items) {
		if _, ok := b.selected[c.Item.ID]; ok {
			ids = append(ids, c.Item.ID)
			seen[c.Item.ID] = struct{}{}
		}
	}
	for _, item := range items {
		if _, ok := b.selected[item.ID]; !ok {
			continue
		}
		if _, ok := seen[item.ID]; !ok {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func buildPreview(items []domain.InventoryItem, ids []string) (*Preview, error) {
	if len(ids) == 0 {
		return nil, domain.ErrEmptySelection
	}

	byID := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	preview := &Preview{Lines: make([]Line, 0, len(ids)), Total: decimal.Zero}
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		line, err := lineFor(item)
		if err != nil {
			return nil, err
		}
		preview.Lines = append(preview.Lines, line)
		preview.Total = preview.Total.Add(line.Amount)
	}
	return preview, nil
}

func lineFor(item domain.InventoryItem) (Line, error) {
	qty := item.OptimalQuantity - item.Quantity
	if qty < 0 {
		return Line{}, fmt.Errorf("%w: %s has %d on hand, above optimal %d",
			domain.ErrInvalidPurchaseLine, item.ID, item.Quantity, item.OptimalQuantity)
	}
	return Line{
		ItemID:   item.ID,
		SKU:      item.SKU,
		Name:     item.DisplayName(),
		Quantity: qty,
		Price:    item.Price,
		Amount:   item.Price.Mul(decimal.NewFromInt(int64(qty))),
	}, nil
}

func isCandidate(items []domain.InventoryItem, id string) bool {
	for _, c := range reorder.ComputeReorderList(items) {
		if c.Item.ID == id {
			return true
		}
	}
	return false
}
