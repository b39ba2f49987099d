// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/purchaseorder"
	"github.com/ammerola/smartstock-be/internal/core/reorder"
	"github.com/ammerola/smartstock-be/internal/core/reporting"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
)

// Mutation kinds reported to metrics
const (
	mutationCreate        = "create"
	mutationUpdate        = "update"
	mutationDelete        = "delete"
	mutationAdjust        = "adjust"
	mutationPurchaseOrder = "purchase_order"
	mutationImportItems   = "import_items"
	mutationImportTx      = "import_transactions"
	mutationReset         = "reset"
)

// InventoryService handles inventory business logic
type InventoryService struct {
	store    *store.Store
	builder  *purchaseorder.Builder
	importer *importer.Importer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service. m may be nil.
func NewInventoryService(
	s *store.Store,
	builder *purchaseorder.Builder,
	imp *importer.Importer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		store:    s,
		builder:  builder,
		importer: imp,
		metrics:  m,
		logger:   logger.With(slog.String("service", "inventory")),
	}
}

// CreateItem adds a new item. The id and timestamp are assigned by the store.
func (s *InventoryService) CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	var created domain.InventoryItem
	err := s.store.Mutate(ctx, func(tx *store.Tx) error {
		var err error
		created, err = tx.Create(item)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.metrics.RecordMutation(mutationCreate)
	s.logger.InfoContext(ctx, "created inventory item",
		slog.String("item_id", created.ID),
		slog.String("sku", created.SKU))

	return &created, nil
}

// UpdateItem replaces every field of the item except its id
func (s *InventoryService) UpdateItem(ctx context.Context, id string, item domain.InventoryItem) (*domain.InventoryItem, error) {
	var updated domain.InventoryItem
	err := s.store.Mutate(ctx, func(tx *store.Tx) error {
		saved, found, err := tx.Update(id, item)
		if !found {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		if err != nil {
			return err
		}
		updated = saved
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.metrics.RecordMutation(mutationUpdate)
	s.logger.InfoContext(ctx, "updated inventory item", slog.String("item_id", id))

	return &updated, nil
}

// DeleteItem removes an item. Its ledger entries are kept.
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	err := s.store.Mutate(ctx, func(tx *store.Tx) error {
		if !tx.Delete(id) {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.metrics.RecordMutation(mutationDelete)
	s.logger.InfoContext(ctx, "deleted inventory item", slog.String("item_id", id))

	return nil
}

// GetItem retrieves an inventory item by ID
func (s *InventoryService) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, ok := s.store.Item(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return &item, nil
}

// ListItems returns items in insertion order, narrowed by search text and category
func (s *InventoryService) ListItems(ctx context.Context, params ports.ListParams) ([]domain.InventoryItem, error) {
	items := reporting.Search(s.store.Items(), params.Search)

	if raw := strings.TrimSpace(params.Category); raw != "" {
		category := domain.ParseCategory(raw)
		if !strings.EqualFold(string(category), raw) {
			return []domain.InventoryItem{}, nil
		}
		items = reporting.FilterByCategory(items, category)
	}

	return items, nil
}

// AdjustQuantity applies delta with a floor of zero. The ledger is only
// written when opts.Record is set.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id string, delta int, opts ports.AdjustOptions) (*domain.InventoryItem, error) {
	var adjusted domain.InventoryItem
	err := s.store.Mutate(ctx, func(tx *store.Tx) error {
		item, ok := tx.ApplyMovement(store.Movement{
			ItemID:   id,
			Delta:    delta,
			Type:     domain.TransactionAdjust,
			Note:     opts.Note,
			NoRecord: !opts.Record,
		})
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		adjusted = item
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}

	s.metrics.RecordMutation(mutationAdjust)
	s.logger.InfoContext(ctx, "adjusted quantity",
		slog.String("item_id", id),
		slog.Int("delta", delta),
		slog.Int("quantity", adjusted.Quantity),
		slog.Bool("recorded", opts.Record))

	return &adjusted, nil
}

// Transactions returns ledger entries newest first
func (s *InventoryService) Transactions(ctx context.Context, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q", filter.Type)
	}

	entries := s.store.Transactions()
	out := make([]domain.Transaction, 0, len(entries))
	for _, entry := range entries {
		if filter.ItemID != "" && entry.ItemID != filter.ItemID {
			continue
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		out = append(out, entry)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// Dashboard computes the dashboard figures from one consistent item set
func (s *InventoryService) Dashboard(ctx context.Context) *ports.Dashboard {
	items := s.store.Items()
	return &ports.Dashboard{
		Stats:      reporting.ComputeStats(items),
		Health:     reporting.ComputeStockHealth(items),
		Categories: reporting.ComputeCategoryBreakdown(items),
	}
}

// ReorderList returns the reorder candidates, most urgent first
func (s *InventoryService) ReorderList(ctx context.Context) *ports.ReorderReport {
	items := s.store.Items()
	return &ports.ReorderReport{
		Candidates: reorder.ComputeReorderList(items),
		TotalValue: reorder.ComputeReorderValue(items),
	}
}

// TogglePurchaseSelection flips the item in the purchase-order selection
func (s *InventoryService) TogglePurchaseSelection(ctx context.Context, id string) (bool, error) {
	if _, ok := s.store.Item(id); !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return s.builder.Toggle(id)
}

// SelectAllForPurchase selects every current reorder candidate
func (s *InventoryService) SelectAllForPurchase(ctx context.Context) ([]string, error) {
	return s.builder.SelectAll()
}

// PreviewPurchaseOrder computes the order lines for the selection
func (s *InventoryService) PreviewPurchaseOrder(ctx context.Context) (*purchaseorder.Preview, error) {
	return s.builder.Preview()
}

// CancelPurchasePreview returns to selection, keeping it
func (s *InventoryService) CancelPurchasePreview(ctx context.Context) error {
	return s.builder.CancelPreview()
}

// CommitPurchaseOrder restocks the selection to optimal quantities
func (s *InventoryService) CommitPurchaseOrder(ctx context.Context) (*purchaseorder.PurchaseOrder, error) {
	order, err := s.builder.Commit(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordMutation(mutationPurchaseOrder)
	s.metrics.RecordPurchaseOrder()
	return order, nil
}

// PurchaseOrderState returns the builder state and selection
func (s *InventoryService) PurchaseOrderState(ctx context.Context) purchaseorder.View {
	return s.builder.View()
}

// ImportItems creates items from parsed candidates in one mutation
func (s *InventoryService) ImportItems(ctx context.Context, candidates []importer.Candidate) ([]domain.InventoryItem, error) {
	created, err := s.importer.ImportItems(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to import items: %w", err)
	}
	if len(created) > 0 {
		s.metrics.RecordMutation(mutationImportItems)
	}
	return created, nil
}

// ApplyTransactions applies parsed IN/OUT records in one mutation
func (s *InventoryService) ApplyTransactions(ctx context.Context, source string, records []importer.Record) (int, error) {
	updated, err := s.importer.ApplyTransactions(ctx, source, records)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.metrics.RecordMutation(mutationImportTx)
	}
	return updated, nil
}

// Snapshot returns a copy of the full state
func (s *InventoryService) Snapshot(ctx context.Context) domain.Snapshot {
	return s.store.Snapshot().Snapshot
}

// Reset restores the seed items and clears the ledger
func (s *InventoryService) Reset(ctx context.Context) error {
	err := s.store.Mutate(ctx, func(tx *store.Tx) error {
		tx.Reset(domain.SeedItems(tx.Now()))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset inventory: %w", err)
	}

	s.metrics.RecordMutation(mutationReset)
	s.logger.WarnContext(ctx, "inventory reset to seed data")
	return nil
}
