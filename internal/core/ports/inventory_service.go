// internal/core/ports/inventory_service.go
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/purchaseorder"
	"github.com/ammerola/smartstock-be/internal/core/reorder"
)

// InventoryService defines the application service port for inventory.
// This interface is implemented by the application service.
type InventoryService interface {
	CreateItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, item domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, params ListParams) ([]domain.InventoryItem, error)
	AdjustQuantity(ctx context.Context, id string, delta int, opts AdjustOptions) (*domain.InventoryItem, error)
	Transactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	Dashboard(ctx context.Context) *Dashboard
	ReorderList(ctx context.Context) *ReorderReport

	TogglePurchaseSelection(ctx context.Context, id string) (bool, error)
	SelectAllForPurchase(ctx context.Context) ([]string, error)
	PreviewPurchaseOrder(ctx context.Context) (*purchaseorder.Preview, error)
	CancelPurchasePreview(ctx context.Context) error
	CommitPurchaseOrder(ctx context.Context) (*purchaseorder.PurchaseOrder, error)
	PurchaseOrderState(ctx context.Context) purchaseorder.View

	ImportItems(ctx context.Context, candidates []importer.Candidate) ([]domain.InventoryItem, error)
	ApplyTransactions(ctx context.Context, source string, records []importer.Record) (int, error)

	Snapshot(ctx context.Context) domain.Snapshot
	Reset(ctx context.Context) error
}

// InsightService produces the dashboard insight text and interprets free
// text through the language model.
type InsightService interface {
	Insights(ctx context.Context) *Insight
	InterpretBulkText(ctx context.Context, text string) ([]importer.Candidate, error)
	InterpretCSV(ctx context.Context, csv string) ([]importer.Record, error)
}

// ListParams holds parameters for listing inventory
type ListParams struct {
	Search   string
	Category string
}

// AdjustOptions controls manual quantity adjustments. By default a manual
// adjustment does not write a ledger entry.
type AdjustOptions struct {
	Record bool
	Note   string
}

// TransactionFilter narrows the ledger listing. Zero values match all.
type TransactionFilter struct {
	ItemID string
	Type   domain.TransactionType
	Limit  int
}

// Dashboard bundles the derived dashboard figures
type Dashboard struct {
	Stats      domain.DashboardStats  `json:"stats"`
	Health     domain.StockHealth     `json:"stock_health"`
	Categories []domain.CategoryTotal `json:"categories"`
}

// ReorderReport is the reorder list with its total value
type ReorderReport struct {
	Candidates []reorder.Candidate `json:"candidates"`
	TotalValue decimal.Decimal     `json:"total_value"`
}

// Insight is the dashboard analysis text. Fallback is set when the text is
// one of the fixed messages instead of model output.
type Insight struct {
	Text        string    `json:"text"`
	Fallback    bool      `json:"fallback"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}
