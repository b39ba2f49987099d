// internal/adapters/db/snapshot_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
)

const insertChunkSize = 500

var (
	itemColumns = []string{
		"position", "id", "sku", "brand", "name", "size", "color", "category",
		"quantity", "min_quantity", "optimal_quantity", "price", "location", "last_updated",
	}
	transactionColumns = []string{
		"position", "id", "item_id", "item_name", "type", "quantity", "timestamp", "note",
	}
)

// SnapshotRepository persists the full item and ledger collections. Each
// Save replaces both tables inside one SQL transaction.
type SnapshotRepository struct {
	db     *sql.DB
	psql   squirrel.StatementBuilderType
	now    func() time.Time
	logger *slog.Logger
}

// Statically assert that *SnapshotRepository implements the SnapshotStore interface.
var _ ports.SnapshotStore = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB, logger *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     db,
		psql:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now:    time.Now,
		logger: logger.With(slog.String("component", "snapshot_repository")),
	}
}

// Name identifies the backend in logs
func (r *SnapshotRepository) Name() string {
	return "postgres"
}

// Load reads the persisted snapshot. found is false until the first Save.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, bool, error) {
	countSQL, countArgs, err := r.psql.Select("COUNT(*)").From("snapshot_meta").ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build meta query: %w", err)
	}

	var saved int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&saved); err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot meta: %w", err)
	}
	if saved == 0 {
		return nil, false, nil
	}

	items, err := r.loadItems(ctx)
	if err != nil {
		return nil, false, err
	}

	transactions, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, false, err
	}

	r.logger.InfoContext(ctx, "snapshot loaded",
		slog.Int("items", len(items)),
		slog.Int("transactions", len(transactions)))

	return &domain.Snapshot{Items: items, Transactions: transactions}, true, nil
}

func (r *SnapshotRepository) loadItems(ctx context.Context) ([]domain.InventoryItem, error) {
	query, args, err := r.psql.Select(itemColumns[1:]...).From("items").OrderBy("position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build items query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		var (
			item     domain.InventoryItem
			category string
		)
		if err := rows.Scan(
			&item.ID, &item.SKU, &item.Brand, &item.Name, &item.Size, &item.Color, &category,
			&item.Quantity, &item.MinQuantity, &item.OptimalQuantity, &item.Price,
			&item.Location, &item.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Category = domain.ItemCategory(category)
		item.LastUpdated = item.LastUpdated.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func (r *SnapshotRepository) loadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query, args, err := r.psql.Select(transactionColumns[1:]...).From("transactions").OrderBy("position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transactions query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t   domain.Transaction
			typ string
		)
		if err := rows.Scan(&t.ID, &t.ItemID, &t.ItemName, &typ, &t.Quantity, &t.Timestamp, &t.Note); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		t.Timestamp = t.Timestamp.UTC()
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

// Save replaces the persisted snapshot atomically
func (r *SnapshotRepository) Save(ctx context.Context, snap domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := r.replace(ctx, tx, snap); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "snapshot saved",
		slog.Int("items", len(snap.Items)),
		slog.Int("transactions", len(snap.Transactions)))
	return nil
}

func (r *SnapshotRepository) replace(ctx context.Context, tx *sql.Tx, snap domain.Snapshot) error {
	for _, table := range []string{"items", "transactions"} {
		query, args, err := r.psql.Delete(table).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for start := 0; start < len(snap.Items); start += insertChunkSize {
		end := min(start+insertChunkSize, len(snap.Items))
		qb := r.psql.Insert("items").Columns(itemColumns...)
		for i, item := range snap.Items[start:end] {
			qb = qb.Values(
				start+i, item.ID, item.SKU, item.Brand, item.Name, item.Size, item.Color, string(item.Category),
				item.Quantity, item.MinQuantity, item.OptimalQuantity, item.Price, item.Location, item.LastUpdated,
			)
		}
		if err := r.exec(ctx, tx, qb); err != nil {
			return fmt.Errorf("failed to insert items: %w", err)
		}
	}

	for start := 0; start < len(snap.Transactions); start += insertChunkSize {
		end := min(start+insertChunkSize, len(snap.Transactions))
		qb := r.psql.Insert("transactions").Columns(transactionColumns...)
		for i, t := range snap.Transactions[start:end] {
			qb = qb.Values(start+i, t.ID, t.ItemID, t.ItemName, string(t.Type), t.Quantity, t.Timestamp, t.Note)
		}
		if err := r.exec(ctx, tx, qb); err != nil {
			return fmt.Errorf("failed to insert transactions: %w", err)
		}
	}

	meta := r.psql.Insert("snapshot_meta").
		Columns("id", "saved_at", "item_count", "transaction_count").
		Values(1, r.now().UTC(), len(snap.Items), len(snap.Transactions)).
		Suffix("ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at, " +
			"item_count = EXCLUDED.item_count, transaction_count = EXCLUDED.transaction_count")
	if err := r.exec(ctx, tx, meta); err != nil {
		return fmt.Errorf("failed to update snapshot meta: %w", err)
	}

	return nil
}

func (r *SnapshotRepository) exec(ctx context.Context, tx *sql.Tx, qb squirrel.InsertBuilder) error {
	query, args, err := qb.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
