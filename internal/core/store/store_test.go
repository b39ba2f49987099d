package store_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/test/helpers"
)

type stubLoader struct {
	snap  *domain.Snapshot
	found bool
	err   error
}

func (l stubLoader) Load(ctx context.Context) (*domain.Snapshot, bool, error) {
	return l.snap, l.found, l.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return helpers.NewTestStore(t)
}

func TestStore_LoadFallsBackToSeed(t *testing.T) {
	tests := []struct {
		name   string
		loader stubLoader
	}{
		{name: "nothing_persisted", loader: stubLoader{found: false}},
		{name: "nil_snapshot", loader: stubLoader{found: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, s.Load(context.Background(), tt.loader))

			snap := s.Snapshot()
			assert.Len(t, snap.Items, 3)
			assert.Empty(t, snap.Transactions)
		})
	}
}

func TestStore_LoadRestoresSnapshot(t *testing.T) {
	s := newTestStore(t)
	persisted := &domain.Snapshot{
		Items: []domain.InventoryItem{{ID: "x", SKU: "X-1", Name: "Chair", Quantity: 4}},
		Transactions: []domain.Transaction{
			{ID: "t2", ItemID: "x", Type: domain.TransactionOut, Quantity: 1},
			{ID: "t1", ItemID: "x", Type: domain.TransactionIn, Quantity: 5},
		},
	}

	require.NoError(t, s.Load(context.Background(), stubLoader{snap: persisted, found: true}))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Chair", snap.Items[0].Name)
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, "t2", snap.Transactions[0].ID)
}

func TestStore_LoadPropagatesError(t *testing.T) {
	s := newTestStore(t)
	err := s.Load(context.Background(), stubLoader{err: errors.New("disk on fire")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestStore_AdjustQuantityFloorsAtZeroWithoutLedgerEntry(t *testing.T) {
	tests := []struct {
		name     string
		delta    int
		expected int
	}{
		{name: "increment", delta: 1, expected: 3},
		{name: "decrement", delta: -1, expected: 1},
		{name: "large_decrement_clamps", delta: -50, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			err := s.Mutate(context.Background(), func(tx *store.Tx) error {
				_, ok := tx.AdjustQuantity("3", tt.delta)
				assert.True(t, ok)
				return nil
			})
			require.NoError(t, err)

			item, ok := s.Item("3")
			require.True(t, ok)
			assert.Equal(t, tt.expected, item.Quantity)
			assert.Equal(t, helpers.FixedTime, item.LastUpdated)
			assert.Empty(t, s.Transactions())
		})
	}
}

func TestStore_ApplyMovementRecordsAbsoluteQuantity(t *testing.T) {
	s := newTestStore(t)

	err := s.Mutate(context.Background(), func(tx *store.Tx) error {
		tx.ApplyMovement(store.Movement{ItemID: "3", Delta: -5, Type: domain.TransactionOut, Note: "sold"})
		return nil
	})
	require.NoError(t, err)

	item, _ := s.Item("3")
	assert.Equal(t, 0, item.Quantity)

	txs := s.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, 5, txs[0].Quantity)
	assert.Equal(t, domain.TransactionOut, txs[0].Type)
	assert.Equal(t, "Nike Air Jordan 1 Low", txs[0].ItemName)
	assert.Equal(t, "sold", txs[0].Note)
}

func TestStore_ExtremeDeltasKeepQuantitiesNonNegative(t *testing.T) {
	tests := []struct {
		name             string
		id               string
		delta            int
		typ              domain.TransactionType
		expectedQuantity int
		expectedLedger   int
	}{
		{name: "max_int_saturates", id: "1", delta: math.MaxInt, typ: domain.TransactionIn, expectedQuantity: math.MaxInt, expectedLedger: math.MaxInt},
		{name: "min_int_floors", id: "2", delta: math.MinInt, typ: domain.TransactionOut, expectedQuantity: 0, expectedLedger: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			require.NoError(t, s.Mutate(context.Background(), func(tx *store.Tx) error {
				tx.ApplyMovement(store.Movement{ItemID: tt.id, Delta: tt.delta, Type: tt.typ})
				return nil
			}))

			item, _ := s.Item(tt.id)
			assert.Equal(t, tt.expectedQuantity, item.Quantity)
			txs := s.Transactions()
			require.Len(t, txs, 1)
			assert.Equal(t, tt.expectedLedger, txs[0].Quantity)
		})
	}
}

func TestStore_BatchEntriesKeepRecordOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.ApplyMovement(store.Movement{ItemID: "2", Delta: 1, Type: domain.TransactionIn})
		return nil
	}))
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		for _, id := range []string{"1", "2", "3"} {
			tx.ApplyMovement(store.Movement{ItemID: id, Delta: 1, Type: domain.TransactionIn})
		}
		return nil
	}))

	var order []string
	for _, entry := range s.Transactions() {
		order = append(order, entry.ItemID)
	}
	assert.Equal(t, []string{"1", "2", "3", "2"}, order)
}

func TestStore_MutateErrorLeavesStateUntouched(t *testing.T) {
	s := newTestStore(t)
	before := s.Snapshot()

	err := s.Mutate(context.Background(), func(tx *store.Tx) error {
		tx.ApplyMovement(store.Movement{ItemID: "1", Delta: 10, Type: domain.TransactionIn})
		tx.Delete("2")
		return errors.New("abort")
	})
	require.Error(t, err)

	after := s.Snapshot()
	assert.Equal(t, before.Items, after.Items)
	assert.Empty(t, after.Transactions)
	assert.Equal(t, before.Version, after.Version)
}

func TestStore_CreateEnforcesUniqueSKU(t *testing.T) {
	s := newTestStore(t)

	err := s.Mutate(context.Background(), func(tx *store.Tx) error {
		_, err := tx.Create(domain.InventoryItem{SKU: "LOG-MXM-3S-BK", Name: "Duplicate"})
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSKUConflict)
	assert.Len(t, s.Items(), 3)
}

func TestStore_CreateAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	var created domain.InventoryItem
	err := s.Mutate(context.Background(), func(tx *store.Tx) error {
		var err error
		created, err = tx.Create(domain.InventoryItem{
			ID:    "ignored",
			SKU:   "IKEA-CHAIR",
			Name:  "Chair",
			Price: decimal.NewFromInt(45000),
		})
		return err
	})
	require.NoError(t, err)

	assert.NotEqual(t, "ignored", created.ID)
	assert.Equal(t, helpers.FixedTime, created.LastUpdated)
	assert.Equal(t, domain.CategoryOthers, created.Category)

	got, ok := s.Item(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Chair", got.Name)
}

func TestStore_UpdateAndDeleteUnknownIDAreNoOps(t *testing.T) {
	s := newTestStore(t)
	var updated, deleted bool

	err := s.Mutate(context.Background(), func(tx *store.Tx) error {
		var err error
		_, updated, err = tx.Update("missing", domain.InventoryItem{Name: "Ghost"})
		deleted = tx.Delete("missing")
		return err
	})
	require.NoError(t, err)

	assert.False(t, updated)
	assert.False(t, deleted)
	assert.Equal(t, uint64(0), s.Version(), "no-op mutations do not bump the version")
}

func TestStore_UpdatePreservesID(t *testing.T) {
	s := newTestStore(t)

	err := s.Mutate(context.Background(), func(tx *store.Tx) error {
		item, _ := tx.Item("2")
		item.ID = "other"
		item.Name = "MX Master 4"
		_, ok, err := tx.Update("2", item)
		assert.True(t, ok)
		return err
	})
	require.NoError(t, err)

	item, ok := s.Item("2")
	require.True(t, ok)
	assert.Equal(t, "MX Master 4", item.Name)
	_, ok = s.Item("other")
	assert.False(t, ok)
}

func TestStore_DeleteKeepsLedgerHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.ApplyMovement(store.Movement{ItemID: "2", Delta: 5, Type: domain.TransactionIn})
		return nil
	}))
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.Delete("2")
		return nil
	}))

	_, ok := s.Item("2")
	assert.False(t, ok)
	txs := s.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "2", txs[0].ItemID)
}

func TestStore_SubscribeNotifiesAfterCommit(t *testing.T) {
	s := newTestStore(t)
	var seen []uint64

	unsubscribe := s.Subscribe(func(ctx context.Context, snap store.Snapshot) {
		seen = append(seen, snap.Version)
	})

	ctx := context.Background()
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.AdjustQuantity("1", 1)
		return nil
	}))
	_ = s.Mutate(ctx, func(tx *store.Tx) error { return errors.New("rejected") })

	unsubscribe()
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.AdjustQuantity("1", 1)
		return nil
	}))

	assert.Equal(t, []uint64{1}, seen)
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := newTestStore(t)

	snap := s.Snapshot()
	snap.Items[0].Quantity = 999

	item, _ := s.Item(snap.Items[0].ID)
	assert.Equal(t, 15, item.Quantity)
}

func TestStore_ResetClearsLedger(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.ApplyMovement(store.Movement{ItemID: "1", Delta: 1, Type: domain.TransactionIn})
		return nil
	}))
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.Reset(domain.SeedItems(time.Now()))
		return nil
	}))

	assert.Empty(t, s.Transactions())
	assert.Len(t, s.Items(), 3)
}

func TestStore_ConcurrentMutationsAreSerialized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	done := make(chan error, 50)
	for i := 0; i < 50; i++ {
		go func(n int) {
			done <- s.Mutate(ctx, func(tx *store.Tx) error {
				tx.ApplyMovement(store.Movement{
					ItemID: "1",
					Delta:  1,
					Type:   domain.TransactionIn,
					Note:   fmt.Sprintf("batch %d", n),
				})
				return nil
			})
		}(i)
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, <-done)
	}

	item, _ := s.Item("1")
	assert.Equal(t, 65, item.Quantity)
	assert.Len(t, s.Transactions(), 50)
	assert.Equal(t, uint64(50), s.Version())
}
