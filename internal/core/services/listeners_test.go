package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
	"github.com/ammerola/smartstock-be/test/helpers"
	"github.com/ammerola/smartstock-be/test/mocks"
)

func TestPersister_SavesEveryCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSnapshotStore(ctrl)
	target.EXPECT().Name().Return("mock").AnyTimes()

	var saved []domain.Snapshot
	target.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, snap domain.Snapshot) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			saved = append(saved, snap)
			return nil
		}).
		Times(2)

	s := helpers.NewTestStore(t)
	p := services.NewPersister(target, time.Second, helpers.TestLogger())
	s.Subscribe(p.OnCommit)

	ctx := context.Background()
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.ApplyMovement(store.Movement{ItemID: "2", Delta: 5, Type: domain.TransactionIn})
		return nil
	}))
	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.Delete("1")
		return nil
	}))

	require.Len(t, saved, 2)
	assert.Len(t, saved[0].Transactions, 1)
	assert.Len(t, saved[1].Items, 2)
}

func TestPersister_SurvivesCancelledRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSnapshotStore(ctrl)
	target.EXPECT().Name().Return("mock").AnyTimes()
	target.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.Snapshot) error {
			assert.NoError(t, ctx.Err(), "save must outlive the request context")
			return ctx.Err()
		})

	p := services.NewPersister(target, time.Second, helpers.TestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.OnCommit(ctx, store.Snapshot{Version: 1})
}

func TestPersister_SkipsStaleVersions(t *testing.T) {
	ctrl := gomock.NewController(t)
	target := mocks.NewMockSnapshotStore(ctrl)
	target.EXPECT().Name().Return("mock").AnyTimes()

	gomock.InOrder(
		target.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
		target.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
		target.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil),
	)

	p := services.NewPersister(target, time.Second, helpers.TestLogger())
	ctx := context.Background()

	p.OnCommit(ctx, store.Snapshot{Version: 2})
	p.OnCommit(ctx, store.Snapshot{Version: 1})
	p.OnCommit(ctx, store.Snapshot{Version: 3})
	p.OnCommit(ctx, store.Snapshot{Version: 3})
}

func TestLedgerMetrics_CountsNewEntries(t *testing.T) {
	m := metrics.New(nil)
	s := helpers.NewTestStore(t)
	lm := services.NewLedgerMetrics(m, s.Transactions())
	s.Subscribe(lm.OnCommit)

	ctx := context.Background()
	move := func(id string, delta int, typ domain.TransactionType) {
		require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
			tx.ApplyMovement(store.Movement{ItemID: id, Delta: delta, Type: typ})
			return nil
		}))
	}

	move("2", 5, domain.TransactionIn)
	move("3", -1, domain.TransactionOut)
	move("2", 2, domain.TransactionIn)

	require.NoError(t, s.Mutate(ctx, func(tx *store.Tx) error {
		tx.Reset(domain.SeedItems(tx.Now()))
		return nil
	}))
	move("1", -2, domain.TransactionOut)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerEntries.WithLabelValues("IN")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerEntries.WithLabelValues("OUT")))
}
