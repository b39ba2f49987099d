//go:build integration

package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/adapters/db"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/test/helpers"
)

func TestSnapshotRepository_RoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := helpers.SetupTestDB(t)
	defer testDB.Database.Close()

	repo := db.NewSnapshotRepository(testDB.Database.SQL(), helpers.TestLogger())
	ctx := context.Background()

	_, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	snap := domain.Snapshot{
		Items: domain.SeedItems(helpers.FixedTime),
		Transactions: []domain.Transaction{
			{ID: "t2", ItemID: "3", ItemName: "Nike Air Force 1", Type: domain.TransactionOut, Quantity: 1, Timestamp: helpers.FixedTime},
			{ID: "t1", ItemID: "gone", ItemName: "Removed", Type: domain.TransactionIn, Quantity: 4, Timestamp: helpers.FixedTime},
		},
	}
	require.NoError(t, repo.Save(ctx, snap))

	loaded, found, err := repo.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, loaded.Items, len(snap.Items))
	for i := range snap.Items {
		assert.Equal(t, snap.Items[i].ID, loaded.Items[i].ID)
		assert.True(t, snap.Items[i].Price.Equal(loaded.Items[i].Price))
		assert.True(t, snap.Items[i].LastUpdated.Equal(loaded.Items[i].LastUpdated))
	}
	assert.Equal(t, snap.Transactions[0].ID, loaded.Transactions[0].ID)
	assert.Equal(t, "gone", loaded.Transactions[1].ItemID)

	snap.Items = snap.Items[:1]
	snap.Transactions = nil
	require.NoError(t, repo.Save(ctx, snap))

	loaded, _, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 1)
	assert.Empty(t, loaded.Transactions)
}
