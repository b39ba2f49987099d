package importer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/store"
	"github.com/ammerola/smartstock-be/test/helpers"
)

// sequence returns the given draws in order, repeating the last one.
func sequence(draws ...int) func(int) int {
	i := 0
	return func(int) int {
		n := draws[min(i, len(draws)-1)]
		i++
		return n
	}
}

func newImporter(t *testing.T, draws ...int) (*importer.Importer, *store.Store) {
	t.Helper()
	if len(draws) == 0 {
		draws = []int{42}
	}
	s := helpers.NewTestStore(t)
	return importer.New(s, helpers.TestLogger(), importer.WithRand(sequence(draws...))), s
}

func TestBuildItem_Defaults(t *testing.T) {
	item := importer.BuildItem(importer.Candidate{Name: "Desk Lamp", Quantity: 4, Category: "lighting"})

	assert.Equal(t, "Unknown", item.Brand)
	assert.Equal(t, "-", item.Size)
	assert.Equal(t, "-", item.Color)
	assert.Equal(t, domain.CategoryOthers, item.Category)
	assert.Equal(t, 5, item.MinQuantity)
	assert.Equal(t, 14, item.OptimalQuantity)
	assert.Equal(t, "Storage", item.Location)
	assert.True(t, item.Price.IsZero())
	assert.Empty(t, item.SKU)
}

func TestBuildItem_KeepsSuppliedFields(t *testing.T) {
	item := importer.BuildItem(importer.Candidate{
		SKU:      " SAM-T7 ",
		Brand:    "Samsung",
		Name:     "T7 SSD",
		Size:     "1TB",
		Color:    "Blue",
		Category: "electronics",
		Quantity: 7,
		Price:    decimal.NewFromInt(129000),
		Location: "Shelf D4",
	})

	assert.Equal(t, "SAM-T7", item.SKU)
	assert.Equal(t, domain.CategoryElectronics, item.Category)
	assert.Equal(t, 17, item.OptimalQuantity)
	assert.Equal(t, "Shelf D4", item.Location)
}

func TestSKUPrefix(t *testing.T) {
	tests := []struct {
		name     string
		brand    string
		expected string
	}{
		{name: "long_brand", brand: "logitech", expected: "LOG"},
		{name: "short_brand", brand: "hp", expected: "HP"},
		{name: "multibyte_runes", brand: "삼성전자", expected: "삼성전"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, importer.SKUPrefix(tt.brand))
		})
	}
}

func TestImporter_ImportItems(t *testing.T) {
	imp, s := newImporter(t, 42)

	created, err := imp.ImportItems(context.Background(), []importer.Candidate{
		{Brand: "Samsung", Name: "T7 SSD", Quantity: 3, Price: decimal.NewFromInt(129000)},
		{Brand: "Sony", Name: "  "},
	})
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, "SAM-42", created[0].SKU)
	assert.Equal(t, helpers.FixedTime, created[0].LastUpdated)
	assert.Len(t, s.Items(), 4)
	assert.Empty(t, s.Transactions())
	assert.Equal(t, uint64(1), s.Version())
}

func TestImporter_ImportItemsRedrawsCollidingSKU(t *testing.T) {
	imp, _ := newImporter(t, 7, 7, 8)

	created, err := imp.ImportItems(context.Background(), []importer.Candidate{
		{Brand: "Logitech", Name: "K380"},
		{Brand: "Logitech", Name: "M720"},
	})
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.Equal(t, "LOG-7", created[0].SKU)
	assert.Equal(t, "LOG-8", created[1].SKU)
}

func TestImporter_ImportItemsFails(t *testing.T) {
	tests := []struct {
		name          string
		draws         []int
		candidates    []importer.Candidate
		expectedError error
	}{
		{
			name:          "supplied_sku_conflict",
			draws:         []int{1},
			candidates:    []importer.Candidate{{Name: "A"}, {SKU: "LOG-MXM-3S-BK", Name: "Clone"}},
			expectedError: domain.ErrSKUConflict,
		},
		{
			name:          "generated_sku_exhausted",
			draws:         []int{3},
			candidates:    []importer.Candidate{{Brand: "Acme", Name: "A"}, {Brand: "Acme", Name: "B"}},
			expectedError: domain.ErrSKUConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, s := newImporter(t, tt.draws...)

			_, err := imp.ImportItems(context.Background(), tt.candidates)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.Len(t, s.Items(), 3, "batch must be all-or-nothing")
			assert.Equal(t, uint64(0), s.Version())
		})
	}
}

func TestImporter_ApplyTransactions(t *testing.T) {
	imp, s := newImporter(t)

	updated, err := imp.ApplyTransactions(context.Background(), "stock.csv", []importer.Record{
		{SKU: "LOG-MXM-3S-BK", Type: domain.TransactionIn, Quantity: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, updated)
	item, _ := s.Item("2")
	assert.Equal(t, 13, item.Quantity)

	txs := s.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TransactionIn, txs[0].Type)
	assert.Equal(t, 5, txs[0].Quantity)
	assert.Equal(t, "bulk update (stock.csv)", txs[0].Note)
}

func TestImporter_ApplyTransactionsMatchingRules(t *testing.T) {
	imp, s := newImporter(t)

	updated, err := imp.ApplyTransactions(context.Background(), "scan", []importer.Record{
		{Name: "Air Jordan 1 Low", Type: "out", Quantity: 10},
		{SKU: "NOPE", Type: domain.TransactionIn, Quantity: 1},
		{SKU: "APP-MBP-14-GR", Type: domain.TransactionAdjust, Quantity: 3},
		{SKU: "APP-MBP-14-GR", Type: domain.TransactionOut, Quantity: -2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated)
	nike, _ := s.Item("3")
	assert.Equal(t, 0, nike.Quantity, "OUT floors at zero")
	mac, _ := s.Item("1")
	assert.Equal(t, 13, mac.Quantity)

	txs := s.Transactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "3", txs[0].ItemID, "batch keeps record order")
	assert.Equal(t, 10, txs[0].Quantity)
	assert.Equal(t, "1", txs[1].ItemID)
	assert.Equal(t, 2, txs[1].Quantity)
}

func TestImporter_ApplyTransactionsWithoutMatchesDoesNotMutate(t *testing.T) {
	imp, s := newImporter(t)

	updated, err := imp.ApplyTransactions(context.Background(), "empty", []importer.Record{
		{SKU: "UNKNOWN", Type: domain.TransactionIn, Quantity: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, updated)
	assert.Equal(t, uint64(0), s.Version())
	assert.Empty(t, s.Transactions())
}
