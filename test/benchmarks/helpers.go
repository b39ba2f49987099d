// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/importer"
	"github.com/ammerola/smartstock-be/internal/core/purchaseorder"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/pkg/metrics"
	"github.com/ammerola/smartstock-be/test/helpers"
)

var benchCategories = []domain.ItemCategory{
	domain.CategoryElectronics,
	domain.CategoryAccessories,
	domain.CategoryFashion,
}

// benchmarkItems builds n items; every third one is below its minimum
func benchmarkItems(n int) []domain.InventoryItem {
	items := make([]domain.InventoryItem, n)
	for i := range items {
		items[i] = helpers.CreateTestItem(func(item *domain.InventoryItem) {
			item.ID = fmt.Sprintf("bench-%d", i)
			item.SKU = fmt.Sprintf("BEN-%05d", i)
			item.Name = fmt.Sprintf("Benchmark Item %d", i)
			item.Category = benchCategories[i%len(benchCategories)]
			item.Quantity = 20
			if i%3 == 0 {
				item.Quantity = 2
			}
			item.MinQuantity = 5
			item.OptimalQuantity = 30
			item.Price = decimal.NewFromInt(int64(1000 + i))
		})
	}
	return items
}

// newBenchmarkService returns a service over a store holding n items
func newBenchmarkService(b *testing.B, n int) *services.InventoryService {
	b.Helper()

	st := helpers.NewTestStore(b)
	logger := helpers.TestLogger()
	if err := st.Load(context.Background(), helpers.StaticLoader(domain.Snapshot{Items: benchmarkItems(n)})); err != nil {
		b.Fatalf("failed to load store: %v", err)
	}

	builder := purchaseorder.NewBuilder(st, logger)
	b.Cleanup(builder.Close)

	return services.NewInventoryService(st, builder, importer.New(st, logger), metrics.New(nil), logger)
}
