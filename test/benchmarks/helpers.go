// test/benchmarks/helpers.go
package benchmarks

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insyd/inventory-api/internal/core/domain"
)

var benchCategories = []string{"Cement", "Steel", "Tiles", "Paint", "Plumbing", "Electrical", "Hardware"}

// buildBenchmarkItems generates n items with spread-out prices, ages, and
// sales counters so the classifier and dead stock paths all get exercised.
func buildBenchmarkItems(n int, now time.Time) []domain.Item {
	items := make([]domain.Item, n)
	for i := 0; i < n; i++ {
		createdAt := now.AddDate(0, 0, -(30 + i%400))

		item := domain.Item{
			ID:           uuid.New(),
			Name:         fmt.Sprintf("Benchmark Item %d", i),
			SKU:          fmt.Sprintf("BENCH-%05d", i),
			Category:     benchCategories[i%len(benchCategories)],
			Quantity:     10 + i%500,
			UnitPrice:    decimal.NewFromInt(int64(20 + i%2000)),
			ReorderPoint: 10,
			QuantitySold: (i % 7) * (i % 50),
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		}

		if item.QuantitySold > 0 {
			lastSold := now.AddDate(0, 0, -(i % 200))
			item.LastSoldDate = &lastSold
		}

		items[i] = item
	}
	return items
}

// buildBenchmarkTransactions generates a movement log matching n items.
func buildBenchmarkTransactions(items []domain.Item, now time.Time) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(items)*2)
	for i := range items {
		txs = append(txs, domain.NewTransaction(items[i].ID, domain.TransactionAdd,
			items[i].Quantity+items[i].QuantitySold, "Initial stock", items[i].CreatedAt))
		if items[i].QuantitySold > 0 {
			txs = append(txs, domain.NewTransaction(items[i].ID, domain.TransactionSale,
				items[i].QuantitySold, "", now.AddDate(0, 0, -(i%200))))
		}
	}
	return txs
}
