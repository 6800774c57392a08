package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insyd/inventory-api/internal/core/domain"
)

func TestSummarize_EmptyDataset(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := domain.Summarize(nil, nil, domain.MetricRevenue, now)

	assert.Equal(t, 0, a.TotalItems)
	assert.True(t, a.TotalValue.IsZero())
	assert.Equal(t, 0, a.LowStockCount)
	assert.Empty(t, a.LowStockItems)
	assert.Equal(t, 0, a.DeadStockCount)
	assert.Equal(t, domain.ABCDistribution{}, a.ABCDistribution)
	assert.Empty(t, a.CategoryDistribution)
	assert.Empty(t, a.RecentTransactions)
	assert.Equal(t, "N/A", a.TurnoverRatio)
	assert.Equal(t, now, a.GeneratedAt)
}

func TestSummarize_Aggregates(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := freshItem("cement", 80, 10, 5)
	a.Category = "Cement"
	a.ReorderPoint = 10 // quantity 5 <= 10, low stock
	b := freshItem("steel", 15, 10, 20)
	b.Category = "Steel"
	b.ReorderPoint = 5
	c := freshItem("tiles", 5, 10, 20)
	c.Category = "Cement" // same bucket as a
	c.ReorderPoint = 5

	summary := domain.Summarize([]domain.Item{a, b, c}, nil, domain.MetricRevenue, now)

	assert.Equal(t, 3, summary.TotalItems)
	// 5*80 + 20*15 + 20*5 = 800
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(800)),
		"got totalValue %s", summary.TotalValue)

	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "cement", summary.LowStockItems[0].Name)
	assert.Equal(t, 1, summary.LowStockCount)

	assert.Equal(t, map[string]int{"Cement": 2, "Steel": 1}, summary.CategoryDistribution)

	// Distribution counts cover every item.
	total := summary.ABCDistribution.A + summary.ABCDistribution.B + summary.ABCDistribution.C
	assert.Equal(t, summary.TotalItems, total)
	assert.Len(t, summary.Items, 3)

	// 30 sold over average stock of 15.
	assert.Equal(t, "2.0", summary.TurnoverRatio)
}

func TestSummarize_TurnoverSentinel(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Single item, zero on hand: average quantity is zero.
	item := freshItem("cement", 80, 10, 0)

	summary := domain.Summarize([]domain.Item{item}, nil, domain.MetricRevenue, now)

	assert.Equal(t, "N/A", summary.TurnoverRatio)
}

func TestSummarize_DeadStockCount(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	stale := now.Add(-200 * 24 * time.Hour)

	a := freshItem("fresh", 80, 10, 5)
	b := freshItem("stale", 15, 10, 5)
	b.LastSoldDate = &stale

	summary := domain.Summarize([]domain.Item{a, b}, nil, domain.MetricRevenue, now)

	assert.Equal(t, 1, summary.DeadStockCount)
}

func TestSummarize_RecentTransactions(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	itemID := uuid.New()

	txs := make([]domain.Transaction, 0, 15)
	for i := 0; i < 15; i++ {
		txs = append(txs, domain.NewTransaction(
			itemID, domain.TransactionSale, i+1, "", now.Add(time.Duration(i)*time.Minute)))
	}

	summary := domain.Summarize(nil, txs, domain.MetricRevenue, now)

	require.Len(t, summary.RecentTransactions, 10)
	// Most recent first.
	assert.Equal(t, 15, summary.RecentTransactions[0].Quantity)
	assert.Equal(t, 6, summary.RecentTransactions[9].Quantity)
}

func TestRecentTransactions_FewerThanN(t *testing.T) {
	now := time.Now()
	txs := []domain.Transaction{
		domain.NewTransaction(uuid.New(), domain.TransactionAdd, 5, "", now),
		domain.NewTransaction(uuid.New(), domain.TransactionSale, 2, "", now.Add(time.Minute)),
	}

	recent := domain.RecentTransactions(txs, 10)

	require.Len(t, recent, 2)
	assert.Equal(t, domain.TransactionSale, recent[0].Type)
	assert.Equal(t, domain.TransactionAdd, recent[1].Type)
}

func TestTransaction_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		tx        domain.Transaction
		wantError bool
	}{
		{"valid_add", domain.NewTransaction(uuid.New(), domain.TransactionAdd, 5, "Initial stock", now), false},
		{"valid_sale", domain.NewTransaction(uuid.New(), domain.TransactionSale, 1, "", now), false},
		{"invalid_type", domain.Transaction{Type: "TRANSFER", Quantity: 1}, true},
		{"zero_quantity", domain.Transaction{Type: domain.TransactionSale, Quantity: 0}, true},
		{"negative_quantity", domain.Transaction{Type: domain.TransactionRestock, Quantity: -4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
