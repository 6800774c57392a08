// internal/core/domain/analytics.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ABCDistribution counts items per value class.
type ABCDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
}

// Analytics is the aggregate dashboard view of the inventory. All fields
// are derived from the current dataset; nothing here is persisted.
type Analytics struct {
	TotalItems           int             `json:"totalItems"`
	TotalValue           decimal.Decimal `json:"totalValue"`
	LowStockCount        int             `json:"lowStockCount"`
	LowStockItems        []Item          `json:"lowStockItems"`
	DeadStockCount       int             `json:"deadStockCount"`
	ABCDistribution      ABCDistribution `json:"abcDistribution"`
	CategoryDistribution map[string]int  `json:"categoryDistribution"`
	RecentTransactions   []Transaction   `json:"recentTransactions"`
	TurnoverRatio        string          `json:"turnoverRatio"`
	Items                []Item          `json:"items"`
	GeneratedAt          time.Time       `json:"generatedAt"`
}

// turnoverUndefined is the sentinel reported when the turnover ratio has
// no meaningful value (no items, or zero average stock).
const turnoverUndefined = "N/A"

// Summarize computes the dashboard analytics over the full dataset at the
// given reference time. Items are classified first, so the distributions
// reflect dead-stock downgrades. Empty input yields zero counts and the
// "N/A" turnover sentinel, never a division by zero.
func Summarize(items []Item, txs []Transaction, metric ValueMetric, now time.Time) Analytics {
	classified := Classify(items, metric, now)

	a := Analytics{
		TotalItems:           len(classified),
		TotalValue:           decimal.Zero,
		LowStockItems:        []Item{},
		CategoryDistribution: make(map[string]int),
		RecentTransactions:   RecentTransactions(txs, 10),
		TurnoverRatio:        turnoverUndefined,
		Items:                classified,
		GeneratedAt:          now,
	}

	totalSold := 0
	totalQuantity := 0
	for i := range classified {
		item := &classified[i]
		a.TotalValue = a.TotalValue.Add(item.TotalValue)
		if item.IsLowStock() {
			a.LowStockItems = append(a.LowStockItems, *item)
		}
		if item.IsDeadStock {
			a.DeadStockCount++
		}
		switch item.ValueClass {
		case ClassA:
			a.ABCDistribution.A++
		case ClassB:
			a.ABCDistribution.B++
		case ClassC:
			a.ABCDistribution.C++
		}
		a.CategoryDistribution[item.Category]++
		totalSold += item.QuantitySold
		totalQuantity += item.Quantity
	}
	a.LowStockCount = len(a.LowStockItems)

	if len(classified) > 0 && totalQuantity > 0 {
		avgStock := decimal.NewFromInt(int64(totalQuantity)).
			Div(decimal.NewFromInt(int64(len(classified))))
		ratio := decimal.NewFromInt(int64(totalSold)).Div(avgStock)
		a.TurnoverRatio = ratio.StringFixed(1)
	}

	return a
}
