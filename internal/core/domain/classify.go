// internal/core/domain/classify.go
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ValueMetric selects which per-item value the ABC classifier ranks by.
type ValueMetric string

const (
	// MetricRevenue ranks by lifetime revenue (unit price * units sold).
	MetricRevenue ValueMetric = "revenue"
	// MetricOnHand ranks by current stock value (unit price * quantity).
	MetricOnHand ValueMetric = "on_hand"
)

var (
	hundred = decimal.NewFromInt(100)
	paretoA = decimal.NewFromInt(80)
	paretoB = decimal.NewFromInt(95)
)

func itemValue(item *Item, metric ValueMetric) decimal.Decimal {
	if metric == MetricOnHand {
		return item.OnHandValue()
	}
	return item.Revenue()
}

// Classify assigns an ABC value class and the dead-stock flag to every
// item and returns the enriched copies in the original input order.
//
// Items are ranked by the chosen value metric, highest first, with ties
// keeping input order. Walking the ranking, items within the first 80% of
// cumulative value are class A, within 95% class B, and the tail class C.
// When total value is zero every item is class C. After the ranking pass,
// dead-stock items are downgraded one class (A to B, B to C).
//
// TotalValue is always the on-hand value regardless of metric, matching
// what the dashboard displays next to the class.
func Classify(items []Item, metric ValueMetric, now time.Time) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	values := make([]decimal.Decimal, len(out))
	total := decimal.Zero
	for i := range out {
		values[i] = itemValue(&out[i], metric)
		total = total.Add(values[i])
	}

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]].GreaterThan(values[order[b]])
	})

	cumulative := decimal.Zero
	for _, idx := range order {
		if total.IsZero() {
			out[idx].ValueClass = ClassC
			continue
		}
		cumulative = cumulative.Add(values[idx])
		pct := cumulative.Div(total).Mul(hundred)
		switch {
		case pct.LessThanOrEqual(paretoA):
			out[idx].ValueClass = ClassA
		case pct.LessThanOrEqual(paretoB):
			out[idx].ValueClass = ClassB
		default:
			out[idx].ValueClass = ClassC
		}
	}

	for i := range out {
		out[i].TotalValue = out[i].OnHandValue()
		out[i].IsDeadStock = IsDeadStock(&out[i], now)
		if out[i].IsDeadStock {
			out[i].ValueClass = downgrade(out[i].ValueClass)
		}
	}

	return out
}

func downgrade(c ValueClass) ValueClass {
	switch c {
	case ClassA:
		return ClassB
	case ClassB:
		return ClassC
	default:
		return ClassC
	}
}
