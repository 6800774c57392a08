// internal/core/domain/deadstock.go
package domain

import "time"

// Dead-stock heuristic thresholds
const (
	neverSoldGracePeriod = 90 * 24 * time.Hour
	staleSalePeriod      = 180 * 24 * time.Hour
	maxDaysOfStock       = 365.0
	velocityWindowDays   = 30.0
	minSalesPerDay       = 0.01
)

// IsDeadStock reports whether the item should be flagged as dead stock at
// the given reference time. Rules apply in order:
//
//  1. Nothing on hand is never dead stock.
//  2. Never sold: dead once the item is older than 90 days.
//  3. Sold before, with a known last sale: dead once the last sale is more
//     than 180 days old.
//  4. Otherwise estimate velocity from lifetime sales over a 30-day window,
//     floored at 0.01 units/day, and flag when the current stock would take
//     more than a year to clear.
func IsDeadStock(item *Item, now time.Time) bool {
	if item.Quantity == 0 {
		return false
	}

	if item.QuantitySold == 0 {
		return now.Sub(item.CreatedAt) > neverSoldGracePeriod
	}

	if item.LastSoldDate != nil {
		return now.Sub(*item.LastSoldDate) > staleSalePeriod
	}

	salesPerDay := float64(item.QuantitySold) / velocityWindowDays
	if salesPerDay < minSalesPerDay {
		salesPerDay = minSalesPerDay
	}
	daysOfStock := float64(item.Quantity) / salesPerDay
	return daysOfStock > maxDaysOfStock
}
