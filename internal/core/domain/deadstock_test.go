package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/insyd/inventory-api/internal/core/domain"
)

func TestIsDeadStock(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	daysAgo := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }
	ptr := func(ts time.Time) *time.Time { return &ts }

	tests := []struct {
		name string
		item domain.Item
		want bool
	}{
		{
			name: "zero_quantity_never_dead",
			item: domain.Item{Quantity: 0, QuantitySold: 0, CreatedAt: daysAgo(200)},
			want: false,
		},
		{
			name: "never_sold_within_grace_period",
			item: domain.Item{Quantity: 5, QuantitySold: 0, CreatedAt: daysAgo(89)},
			want: false,
		},
		{
			name: "never_sold_past_grace_period",
			item: domain.Item{Quantity: 5, QuantitySold: 0, CreatedAt: daysAgo(100)},
			want: true,
		},
		{
			name: "recent_sale",
			item: domain.Item{
				Quantity: 5, QuantitySold: 20,
				CreatedAt: daysAgo(400), LastSoldDate: ptr(daysAgo(30)),
			},
			want: false,
		},
		{
			name: "sale_exactly_180_days_ago",
			item: domain.Item{
				Quantity: 5, QuantitySold: 20,
				CreatedAt: daysAgo(400), LastSoldDate: ptr(daysAgo(180)),
			},
			want: false,
		},
		{
			name: "stale_sale",
			item: domain.Item{
				Quantity: 5, QuantitySold: 20,
				CreatedAt: daysAgo(400), LastSoldDate: ptr(daysAgo(181)),
			},
			want: true,
		},
		{
			name: "no_last_sold_fast_mover",
			// 300 sold over the window: 10/day, 50 on hand clears in 5 days.
			item: domain.Item{Quantity: 50, QuantitySold: 300, CreatedAt: daysAgo(400)},
			want: false,
		},
		{
			name: "no_last_sold_slow_mover",
			// 1 sold: 0.033/day, 50 on hand is ~1500 days of stock.
			item: domain.Item{Quantity: 50, QuantitySold: 1, CreatedAt: daysAgo(400)},
			want: true,
		},
		{
			name: "no_last_sold_exactly_a_year_of_stock",
			// 30 sold: 1/day, 365 on hand is exactly 365 days. Not over.
			item: domain.Item{Quantity: 365, QuantitySold: 30, CreatedAt: daysAgo(400)},
			want: false,
		},
		{
			name: "no_last_sold_just_over_a_year_of_stock",
			item: domain.Item{Quantity: 366, QuantitySold: 30, CreatedAt: daysAgo(400)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsDeadStock(&tt.item, now))
		})
	}
}

func TestIsDeadStock_VelocityFloor(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// QuantitySold > 0 keeps salesPerDay above the 0.01 floor for any
	// realistic value, but the floor guards the division regardless.
	item := domain.Item{Quantity: 3, QuantitySold: 1, CreatedAt: now.Add(-10 * 24 * time.Hour)}

	// 1/30 per day, 3 on hand: 90 days of stock, well under a year.
	assert.False(t, domain.IsDeadStock(&item, now))
}
