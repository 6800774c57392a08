// internal/core/domain/item.go
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain sentinel errors
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValueClass represents the ABC classification bucket of an item.
// A items carry most of the tracked value, C items the least.
type ValueClass string

const (
	ClassA ValueClass = "A"
	ClassB ValueClass = "B"
	ClassC ValueClass = "C"
)

// Item represents a single tracked inventory item. The wire format is
// camelCase to stay compatible with the existing dashboard clients.
type Item struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ReorderPoint int             `json:"reorderPoint"`
	Supplier     string          `json:"supplier,omitempty"`
	Location     string          `json:"location,omitempty"`
	QuantitySold int             `json:"quantitySold"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	LastSoldDate *time.Time      `json:"lastSoldDate,omitempty"`

	// Derived fields, recomputed on every read and never persisted.
	TotalValue  decimal.Decimal `json:"totalValue"`
	ValueClass  ValueClass      `json:"valueClass"`
	IsDeadStock bool            `json:"isDeadStock"`
}

// Validate performs domain validation on the item
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if i.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if i.UnitPrice.IsNegative() {
		return fmt.Errorf("unitPrice cannot be negative")
	}
	if i.ReorderPoint < 0 {
		return fmt.Errorf("reorderPoint cannot be negative")
	}
	if i.QuantitySold < 0 {
		return fmt.Errorf("quantitySold cannot be negative")
	}
	return nil
}

// Revenue returns unit price times lifetime units sold.
func (i *Item) Revenue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.QuantitySold)))
}

// OnHandValue returns unit price times quantity currently in stock.
func (i *Item) OnHandValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsLowStock reports whether the item has fallen to its reorder point.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.ReorderPoint
}

// PrepareForStorage fills in identity and timestamps for a new item
func (i *Item) PrepareForStorage(now time.Time) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// Settings holds the tenant-level configuration stored alongside the
// inventory: the category list offered to clients and the reorder point
// applied to new items that do not specify one.
type Settings struct {
	Categories          []string `json:"categories"`
	DefaultReorderPoint int      `json:"defaultReorderPoint"`
}

// DefaultSettings returns the settings seeded into a fresh data file.
func DefaultSettings() Settings {
	return Settings{
		Categories: []string{
			"Cement",
			"Steel",
			"Tiles",
			"Paint",
			"Plumbing",
			"Electrical",
			"Hardware",
		},
		DefaultReorderPoint: 10,
	}
}

// Dataset is the aggregate persisted by the store: all items, the
// append-only transaction log, and the settings.
type Dataset struct {
	Items        []Item        `json:"items"`
	Transactions []Transaction `json:"transactions"`
	Settings     Settings      `json:"settings"`
}

// NewDataset returns an empty dataset with default settings.
func NewDataset() *Dataset {
	return &Dataset{
		Items:        []Item{},
		Transactions: []Transaction{},
		Settings:     DefaultSettings(),
	}
}

// FindItem returns a pointer into Items for the given id, or nil.
func (d *Dataset) FindItem(id uuid.UUID) *Item {
	for idx := range d.Items {
		if d.Items[idx].ID == id {
			return &d.Items[idx]
		}
	}
	return nil
}
