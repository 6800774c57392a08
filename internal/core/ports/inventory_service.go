// internal/core/ports/inventory_service.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insyd/inventory-api/internal/core/domain"
)

// InventoryService defines the application service port for inventory.
// This interface is implemented by the application service.
type InventoryService interface {
	CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, update ItemUpdate) (*domain.Item, error)
	RecordSale(ctx context.Context, id uuid.UUID, quantity int, notes string) (*domain.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	Analytics(ctx context.Context) (*domain.Analytics, error)
}

// ItemUpdate carries a partial item update. Nil fields are left
// unchanged; a non-nil Quantity drives the restock/sale derivation.
type ItemUpdate struct {
	Name         *string
	Category     *string
	Quantity     *int
	UnitPrice    *decimal.Decimal
	ReorderPoint *int
	Supplier     *string
	Location     *string
	Notes        string
}

// ListParams holds parameters for listing inventory
type ListParams struct {
	Search   string
	Category string
}

// ListResult holds the result of listing inventory
type ListResult struct {
	Items    []domain.Item   `json:"items"`
	Total    int             `json:"total"`
	Settings domain.Settings `json:"settings"`
}
