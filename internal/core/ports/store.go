// internal/core/ports/store.go
package ports

import (
	"context"

	"github.com/insyd/inventory-api/internal/core/domain"
)

// ItemStore is the persistence port for the inventory dataset. The
// dataset is read and rewritten wholesale; implementations must
// serialize Update calls so concurrent read-modify-write cycles cannot
// lose each other's writes.
type ItemStore interface {
	// Load returns a snapshot of the full dataset.
	Load(ctx context.Context) (*domain.Dataset, error)
	// Save replaces the full dataset.
	Save(ctx context.Context, data *domain.Dataset) error
	// Update applies fn to the current dataset under the store's write
	// lock and persists the result. If fn returns an error nothing is
	// written and the error is returned unchanged.
	Update(ctx context.Context, fn func(*domain.Dataset) error) error
	// Ping reports whether the backing medium is reachable and writable.
	Ping(ctx context.Context) error
}
