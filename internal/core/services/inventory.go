// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	redis_a "github.com/insyd/inventory-api/internal/adapters/redis_adapter"
	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/core/ports"
	"github.com/insyd/inventory-api/internal/workers"
)

// TaskEnqueuer is the subset of asynq.Client the service needs to
// schedule background work.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// InventoryService handles inventory business logic
type InventoryService struct {
	store  ports.ItemStore
	cache  ports.CacheRepository
	queue  TaskEnqueuer
	metric domain.ValueMetric
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service. Cache and queue
// may be nil, in which case analytics are computed on every request and
// no background refresh is scheduled.
func NewInventoryService(
	store ports.ItemStore,
	cache ports.CacheRepository,
	queue TaskEnqueuer,
	metric domain.ValueMetric,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		store:  store,
		cache:  cache,
		queue:  queue,
		metric: metric,
		ttl:    cacheTTL,
		now:    time.Now,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// WithClock overrides the service clock, for tests.
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

// CreateItem creates a new item and records its initial stock as an ADD
// transaction. QuantitySold always starts at zero regardless of input.
func (s *InventoryService) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := s.now()
	err := s.store.Update(ctx, func(d *domain.Dataset) error {
		item.QuantitySold = 0
		item.LastSoldDate = nil
		if item.ReorderPoint == 0 {
			item.ReorderPoint = d.Settings.DefaultReorderPoint
		}
		item.PrepareForStorage(now)

		d.Items = append(d.Items, *item)
		if item.Quantity > 0 {
			d.Transactions = append(d.Transactions,
				domain.NewTransaction(item.ID, domain.TransactionAdd, item.Quantity, "Initial stock", now))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.InfoContext(ctx, "created inventory item",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU),
		slog.Int("quantity", item.Quantity))

	s.invalidateCaches(ctx)
	return s.GetByID(ctx, item.ID)
}

// GetByID retrieves a single item with its derived fields. The class
// depends on every other item, so the full set is classified first.
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	classified := domain.Classify(data.Items, s.metric, s.now())
	for i := range classified {
		if classified[i].ID == id {
			return &classified[i], nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
}

// List retrieves classified items with optional search and category
// filters. Classification runs over the full collection before
// filtering, so a filtered view shows the same classes as the full one.
func (s *InventoryService) List(ctx context.Context, params ports.ListParams) (*ports.ListResult, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	classified := domain.Classify(data.Items, s.metric, s.now())

	items := make([]domain.Item, 0, len(classified))
	search := strings.ToLower(params.Search)
	for i := range classified {
		item := &classified[i]
		if params.Category != "" && item.Category != params.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.SKU), search) {
			continue
		}
		items = append(items, *item)
	}

	return &ports.ListResult{
		Items:    items,
		Total:    len(items),
		Settings: data.Settings,
	}, nil
}

// UpdateItem applies a partial update. A quantity increase is recorded
// as a RESTOCK transaction; a decrease is treated as a sale and also
// advances QuantitySold and LastSoldDate, keeping the item counters
// consistent with the transaction log.
func (s *InventoryService) UpdateItem(ctx context.Context, id uuid.UUID, update ports.ItemUpdate) (*domain.Item, error) {
	now := s.now()
	err := s.store.Update(ctx, func(d *domain.Dataset) error {
		item := d.FindItem(id)
		if item == nil {
			return fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
		}

		if update.Name != nil {
			item.Name = *update.Name
		}
		if update.Category != nil {
			item.Category = *update.Category
		}
		if update.UnitPrice != nil {
			item.UnitPrice = *update.UnitPrice
		}
		if update.ReorderPoint != nil {
			item.ReorderPoint = *update.ReorderPoint
		}
		if update.Supplier != nil {
			item.Supplier = *update.Supplier
		}
		if update.Location != nil {
			item.Location = *update.Location
		}

		if update.Quantity != nil && *update.Quantity != item.Quantity {
			newQuantity := *update.Quantity
			if newQuantity < 0 {
				return fmt.Errorf("quantity cannot be negative")
			}

			if newQuantity > item.Quantity {
				delta := newQuantity - item.Quantity
				d.Transactions = append(d.Transactions,
					domain.NewTransaction(item.ID, domain.TransactionRestock, delta, update.Notes, now))
			} else {
				delta := item.Quantity - newQuantity
				item.QuantitySold += delta
				item.LastSoldDate = &now
				d.Transactions = append(d.Transactions,
					domain.NewTransaction(item.ID, domain.TransactionSale, delta, update.Notes, now))
			}
			item.Quantity = newQuantity
		}

		item.UpdatedAt = now
		return item.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "updated inventory item",
		slog.String("item_id", id.String()))

	s.invalidateCaches(ctx)
	return s.GetByID(ctx, id)
}

// RecordSale decrements stock and records a SALE transaction. Selling
// more than is on hand fails with ErrInsufficientStock.
func (s *InventoryService) RecordSale(ctx context.Context, id uuid.UUID, quantity int, notes string) (*domain.Item, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("sale quantity must be positive")
	}

	now := s.now()
	err := s.store.Update(ctx, func(d *domain.Dataset) error {
		item := d.FindItem(id)
		if item == nil {
			return fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
		}
		if quantity > item.Quantity {
			return fmt.Errorf("sell %d of %d on hand: %w", quantity, item.Quantity, domain.ErrInsufficientStock)
		}

		item.Quantity -= quantity
		item.QuantitySold += quantity
		item.LastSoldDate = &now
		item.UpdatedAt = now
		d.Transactions = append(d.Transactions,
			domain.NewTransaction(item.ID, domain.TransactionSale, quantity, notes, now))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "recorded sale",
		slog.String("item_id", id.String()),
		slog.Int("quantity", quantity))

	s.invalidateCaches(ctx)
	return s.GetByID(ctx, id)
}

// DeleteItem removes an item. Its transactions are kept as historical
// records.
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	err := s.store.Update(ctx, func(d *domain.Dataset) error {
		for i := range d.Items {
			if d.Items[i].ID == id {
				d.Items = append(d.Items[:i], d.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "deleted inventory item",
		slog.String("item_id", id.String()))

	s.invalidateCaches(ctx)
	return nil
}

// ListTransactions returns the full audit log, most recent first.
func (s *InventoryService) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return domain.RecentTransactions(data.Transactions, len(data.Transactions)), nil
}

// Analytics computes the dashboard summary, served from cache when one
// is configured.
func (s *InventoryService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	fetch := func() (interface{}, error) {
		data, err := s.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load inventory: %w", err)
		}
		summary := domain.Summarize(data.Items, data.Transactions, s.metric, s.now())
		return &summary, nil
	}

	if s.cache == nil {
		result, err := fetch()
		if err != nil {
			return nil, err
		}
		return result.(*domain.Analytics), nil
	}

	var summary domain.Analytics
	key := redis_a.BuildKey(redis_a.PrefixAnalytics, "summary", string(s.metric))
	if err := s.cache.GetOrSet(ctx, key, &summary, fetch, s.ttl); err != nil {
		return nil, err
	}
	return &summary, nil
}

// invalidateCaches drops cached analytics after any mutation and
// schedules a background refresh to warm the cache again.
func (s *InventoryService) invalidateCaches(ctx context.Context) {
	if s.cache != nil {
		patterns := []string{
			string(redis_a.PrefixAnalytics) + ":*",
			string(redis_a.PrefixInventory) + ":*",
			string(redis_a.PrefixExport) + ":*",
		}
		for _, pattern := range patterns {
			if err := s.cache.DeletePattern(ctx, pattern); err != nil {
				s.logger.WarnContext(ctx, "failed to invalidate cache pattern",
					slog.String("pattern", pattern),
					slog.String("error", err.Error()))
			}
		}
	}

	if s.queue != nil {
		task := asynq.NewTask(workers.TypeRefreshAnalytics, nil)
		if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
			s.logger.WarnContext(ctx, "failed to enqueue analytics refresh",
				slog.String("error", err.Error()))
		}
	}
}
