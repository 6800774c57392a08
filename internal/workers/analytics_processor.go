// internal/workers/analytics_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	redis_a "github.com/insyd/inventory-api/internal/adapters/redis_adapter"
	"github.com/insyd/inventory-api/internal/core/ports"
)

// AnalyticsProcessor handles analytics refresh tasks
type AnalyticsProcessor struct {
	service ports.InventoryService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewAnalyticsProcessor creates a new analytics processor
func NewAnalyticsProcessor(service ports.InventoryService, cache ports.CacheRepository, logger *slog.Logger) *AnalyticsProcessor {
	return &AnalyticsProcessor{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("processor", "analytics")),
	}
}

// RefreshAnalytics drops any cached analytics and recomputes the summary
// so the next dashboard read is served warm.
func (p *AnalyticsProcessor) RefreshAnalytics(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "refreshing analytics cache")

	if p.cache != nil {
		pattern := string(redis_a.PrefixAnalytics) + ":*"
		if err := p.cache.DeletePattern(ctx, pattern); err != nil {
			p.logger.WarnContext(ctx, "failed to drop stale analytics",
				slog.String("error", err.Error()))
		}
	}

	summary, err := p.service.Analytics(ctx)
	if err != nil {
		return fmt.Errorf("failed to recompute analytics: %w", err)
	}

	p.logger.InfoContext(ctx, "analytics cache refreshed",
		slog.Int("total_items", summary.TotalItems),
		slog.Int("low_stock", summary.LowStockCount),
		slog.Int("dead_stock", summary.DeadStockCount))

	return nil
}
