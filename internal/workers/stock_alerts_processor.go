// internal/workers/stock_alerts_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/core/ports"
	"github.com/insyd/inventory-api/internal/pkg/config"
)

// StockAlertsProcessor scans the inventory for items that need
// attention and notifies the configured recipient.
type StockAlertsProcessor struct {
	service ports.InventoryService
	config  *config.Config
	logger  *slog.Logger
}

// NewStockAlertsProcessor creates a new stock alerts processor
func NewStockAlertsProcessor(service ports.InventoryService, cfg *config.Config, logger *slog.Logger) *StockAlertsProcessor {
	return &StockAlertsProcessor{
		service: service,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "stock_alerts")),
	}
}

// ScanStock checks for low-stock and dead-stock items and sends a
// summary alert when anything needs action.
func (p *StockAlertsProcessor) ScanStock(ctx context.Context, t *asynq.Task) error {
	summary, err := p.service.Analytics(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute analytics: %w", err)
	}

	if summary.LowStockCount == 0 && summary.DeadStockCount == 0 {
		p.logger.InfoContext(ctx, "stock scan clean, nothing to report")
		return nil
	}

	p.logger.WarnContext(ctx, "stock scan found items needing attention",
		slog.Int("low_stock", summary.LowStockCount),
		slog.Int("dead_stock", summary.DeadStockCount))

	body := p.buildAlertBody(summary)
	return p.sendAlert(ctx, "Inventory alert: stock attention needed", body)
}

func (p *StockAlertsProcessor) buildAlertBody(summary *domain.Analytics) string {
	var b strings.Builder

	if summary.LowStockCount > 0 {
		fmt.Fprintf(&b, "%d item(s) at or below reorder point:\n", summary.LowStockCount)
		for i := range summary.LowStockItems {
			item := &summary.LowStockItems[i]
			fmt.Fprintf(&b, "  - %s (%s): %d on hand, reorder at %d\n",
				item.Name, item.SKU, item.Quantity, item.ReorderPoint)
		}
	}

	dead := 0
	for i := range summary.Items {
		if summary.Items[i].IsDeadStock {
			if dead == 0 {
				fmt.Fprintf(&b, "%d dead-stock item(s):\n", summary.DeadStockCount)
			}
			item := &summary.Items[i]
			fmt.Fprintf(&b, "  - %s (%s): %d on hand, class %s\n",
				item.Name, item.SKU, item.Quantity, item.ValueClass)
			dead++
		}
	}

	return b.String()
}

func (p *StockAlertsProcessor) sendAlert(ctx context.Context, subject, body string) error {
	to := p.config.Alerts.Recipient

	// In development, just log the alert
	if p.config.App.Environment == "development" || to == "" {
		p.logger.InfoContext(ctx, "alert would be sent",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	from := p.config.Alerts.Sender
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body,
	))

	addr := p.config.Alerts.SMTPAddr
	host := addr
	if idx := strings.Index(addr, ":"); idx > 0 {
		host = addr[:idx]
	}
	auth := smtp.PlainAuth("", p.config.Alerts.SMTPUser, p.config.Alerts.SMTPPassword, host)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}

	p.logger.InfoContext(ctx, "alert sent", slog.String("to", to))
	return nil
}
