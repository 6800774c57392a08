// internal/handlers/analytics.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/insyd/inventory-api/internal/core/ports"
)

// AnalyticsHandler handles analytics and transaction log operations
type AnalyticsHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service ports.InventoryService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "analytics")),
	}
}

// GetAnalytics handles GET /api/v1/analytics
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.service.Analytics(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build analytics summary",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load analytics")
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// ListTransactions handles GET /api/v1/transactions
func (h *AnalyticsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	transactions, err := h.service.ListTransactions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list transactions",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"total":        len(transactions),
	})
}

// Helper methods

func (h *AnalyticsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *AnalyticsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
