// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/insyd/inventory-api/internal/adapters/redis_adapter"
	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/core/ports"
)

// ExportParams defines parameters for export operations
type ExportParams struct {
	Category string `json:"category"`
	Search   string `json:"search"`
}

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Items    []domain.Item  `json:"items"`
	Metadata ExportMetadata `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate time.Time `json:"exportDate"`
	TotalItems int       `json:"totalItems"`
	Category   string    `json:"category,omitempty"`
	Search     string    `json:"search,omitempty"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	service ports.InventoryService
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service ports.InventoryService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		cache:   cache,
		logger:  logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	result, err := h.service.List(ctx, ports.ListParams{
		Search:   params.Search,
		Category: params.Category,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load items for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(result.Items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("inventory_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(result.Items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := h.parseExportParams(r)

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", params.cacheKey())
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	result, err := h.service.List(ctx, ports.ListParams{
		Search:   params.Search,
		Category: params.Category,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load items for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := JSONExportResponse{
		Items: result.Items,
		Metadata: ExportMetadata{
			ExportDate: time.Now(),
			TotalItems: len(result.Items),
			Category:   params.Category,
			Search:     params.Search,
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("total_rows", len(result.Items)))
}

// Helper methods

func (h *ExportHandler) parseExportParams(r *http.Request) *ExportParams {
	return &ExportParams{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
}

func (h *ExportHandler) generateExcelFile(items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Inventory")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := excelHeaders()
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range items {
		dataRow := sheet.AddRow()
		for _, value := range itemToExcelRow(&items[i]) {
			cell := dataRow.AddCell()
			cell.Value = value
		}
	}

	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func excelHeaders() []string {
	return []string{
		"SKU", "Name", "Category", "Quantity", "Unit Price", "Total Value",
		"Reorder Point", "Low Stock", "Quantity Sold", "Last Sold",
		"Class", "Dead Stock", "Supplier", "Location", "Created At", "Updated At",
	}
}

func itemToExcelRow(item *domain.Item) []string {
	lastSold := ""
	if item.LastSoldDate != nil {
		lastSold = item.LastSoldDate.Format("2006-01-02")
	}

	return []string{
		item.SKU,
		item.Name,
		item.Category,
		strconv.Itoa(item.Quantity),
		item.UnitPrice.StringFixed(2),
		item.TotalValue.StringFixed(2),
		strconv.Itoa(item.ReorderPoint),
		yesNo(item.IsLowStock()),
		strconv.Itoa(item.QuantitySold),
		lastSold,
		string(item.ValueClass),
		yesNo(item.IsDeadStock),
		item.Supplier,
		item.Location,
		item.CreatedAt.Format("2006-01-02 15:04:05"),
		item.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (p *ExportParams) cacheKey() string {
	return fmt.Sprintf("cat_%s_q_%s", p.Category, p.Search)
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response",
			slog.String("error", err.Error()))
	}
}
