// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/core/ports"
)

// InventoryHandler handles inventory-related HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// GetItem handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))
		h.respondServiceError(w, err, "Failed to retrieve item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// ListItems handles GET /api/v1/inventory
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := ports.ListParams{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list items")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateItem handles POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.CreateItem(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	h.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU))

	h.respondJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.UpdateItem(ctx, id, req.ToUpdate())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))
		h.respondServiceError(w, err, "Failed to update item")
		return
	}

	h.logger.InfoContext(ctx, "item updated",
		slog.String("item_id", idStr))

	h.respondJSON(w, http.StatusOK, item)
}

// RecordSale handles POST /api/v1/inventory/{id}/sale
func (h *InventoryHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Quantity <= 0 {
		h.respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	item, err := h.service.RecordSale(ctx, id, req.Quantity, req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record sale",
			slog.String("item_id", idStr),
			slog.Int("quantity", req.Quantity),
			slog.String("error", err.Error()))
		h.respondServiceError(w, err, "Failed to record sale")
		return
	}

	h.logger.InfoContext(ctx, "sale recorded",
		slog.String("item_id", idStr),
		slog.Int("quantity", req.Quantity))

	h.respondJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := h.service.DeleteItem(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))
		h.respondServiceError(w, err, "Failed to delete item")
		return
	}

	h.logger.InfoContext(ctx, "item deleted",
		slog.String("item_id", idStr))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Item deleted successfully",
		"id":      idStr,
	})
}

// Helper methods

func (h *InventoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *InventoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func (h *InventoryHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		h.respondError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		h.respondError(w, http.StatusConflict, "Insufficient stock")
	default:
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

// Request/Response DTOs

// CreateItemRequest represents the request body for creating an item
type CreateItemRequest struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ReorderPoint *int            `json:"reorderPoint,omitempty"`
	Supplier     string          `json:"supplier,omitempty"`
	Location     string          `json:"location,omitempty"`
}

// Validate validates the create item request
func (r *CreateItemRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if r.UnitPrice.IsNegative() {
		return fmt.Errorf("unitPrice cannot be negative")
	}
	if r.ReorderPoint != nil && *r.ReorderPoint < 0 {
		return fmt.Errorf("reorderPoint cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreateItemRequest) ToDomain() *domain.Item {
	item := &domain.Item{
		Name:      r.Name,
		SKU:       r.SKU,
		Category:  r.Category,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		Supplier:  r.Supplier,
		Location:  r.Location,
	}
	if r.ReorderPoint != nil {
		item.ReorderPoint = *r.ReorderPoint
	}
	return item
}

// UpdateItemRequest represents the request body for updating an item.
// Absent fields are left unchanged.
type UpdateItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Quantity     *int             `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	ReorderPoint *int             `json:"reorderPoint,omitempty"`
	Supplier     *string          `json:"supplier,omitempty"`
	Location     *string          `json:"location,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// Validate validates the update item request
func (r *UpdateItemRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if r.UnitPrice != nil && r.UnitPrice.IsNegative() {
		return fmt.Errorf("unitPrice cannot be negative")
	}
	if r.ReorderPoint != nil && *r.ReorderPoint < 0 {
		return fmt.Errorf("reorderPoint cannot be negative")
	}
	return nil
}

// ToUpdate converts the request to a service-level partial update
func (r *UpdateItemRequest) ToUpdate() ports.ItemUpdate {
	return ports.ItemUpdate{
		Name:         r.Name,
		Category:     r.Category,
		Quantity:     r.Quantity,
		UnitPrice:    r.UnitPrice,
		ReorderPoint: r.ReorderPoint,
		Supplier:     r.Supplier,
		Location:     r.Location,
		Notes:        r.Notes,
	}
}

// SaleRequest represents the request body for recording a sale
type SaleRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}
