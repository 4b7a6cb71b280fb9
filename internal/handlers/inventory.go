// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/internal/core/ports"
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

// ListInventory handles GET /api/v1/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.FetchAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory records",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list inventory records")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// AdjustStock handles POST /api/v1/inventory/{productId}/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("productId")

	productID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.service.AdjustStock(ctx, req.ToDomain(productID))
	if err != nil {
		h.respondAdjustError(w, r, productID, err)
		return
	}

	h.logger.InfoContext(ctx, "stock adjusted",
		slog.String("product_id", idStr),
		slog.String("movement_type", req.Type),
		slog.Int("quantity", req.Quantity),
		slog.Int("current_stock", record.CurrentStock),
		slog.String("stock_status", string(record.StockStatus)))

	h.respondJSON(w, http.StatusOK, record)
}

// GetMovements handles GET /api/v1/inventory/{productId}/movements
func (h *InventoryHandler) GetMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("productId")

	productID, err := uuid.Parse(idStr)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	movements, err := h.service.GetMovements(ctx, productID)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			h.respondError(w, http.StatusUnprocessableEntity, validationErr.Error())
			return
		}

		h.logger.ErrorContext(ctx, "failed to get stock movements",
			slog.String("product_id", idStr),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve stock movements")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"movements":  movements,
		"count":      len(movements),
	})
}

// TotalValue handles GET /api/v1/inventory/value
func (h *InventoryHandler) TotalValue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.TotalValue(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute inventory value",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to compute inventory value")
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// respondAdjustError maps domain errors from the adjustment path to HTTP
// status codes.
func (h *InventoryHandler) respondAdjustError(w http.ResponseWriter, r *http.Request, productID uuid.UUID, err error) {
	ctx := r.Context()

	var (
		validationErr    *domain.ValidationError
		notFoundErr      *domain.NotFoundError
		negativeStockErr *domain.NegativeStockError
		contentionErr    *domain.ContentionError
		timeoutErr       *domain.TimeoutError
	)

	switch {
	case errors.As(err, &validationErr):
		h.respondError(w, http.StatusUnprocessableEntity, validationErr.Error())

	case errors.As(err, &negativeStockErr):
		h.respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":         "Insufficient stock for adjustment",
			"current_stock": negativeStockErr.CurrentStock,
			"requested":     negativeStockErr.Requested,
		})

	case errors.As(err, &notFoundErr):
		h.respondError(w, http.StatusNotFound, "Inventory record not found")

	case errors.As(err, &contentionErr):
		h.logger.WarnContext(ctx, "stock adjustment abandoned under contention",
			slog.String("product_id", productID.String()),
			slog.Int("attempts", contentionErr.Attempts))
		h.respondError(w, http.StatusConflict, "Concurrent stock updates in progress, please retry")

	case errors.As(err, &timeoutErr):
		h.logger.ErrorContext(ctx, "stock adjustment timed out",
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusServiceUnavailable, "Inventory store timed out, no changes were applied")

	default:
		h.logger.ErrorContext(ctx, "failed to adjust stock",
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to adjust stock")
	}
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

// Request/Response DTOs

// AdjustStockRequest represents the request body for a stock adjustment
type AdjustStockRequest struct {
	Quantity int    `json:"quantity"`
	Type     string `json:"type"`
	Reason   string `json:"reason,omitempty"`
}

// ToDomain converts the request to a domain adjustment
func (r *AdjustStockRequest) ToDomain(productID uuid.UUID) domain.StockAdjustment {
	return domain.StockAdjustment{
		ProductID: productID,
		Quantity:  r.Quantity,
		Type:      domain.MovementType(r.Type),
		Reason:    r.Reason,
	}
}