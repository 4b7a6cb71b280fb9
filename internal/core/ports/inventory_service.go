// internal/core/ports/inventory_service.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avelez/stockroom-be/internal/core/domain"
)

// InventoryService is the application service port for the stock ledger.
type InventoryService interface {
	// FetchAll returns every inventory record with its product projection,
	// most recently updated first.
	FetchAll(ctx context.Context) ([]domain.InventoryRecord, error)

	// AdjustStock applies one stock movement atomically and returns the
	// updated record. Every error implies no mutation occurred.
	AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.InventoryRecord, error)

	// GetMovements returns the product's movement ledger, newest first.
	GetMovements(ctx context.Context, productID uuid.UUID) ([]domain.StockMovement, error)

	// TotalValue reports the summed acquisition value of all stock on hand.
	TotalValue(ctx context.Context) (*ValuationReport, error)
}

// ValuationReport is the read-only inventory valuation aggregate.
type ValuationReport struct {
	TotalValue  decimal.Decimal `json:"total_value"`
	RecordCount int             `json:"record_count"`
	ComputedAt  time.Time       `json:"computed_at"`
}
