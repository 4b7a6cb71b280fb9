// internal/core/domain/inventory.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus classifies the health of an inventory record. It is always
// derived from the current quantity and thresholds, never set directly.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Product is the minimal projection of the product catalog that inventory
// reads join against. The catalog itself is owned elsewhere.
type Product struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	SKU       string           `json:"sku"`
	BasePrice decimal.Decimal  `json:"base_price"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
}

// InventoryRecord tracks the on-hand quantity for exactly one product.
// CurrentStock is never negative in any committed state and StockStatus is
// always DeriveStatus(CurrentStock, MinStockLevel, MaxStockLevel).
type InventoryRecord struct {
	ID              uuid.UUID   `json:"id"`
	ProductID       uuid.UUID   `json:"product_id"`
	CurrentStock    int         `json:"current_stock"`
	MinStockLevel   int         `json:"min_stock_level"`
	MaxStockLevel   int         `json:"max_stock_level"`
	StockStatus     StockStatus `json:"stock_status"`
	LastRestockedAt *time.Time  `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	Product Product `json:"product"`
}

// StockMovement is one append-only ledger entry. Rows are created once and
// never updated or deleted.
type StockMovement struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"product_id"`
	Type      MovementType `json:"movement_type"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// StockAdjustment is a validated request to move stock in or out.
type StockAdjustment struct {
	ProductID uuid.UUID
	Quantity  int
	Type      MovementType
	Reason    string
}

// Validate checks the adjustment before it touches the store.
func (a *StockAdjustment) Validate() error {
	if a.ProductID == uuid.Nil {
		return NewValidationError("product_id is required")
	}
	if a.Quantity <= 0 {
		return NewValidationError("quantity must be a positive integer")
	}
	if !a.Type.Valid() {
		return NewValidationError("movement type must be 'in' or 'out'")
	}
	return nil
}

// Delta returns the signed quantity change this adjustment applies.
func (a *StockAdjustment) Delta() int {
	if a.Type == MovementOut {
		return -a.Quantity
	}
	return a.Quantity
}

// DeriveStatus maps a quantity and its thresholds to a stock status. The rule
// is intentionally asymmetric: maxLevel is accepted but takes no part in the
// classification.
func DeriveStatus(currentStock, minLevel, maxLevel int) StockStatus {
	switch {
	case currentStock == 0:
		return StatusOutOfStock
	case currentStock <= minLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ApplyAdjustment recomputes the record's derived fields for a new quantity.
// LastRestockedAt advances only on inbound movements.
func (r *InventoryRecord) ApplyAdjustment(newStock int, movementType MovementType, at time.Time) {
	r.CurrentStock = newStock
	r.StockStatus = DeriveStatus(newStock, r.MinStockLevel, r.MaxStockLevel)
	r.UpdatedAt = at
	if movementType == MovementIn {
		restocked := at
		r.LastRestockedAt = &restocked
	}
}

// ComputeTotalValue aggregates cost_price x current_stock over the given
// records. A missing cost price counts as zero. Reporting only; the result is
// never persisted.
func ComputeTotalValue(records []InventoryRecord) decimal.Decimal {
	total := decimal.Zero
	for i := range records {
		cost := records[i].Product.CostPrice
		if cost == nil {
			continue
		}
		total = total.Add(cost.Mul(decimal.NewFromInt(int64(records[i].CurrentStock))))
	}
	return total
}
