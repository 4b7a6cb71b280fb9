// internal/core/ports/inventory_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/avelez/stockroom-be/internal/core/domain"
)

// MovementFilter narrows a movement-history read. The zero value returns the
// full ledger for the product, newest first.
type MovementFilter struct {
	Type  domain.MovementType
	Limit int
}

// InventoryRepository is the persistence port for the stock ledger,
// implemented by the database adapter.
type InventoryRepository interface {
	// FindAll returns every inventory record joined with its product
	// projection, ordered by most recently updated first.
	FindAll(ctx context.Context) ([]domain.InventoryRecord, error)

	// FindByProductID returns the record for one product, or a
	// *domain.NotFoundError if no record exists.
	FindByProductID(ctx context.Context, productID uuid.UUID) (*domain.InventoryRecord, error)

	// ApplyAdjustment executes the read-modify-write for one adjustment in a
	// single transaction: lock the record row, recompute quantity and status,
	// update the record, and append exactly one movement. Either both writes
	// commit or neither does. Returns the updated record and the appended
	// movement.
	ApplyAdjustment(ctx context.Context, adj domain.StockAdjustment) (*domain.InventoryRecord, *domain.StockMovement, error)

	// FindMovements returns the movement ledger for a product, newest first.
	FindMovements(ctx context.Context, productID uuid.UUID, filter MovementFilter) ([]domain.StockMovement, error)
}
