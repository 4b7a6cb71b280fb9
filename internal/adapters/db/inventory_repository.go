// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/internal/core/ports"
)

// inventoryRepository implements ports.InventoryRepository
type inventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) ports.InventoryRepository {
	return &inventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

// recordSelect is the joined projection every record read uses.
func recordSelect() squirrel.SelectBuilder {
	return squirrel.Select(
		"i.id", "i.product_id", "i.current_stock",
		"i.min_stock_level", "i.max_stock_level", "i.stock_status",
		"i.last_restocked_at", "i.created_at", "i.updated_at",
		"p.name", "p.sku", "p.base_price", "p.cost_price",
	).
		From("inventory_records i").
		Join("products p ON p.id = i.product_id").
		PlaceholderFormat(squirrel.Dollar)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.InventoryRecord, error) {
	record := &domain.InventoryRecord{}
	var lastRestockedAt sql.NullTime

	err := row.Scan(
		&record.ID, &record.ProductID, &record.CurrentStock,
		&record.MinStockLevel, &record.MaxStockLevel, &record.StockStatus,
		&lastRestockedAt, &record.CreatedAt, &record.UpdatedAt,
		&record.Product.Name, &record.Product.SKU,
		&record.Product.BasePrice, &record.Product.CostPrice,
	)
	if err != nil {
		return nil, err
	}

	record.Product.ID = record.ProductID
	if lastRestockedAt.Valid {
		record.LastRestockedAt = &lastRestockedAt.Time
	}

	return record, nil
}

// FindAll retrieves every inventory record joined with its product
// projection, most recently updated first.
func (r *inventoryRepository) FindAll(ctx context.Context) ([]domain.InventoryRecord, error) {
	query, args, err := recordSelect().OrderBy("i.updated_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build records query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory records: %w", err)
	}
	defer rows.Close()

	var records []domain.InventoryRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// FindByProductID retrieves the record for one product.
func (r *inventoryRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*domain.InventoryRecord, error) {
	query, args, err := recordSelect().Where(squirrel.Eq{"i.product_id": productID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build record query: %w", err)
	}

	record, err := scanRecord(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.NotFoundError{ProductID: productID}
		}
		return nil, fmt.Errorf("failed to find inventory record: %w", err)
	}

	return record, nil
}

// ApplyAdjustment runs the read-modify-write for one stock adjustment as a
// single transaction. The record row is locked for the duration, so
// adjustments on the same product serialize while other products proceed.
// The record update and the movement insert commit together or not at all.
func (r *inventoryRepository) ApplyAdjustment(ctx context.Context, adj domain.StockAdjustment) (*domain.InventoryRecord, *domain.StockMovement, error) {
	var (
		record   *domain.InventoryRecord
		movement *domain.StockMovement
	)

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		var (
			recordID     uuid.UUID
			currentStock int
			minLevel     int
			maxLevel     int
		)

		lockQuery := `
			SELECT id, current_stock, min_stock_level, max_stock_level
			FROM inventory_records
			WHERE product_id = $1
			FOR UPDATE`

		err := tx.QueryRow(ctx, lockQuery, adj.ProductID).Scan(
			&recordID, &currentStock, &minLevel, &maxLevel,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &domain.NotFoundError{ProductID: adj.ProductID}
			}
			return fmt.Errorf("failed to lock inventory record: %w", err)
		}

		newStock := currentStock + adj.Delta()
		if newStock < 0 {
			return &domain.NegativeStockError{
				ProductID:    adj.ProductID,
				CurrentStock: currentStock,
				Requested:    adj.Quantity,
			}
		}

		now := time.Now()
		newStatus := domain.DeriveStatus(newStock, minLevel, maxLevel)

		var restockedAt *time.Time
		if adj.Type == domain.MovementIn {
			restockedAt = &now
		}

		updateQuery := `
			UPDATE inventory_records
			SET current_stock = $2,
			    stock_status = $3,
			    last_restocked_at = COALESCE($4, last_restocked_at),
			    updated_at = $5
			WHERE id = $1`

		if _, err := tx.Exec(ctx, updateQuery, recordID, newStock, newStatus, restockedAt, now); err != nil {
			return fmt.Errorf("failed to update inventory record: %w", err)
		}

		var reason *string
		if adj.Reason != "" {
			reason = &adj.Reason
		}

		movement = &domain.StockMovement{
			ID:        uuid.New(),
			ProductID: adj.ProductID,
			Type:      adj.Type,
			Quantity:  adj.Quantity,
			Reason:    adj.Reason,
			CreatedAt: now,
		}

		insertQuery := `
			INSERT INTO stock_movements (id, product_id, movement_type, quantity, reason, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`

		if _, err := tx.Exec(ctx, insertQuery,
			movement.ID, movement.ProductID, movement.Type,
			movement.Quantity, reason, movement.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to append stock movement: %w", err)
		}

		// Read the committed shape back while the row is still ours.
		selectQuery, args, err := recordSelect().Where(squirrel.Eq{"i.id": recordID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build record query: %w", err)
		}

		record, err = scanRecord(tx.QueryRow(ctx, selectQuery, args...))
		if err != nil {
			return fmt.Errorf("failed to reload inventory record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	r.logger.DebugContext(ctx, "stock adjustment committed",
		slog.String("product_id", adj.ProductID.String()),
		slog.String("movement_id", movement.ID.String()),
		slog.Int("current_stock", record.CurrentStock))

	return record, movement, nil
}

// FindMovements retrieves the movement ledger for a product, newest first.
func (r *inventoryRepository) FindMovements(ctx context.Context, productID uuid.UUID, filter ports.MovementFilter) ([]domain.StockMovement, error) {
	qb := squirrel.Select(
		"id", "product_id", "movement_type", "quantity", "reason", "created_at",
	).
		From("stock_movements").
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Type != "" {
		qb = qb.Where(squirrel.Eq{"movement_type": filter.Type})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build movements query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var (
			m      domain.StockMovement
			reason sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		m.Reason = reason.String
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return movements, nil
}
