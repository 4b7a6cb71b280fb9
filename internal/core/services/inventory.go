// internal/core/services/inventory.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/internal/core/ports"
)

const (
	// maxAdjustAttempts bounds the retry loop for contended adjustments.
	maxAdjustAttempts = 3

	// snapshotCacheKey holds the last fetched record list for display.
	snapshotCacheKey = "inv:records:snapshot"
	snapshotCacheTTL = 5 * time.Minute
)

// Postgres SQLSTATEs that indicate a concurrent-write conflict worth retrying.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// InventoryService owns the atomicity and concurrency-safety contract for
// stock mutation. The persistent store is the sole arbiter of serialization;
// the snapshot cache is display-only and never authoritative.
type InventoryService struct {
	repo         ports.InventoryRepository
	cache        ports.CacheRepository
	notifier     ports.Notifier
	logger       *slog.Logger
	storeTimeout time.Duration
}

// Statically assert that *InventoryService implements the service port.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service.
func NewInventoryService(
	repo ports.InventoryRepository,
	cache ports.CacheRepository,
	notifier ports.Notifier,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *InventoryService {
	if storeTimeout <= 0 {
		storeTimeout = 10 * time.Second
	}
	return &InventoryService{
		repo:         repo,
		cache:        cache,
		notifier:     notifier,
		logger:       logger.With(slog.String("service", "inventory")),
		storeTimeout: storeTimeout,
	}
}

// FetchAll returns every inventory record with its product projection,
// ordered by most recently updated first. The committed result refreshes the
// display snapshot; a read failure leaves any cached snapshot untouched.
func (s *InventoryService) FetchAll(ctx context.Context) ([]domain.InventoryRecord, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		s.notify(ctx, ports.Notification{
			Title:       "Inventory unavailable",
			Description: "The inventory list could not be loaded.",
			Severity:    ports.SeverityWarning,
		})
		return nil, &domain.RetrievalError{Op: "inventory records", Err: err}
	}

	s.refreshSnapshot(ctx, records)

	s.logger.DebugContext(ctx, "fetched inventory records",
		slog.Int("count", len(records)))

	return records, nil
}

// AdjustStock applies one stock movement. Validation happens before any store
// access; the read-modify-write runs inside a single store transaction with
// the record row locked, so adjustments on the same product are mutually
// exclusive while different products proceed in parallel. Contended attempts
// are retried a bounded number of times. Every returned error means the store
// observed no mutation.
func (s *InventoryService) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.InventoryRecord, error) {
	if err := adj.Validate(); err != nil {
		s.notifyFailure(ctx, adj, err)
		return nil, err
	}

	// The transaction must run to completion-or-rollback even if the caller
	// abandons the request. Only the store timeout bounds it.
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()

	var (
		record   *domain.InventoryRecord
		movement *domain.StockMovement
		err      error
	)

	for attempt := 1; attempt <= maxAdjustAttempts; attempt++ {
		record, movement, err = s.repo.ApplyAdjustment(txCtx, adj)
		if err == nil {
			break
		}
		if !isContention(err) {
			s.notifyFailure(ctx, adj, err)
			return nil, s.classifyWriteError(adj, err)
		}
		s.logger.WarnContext(ctx, "stock adjustment contended, retrying",
			slog.String("product_id", adj.ProductID.String()),
			slog.Int("attempt", attempt))
	}

	if err != nil {
		cerr := &domain.ContentionError{ProductID: adj.ProductID, Attempts: maxAdjustAttempts}
		s.notifyFailure(ctx, adj, cerr)
		return nil, cerr
	}

	// The committed write must be visible to readers even if the caller has
	// gone away, so invalidation runs on the detached store context too.
	s.invalidateSnapshot(txCtx)
	s.notifySuccess(txCtx, adj, record)

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("product_id", adj.ProductID.String()),
		slog.String("movement_type", string(adj.Type)),
		slog.Int("quantity", adj.Quantity),
		slog.Int("current_stock", record.CurrentStock),
		slog.String("stock_status", string(record.StockStatus)),
		slog.String("movement_id", movement.ID.String()))

	return record, nil
}

// GetMovements returns the full movement ledger for a product, newest first.
func (s *InventoryService) GetMovements(ctx context.Context, productID uuid.UUID) ([]domain.StockMovement, error) {
	if productID == uuid.Nil {
		return nil, domain.NewValidationError("product_id is required")
	}

	movements, err := s.repo.FindMovements(ctx, productID, ports.MovementFilter{})
	if err != nil {
		return nil, &domain.RetrievalError{Op: "stock movements", Err: err}
	}

	return movements, nil
}

// TotalValue aggregates cost_price x current_stock over all records. The
// figure is computed on demand and never persisted.
func (s *InventoryService) TotalValue(ctx context.Context) (*ports.ValuationReport, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, &domain.RetrievalError{Op: "inventory valuation", Err: err}
	}

	return &ports.ValuationReport{
		TotalValue:  domain.ComputeTotalValue(records),
		RecordCount: len(records),
		ComputedAt:  time.Now(),
	}, nil
}

// classifyWriteError maps a repository failure to the typed error taxonomy.
// Domain errors pass through untouched.
func (s *InventoryService) classifyWriteError(adj domain.StockAdjustment, err error) error {
	var (
		notFound *domain.NotFoundError
		negative *domain.NegativeStockError
	)
	if errors.As(err, &notFound) || errors.As(err, &negative) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return &domain.TimeoutError{Op: "stock adjustment", Err: err}
	}
	return &domain.StoreError{Op: fmt.Sprintf("adjust stock for product %s", adj.ProductID), Err: err}
}

// isContention reports whether the error is a retryable concurrent-write
// conflict.
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlstateSerializationFailure || pgErr.Code == sqlstateDeadlockDetected
}

func (s *InventoryService) refreshSnapshot(ctx context.Context, records []domain.InventoryRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetWithTTL(ctx, snapshotCacheKey, records, snapshotCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh inventory snapshot cache",
			slog.String("error", err.Error()))
	}
}

func (s *InventoryService) invalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Rendered reports are built from the same records, so they go stale
	// together with the snapshot.
	for _, pattern := range []string{"inv:records:*", "report:*"} {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate cache after adjustment",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
		}
	}
}

func (s *InventoryService) notifySuccess(ctx context.Context, adj domain.StockAdjustment, record *domain.InventoryRecord) {
	n := ports.Notification{
		Title:       "Stock updated",
		Description: fmt.Sprintf("%s %d units (%s), %d on hand", adj.Type, adj.Quantity, record.Product.Name, record.CurrentStock),
		Severity:    ports.SeverityInfo,
		ProductID:   adj.ProductID.String(),
	}
	switch record.StockStatus {
	case domain.StatusLowStock:
		n.Severity = ports.SeverityWarning
		n.Title = "Stock updated: running low"
	case domain.StatusOutOfStock:
		n.Severity = ports.SeverityCritical
		n.Title = "Stock updated: out of stock"
	}
	s.notify(ctx, n)
}

func (s *InventoryService) notifyFailure(ctx context.Context, adj domain.StockAdjustment, err error) {
	s.notify(ctx, ports.Notification{
		Title:       "Stock adjustment failed",
		Description: err.Error(),
		Severity:    ports.SeverityWarning,
		ProductID:   adj.ProductID.String(),
	})
}

// notify hands off to the sink fire-and-forget; the sink never affects the
// operation's outcome.
func (s *InventoryService) notify(ctx context.Context, n ports.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, n)
}
