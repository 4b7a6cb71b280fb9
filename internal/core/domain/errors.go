// internal/core/domain/errors.go
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError rejects a malformed adjustment before any store access.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NotFoundError indicates no inventory record exists for the product.
type NotFoundError struct {
	ProductID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("inventory record not found for product %s", e.ProductID)
}

// NegativeStockError is the business-rule violation: the adjustment would
// drop the on-hand quantity below zero. Nothing is written.
type NegativeStockError struct {
	ProductID    uuid.UUID
	CurrentStock int
	Requested    int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: have %d, requested %d out",
		e.ProductID, e.CurrentStock, e.Requested)
}

// ContentionError is returned once the bounded retry loop for concurrent
// write conflicts is exhausted.
type ContentionError struct {
	ProductID uuid.UUID
	Attempts  int
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("stock adjustment for product %s abandoned after %d contended attempts",
		e.ProductID, e.Attempts)
}

// TimeoutError wraps a store timeout. The underlying transaction is
// guaranteed rolled back.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StoreError wraps any other persistence failure on the write path.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// RetrievalError wraps a read-path failure. Any cached snapshot is left
// untouched when this is returned.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to retrieve %s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
