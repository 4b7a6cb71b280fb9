// internal/core/domain/inventory_test.go
package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelez/stockroom-be/internal/core/domain"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name         string
		currentStock int
		minLevel     int
		maxLevel     int
		expected     domain.StockStatus
	}{
		{
			name:         "zero_stock_is_out_of_stock",
			currentStock: 0,
			minLevel:     20,
			maxLevel:     500,
			expected:     domain.StatusOutOfStock,
		},
		{
			name:         "stock_below_min_is_low",
			currentStock: 10,
			minLevel:     20,
			maxLevel:     500,
			expected:     domain.StatusLowStock,
		},
		{
			name:         "stock_exactly_at_min_is_low",
			currentStock: 20,
			minLevel:     20,
			maxLevel:     500,
			expected:     domain.StatusLowStock,
		},
		{
			name:         "stock_above_min_is_in_stock",
			currentStock: 21,
			minLevel:     20,
			maxLevel:     500,
			expected:     domain.StatusInStock,
		},
		{
			name:         "max_level_does_not_affect_status",
			currentStock: 9999,
			minLevel:     20,
			maxLevel:     500,
			expected:     domain.StatusInStock,
		},
		{
			name:         "zero_stock_with_zero_min_is_out_of_stock",
			currentStock: 0,
			minLevel:     0,
			maxLevel:     0,
			expected:     domain.StatusOutOfStock,
		},
		{
			name:         "positive_stock_with_zero_min_is_in_stock",
			currentStock: 1,
			minLevel:     0,
			maxLevel:     0,
			expected:     domain.StatusInStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DeriveStatus(tt.currentStock, tt.minLevel, tt.maxLevel)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStockAdjustment_Validate(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name          string
		adjustment    domain.StockAdjustment
		expectedError bool
		errorContains string
	}{
		{
			name: "valid_inbound_adjustment",
			adjustment: domain.StockAdjustment{
				ProductID: productID,
				Quantity:  5,
				Type:      domain.MovementIn,
			},
			expectedError: false,
		},
		{
			name: "valid_outbound_adjustment_with_reason",
			adjustment: domain.StockAdjustment{
				ProductID: productID,
				Quantity:  3,
				Type:      domain.MovementOut,
				Reason:    "damaged during transport",
			},
			expectedError: false,
		},
		{
			name: "missing_product_id",
			adjustment: domain.StockAdjustment{
				Quantity: 5,
				Type:     domain.MovementIn,
			},
			expectedError: true,
			errorContains: "product_id is required",
		},
		{
			name: "zero_quantity",
			adjustment: domain.StockAdjustment{
				ProductID: productID,
				Quantity:  0,
				Type:      domain.MovementIn,
			},
			expectedError: true,
			errorContains: "quantity must be a positive integer",
		},
		{
			name: "negative_quantity",
			adjustment: domain.StockAdjustment{
				ProductID: productID,
				Quantity:  -4,
				Type:      domain.MovementOut,
			},
			expectedError: true,
			errorContains: "quantity must be a positive integer",
		},
		{
			name: "unknown_movement_type",
			adjustment: domain.StockAdjustment{
				ProductID: productID,
				Quantity:  5,
				Type:      domain.MovementType("sideways"),
			},
			expectedError: true,
			errorContains: "movement type must be 'in' or 'out'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.adjustment.Validate()
			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)

				var verr *domain.ValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStockAdjustment_Delta(t *testing.T) {
	in := domain.StockAdjustment{Quantity: 7, Type: domain.MovementIn}
	out := domain.StockAdjustment{Quantity: 7, Type: domain.MovementOut}

	assert.Equal(t, 7, in.Delta())
	assert.Equal(t, -7, out.Delta())
}

func TestInventoryRecord_ApplyAdjustment(t *testing.T) {
	now := time.Now()

	t.Run("inbound_movement_advances_last_restocked_at", func(t *testing.T) {
		record := domain.InventoryRecord{
			CurrentStock:  10,
			MinStockLevel: 20,
			MaxStockLevel: 500,
			StockStatus:   domain.StatusLowStock,
		}

		record.ApplyAdjustment(60, domain.MovementIn, now)

		assert.Equal(t, 60, record.CurrentStock)
		assert.Equal(t, domain.StatusInStock, record.StockStatus)
		require.NotNil(t, record.LastRestockedAt)
		assert.Equal(t, now, *record.LastRestockedAt)
		assert.Equal(t, now, record.UpdatedAt)
	})

	t.Run("outbound_movement_never_touches_last_restocked_at", func(t *testing.T) {
		earlier := now.Add(-24 * time.Hour)
		record := domain.InventoryRecord{
			CurrentStock:    100,
			MinStockLevel:   20,
			MaxStockLevel:   500,
			StockStatus:     domain.StatusInStock,
			LastRestockedAt: &earlier,
		}

		record.ApplyAdjustment(10, domain.MovementOut, now)

		assert.Equal(t, 10, record.CurrentStock)
		assert.Equal(t, domain.StatusLowStock, record.StockStatus)
		require.NotNil(t, record.LastRestockedAt)
		assert.Equal(t, earlier, *record.LastRestockedAt)
	})

	t.Run("draining_to_zero_is_out_of_stock", func(t *testing.T) {
		record := domain.InventoryRecord{
			CurrentStock:  10,
			MinStockLevel: 20,
			MaxStockLevel: 500,
		}

		record.ApplyAdjustment(0, domain.MovementOut, now)

		assert.Equal(t, domain.StatusOutOfStock, record.StockStatus)
	})
}

func TestComputeTotalValue(t *testing.T) {
	cost := func(s string) *decimal.Decimal {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		return &d
	}

	tests := []struct {
		name     string
		records  []domain.InventoryRecord
		expected string
	}{
		{
			name:     "empty_records_is_zero",
			records:  nil,
			expected: "0",
		},
		{
			name: "sums_cost_times_stock",
			records: []domain.InventoryRecord{
				{CurrentStock: 10, Product: domain.Product{CostPrice: cost("2.50")}},
				{CurrentStock: 4, Product: domain.Product{CostPrice: cost("12.00")}},
			},
			expected: "73",
		},
		{
			name: "missing_cost_price_counts_as_zero",
			records: []domain.InventoryRecord{
				{CurrentStock: 10, Product: domain.Product{CostPrice: nil}},
				{CurrentStock: 3, Product: domain.Product{CostPrice: cost("5.25")}},
			},
			expected: "15.75",
		},
		{
			name: "zero_stock_contributes_nothing",
			records: []domain.InventoryRecord{
				{CurrentStock: 0, Product: domain.Product{CostPrice: cost("99.99")}},
			},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := domain.ComputeTotalValue(tt.records)
			expected, err := decimal.NewFromString(tt.expected)
			require.NoError(t, err)
			assert.True(t, total.Equal(expected),
				"expected total %s, got %s", expected, total)
		})
	}
}
