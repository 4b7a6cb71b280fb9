// internal/handlers/inventory_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/internal/core/ports"
	"github.com/avelez/stockroom-be/internal/handlers"
	"github.com/avelez/stockroom-be/test/helpers"
	"github.com/avelez/stockroom-be/test/mocks"
)

func TestInventoryHandler_ListInventory(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_lists_records",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					FetchAll(gomock.Any()).
					Return([]domain.InventoryRecord{
						*helpers.CreateTestInventoryRecord(),
						*helpers.CreateTestInventoryRecord(),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					Records []domain.InventoryRecord `json:"records"`
					Count   int                      `json:"count"`
				}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Len(t, response.Records, 2)
				assert.Equal(t, 2, response.Count)
			},
		},
		{
			name: "service_error",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					FetchAll(gomock.Any()).
					Return(nil, &domain.RetrievalError{Op: "inventory records", Err: errors.New("down")})
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to list inventory records", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/inventory", nil)
			w := httptest.NewRecorder()

			handler.ListInventory(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestInventoryHandler_AdjustStock(t *testing.T) {
	testRecord := helpers.CreateTestInventoryRecord()
	validBody := `{"quantity": 5, "type": "in", "reason": "restock"}`

	tests := []struct {
		name           string
		productID      string
		body           string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:      "successfully_adjusts_stock",
			productID: testRecord.ProductID.String(),
			body:      validBody,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), domain.StockAdjustment{
						ProductID: testRecord.ProductID,
						Quantity:  5,
						Type:      domain.MovementIn,
						Reason:    "restock",
					}).
					Return(testRecord, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.InventoryRecord
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, testRecord.ID, response.ID)
				assert.Equal(t, testRecord.CurrentStock, response.CurrentStock)
			},
		},
		{
			name:           "invalid_uuid_format",
			productID:      "not-a-uuid",
			body:           validBody,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid product ID format", response["error"])
			},
		},
		{
			name:           "malformed_body",
			productID:      testRecord.ProductID.String(),
			body:           `{"quantity": `,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid request body", response["error"])
			},
		},
		{
			name:      "validation_error_maps_to_422",
			productID: testRecord.ProductID.String(),
			body:      `{"quantity": -5, "type": "in"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), gomock.Any()).
					Return(nil, domain.NewValidationError("quantity must be a positive integer"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Contains(t, response["error"], "quantity must be a positive integer")
			},
		},
		{
			name:      "negative_stock_maps_to_422_with_details",
			productID: testRecord.ProductID.String(),
			body:      `{"quantity": 100, "type": "out"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), gomock.Any()).
					Return(nil, &domain.NegativeStockError{
						ProductID:    testRecord.ProductID,
						CurrentStock: 25,
						Requested:    100,
					})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Insufficient stock for adjustment", response["error"])
				assert.EqualValues(t, 25, response["current_stock"])
				assert.EqualValues(t, 100, response["requested"])
			},
		},
		{
			name:      "record_not_found_maps_to_404",
			productID: testRecord.ProductID.String(),
			body:      validBody,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), gomock.Any()).
					Return(nil, &domain.NotFoundError{ProductID: testRecord.ProductID})
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Inventory record not found", response["error"])
			},
		},
		{
			name:      "contention_maps_to_409",
			productID: testRecord.ProductID.String(),
			body:      validBody,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), gomock.Any()).
					Return(nil, &domain.ContentionError{ProductID: testRecord.ProductID, Attempts: 3})
			},
			expectedStatus: http.StatusConflict,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Contains(t, response["error"], "retry")
			},
		},
		{
			name:      "timeout_maps_to_503",
			productID: testRecord.ProductID.String(),
			body:      validBody,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), gomock.Any()).
					Return(nil, &domain.TimeoutError{Op: "stock adjustment", Err: errors.New("deadline exceeded")})
			},
			expectedStatus: http.StatusServiceUnavailable,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Contains(t, response["error"], "no changes were applied")
			},
		},
		{
			name:      "store_error_maps_to_500",
			productID: testRecord.ProductID.String(),
			body:      validBody,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					AdjustStock(gomock.Any(), gomock.Any()).
					Return(nil, &domain.StoreError{Op: "adjust stock", Err: errors.New("disk full")})
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to adjust stock", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/inventory/"+tt.productID+"/adjust",
				bytes.NewBufferString(tt.body))
			req.SetPathValue("productId", tt.productID)
			w := httptest.NewRecorder()

			handler.AdjustStock(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestInventoryHandler_GetMovements(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name           string
		productID      string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:      "successfully_returns_ledger",
			productID: productID.String(),
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					GetMovements(gomock.Any(), productID).
					Return([]domain.StockMovement{
						helpers.CreateTestMovement(productID),
						helpers.CreateTestMovement(productID),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					Movements []domain.StockMovement `json:"movements"`
					Count     int                    `json:"count"`
				}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Len(t, response.Movements, 2)
				assert.Equal(t, 2, response.Count)
			},
		},
		{
			name:      "empty_ledger_returns_ok",
			productID: productID.String(),
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					GetMovements(gomock.Any(), productID).
					Return([]domain.StockMovement{}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response struct {
					Count int `json:"count"`
				}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, 0, response.Count)
			},
		},
		{
			name:           "invalid_uuid_format",
			productID:      "not-a-uuid",
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid product ID format", response["error"])
			},
		},
		{
			name:      "service_error",
			productID: productID.String(),
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().
					GetMovements(gomock.Any(), productID).
					Return(nil, &domain.RetrievalError{Op: "stock movements", Err: errors.New("down")})
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to retrieve stock movements", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/inventory/"+tt.productID+"/movements", nil)
			req.SetPathValue("productId", tt.productID)
			w := httptest.NewRecorder()

			handler.GetMovements(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestInventoryHandler_TotalValue(t *testing.T) {
	t.Run("returns_valuation_report", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockInventoryService(ctrl)
		handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			TotalValue(gomock.Any()).
			Return(&ports.ValuationReport{
				TotalValue:  decimal.NewFromFloat(1234.56),
				RecordCount: 7,
			}, nil)

		req := httptest.NewRequest("GET", "/api/v1/inventory/value", nil)
		w := httptest.NewRecorder()

		handler.TotalValue(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response ports.ValuationReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, decimal.NewFromFloat(1234.56).Equal(response.TotalValue))
		assert.Equal(t, 7, response.RecordCount)
	})

	t.Run("service_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockInventoryService(ctrl)
		handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			TotalValue(gomock.Any()).
			Return(nil, &domain.RetrievalError{Op: "inventory valuation", Err: errors.New("down")})

		req := httptest.NewRequest("GET", "/api/v1/inventory/value", nil)
		w := httptest.NewRecorder()

		handler.TotalValue(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
