// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/avelez/stockroom-be/internal/adapters/redis_adapter"
	"github.com/avelez/stockroom-be/internal/core/domain"
	"github.com/avelez/stockroom-be/internal/core/ports"
)

// JSONExportResponse represents the JSON export response structure
type JSONExportResponse struct {
	Records  []domain.InventoryRecord `json:"records"`
	Metadata ExportMetadata           `json:"metadata"`
}

// ExportMetadata contains metadata about the export
type ExportMetadata struct {
	ExportDate   time.Time `json:"export_date"`
	TotalRecords int       `json:"total_records"`
	TotalValue   string    `json:"total_value"`
}

// ExportHandler handles export operations
type ExportHandler struct {
	inventoryService ports.InventoryService
	cache            ports.CacheRepository
	logger           *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(inventoryService ports.InventoryService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		inventoryService: inventoryService,
		cache:            cache,
		logger:           logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/xlsx
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.inventoryService.FetchAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve inventory for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(records)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("stock_report_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "excel export completed",
		slog.Int("total_rows", len(records)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Serve a recent export if one is cached
	cacheKey := redis_a.BuildKey(redis_a.PrefixReport, "export", "json")
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	records, err := h.inventoryService.FetchAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve inventory for export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	response := JSONExportResponse{
		Records: records,
		Metadata: ExportMetadata{
			ExportDate:   time.Now(),
			TotalRecords: len(records),
			TotalValue:   domain.ComputeTotalValue(records).StringFixed(2),
		},
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	// Cache the rendered export without blocking the response
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "json export completed",
		slog.Int("total_rows", len(records)))
}

// generateExcelFile creates an Excel workbook in memory from the records
func (h *ExportHandler) generateExcelFile(records []domain.InventoryRecord) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Stock")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"Product", "SKU", "Current Stock", "Min Level", "Max Level",
		"Status", "Cost Price", "Stock Value", "Last Restocked", "Updated At",
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range records {
		record := &records[i]
		row := sheet.AddRow()
		for _, value := range h.recordToRow(record) {
			cell := row.AddCell()
			cell.Value = value
		}
	}

	// SetColWidth columns are 1-based
	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

// recordToRow converts one inventory record to Excel row values
func (h *ExportHandler) recordToRow(record *domain.InventoryRecord) []string {
	cost := ""
	value := ""
	if record.Product.CostPrice != nil {
		cost = record.Product.CostPrice.StringFixed(2)
		value = record.Product.CostPrice.
			Mul(decimal.NewFromInt(int64(record.CurrentStock))).StringFixed(2)
	}

	restocked := ""
	if record.LastRestockedAt != nil {
		restocked = record.LastRestockedAt.Format("2006-01-02 15:04:05")
	}

	return []string{
		record.Product.Name,
		record.Product.SKU,
		strconv.Itoa(record.CurrentStock),
		strconv.Itoa(record.MinStockLevel),
		strconv.Itoa(record.MaxStockLevel),
		string(record.StockStatus),
		cost,
		value,
		restocked,
		record.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (h *ExportHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
