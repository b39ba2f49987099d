// internal/handlers/export_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/smartstock-be/internal/adapters/documents"
	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/core/reorder"
	"github.com/ammerola/smartstock-be/internal/handlers"
	"github.com/ammerola/smartstock-be/test/helpers"
	"github.com/ammerola/smartstock-be/test/mocks"
)

func TestExportHandler_ExportJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockInventoryService(ctrl)
	handler := handlers.NewExportHandler(mockService, helpers.TestLogger())

	snap := domain.Snapshot{
		Items:        []domain.InventoryItem{helpers.CreateTestItem()},
		Transactions: []domain.Transaction{{ID: "tx-1", Type: domain.TransactionIn, Quantity: 5}},
	}
	mockService.EXPECT().Snapshot(gomock.Any()).Return(snap)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/json", nil)
	w := httptest.NewRecorder()

	handler.ExportJSON(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	var response handlers.JSONExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Items, 1)
	assert.Len(t, response.Transactions, 1)
	assert.Equal(t, 1, response.Metadata.TotalItems)
	assert.Equal(t, 1, response.Metadata.TotalTransactions)
}

func TestExportHandler_ExportExcel(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.InventoryItem) { i.ID = "item-1" })

	tests := []struct {
		name           string
		sheet          string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		expectedRows   int
	}{
		{
			name: "default_sheet_is_inventory",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().ListItems(gomock.Any(), ports.ListParams{}).
					Return([]domain.InventoryItem{item, item}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedRows:   3,
		},
		{
			name:  "reorder_sheet",
			sheet: "reorder",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().ReorderList(gomock.Any()).Return(&ports.ReorderReport{
					Candidates: []reorder.Candidate{{Item: item, NeededQuantity: 6, NeededAmount: decimal.NewFromInt(774000)}},
					TotalValue: decimal.NewFromInt(774000),
				})
			},
			expectedStatus: http.StatusOK,
			expectedRows:   2,
		},
		{
			name:  "transactions_sheet",
			sheet: "transactions",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().Transactions(gomock.Any(), ports.TransactionFilter{}).
					Return([]domain.Transaction{{ID: "tx-1", Type: domain.TransactionOut, Quantity: 2}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedRows:   2,
		},
		{
			name:           "unknown_sheet",
			sheet:          "sales",
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service_error",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().ListItems(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewExportHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			target := "/api/v1/export/excel"
			if tt.sheet != "" {
				target += "?sheet=" + tt.sheet
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			w := httptest.NewRecorder()

			handler.ExportExcel(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			assert.Equal(t, documents.ContentTypeXLSX, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

			file, err := xlsx.OpenBinary(w.Body.Bytes())
			require.NoError(t, err)
			require.NotEmpty(t, file.Sheets)
			assert.Equal(t, tt.expectedRows, file.Sheets[0].MaxRow)
		})
	}
}

func TestExportHandler_Reset(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "resets_data", expectedStatus: http.StatusOK},
		{name: "reset_failure", err: errors.New("persist failed"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewExportHandler(mockService, helpers.TestLogger())

			mockService.EXPECT().Reset(gomock.Any()).Return(tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reset", nil)
			w := httptest.NewRecorder()

			handler.Reset(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
