// internal/handlers/inventory_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/ports"
	"github.com/ammerola/smartstock-be/internal/handlers"
	"github.com/ammerola/smartstock-be/test/helpers"
	"github.com/ammerola/smartstock-be/test/mocks"
)

func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &response))
	return response
}

func TestInventoryHandler_GetInventory(t *testing.T) {
	testItem := helpers.CreateTestItem(func(i *domain.InventoryItem) { i.ID = "item-1" })

	tests := []struct {
		name           string
		id             string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_retrieves_inventory_item",
			id:   "item-1",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().GetItem(gomock.Any(), "item-1").Return(&testItem, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.InventoryItem
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, testItem.ID, response.ID)
				assert.Equal(t, testItem.SKU, response.SKU)
				assert.True(t, testItem.Price.Equal(response.Price))
			},
		},
		{
			name: "item_not_found",
			id:   "missing",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().GetItem(gomock.Any(), "missing").
					Return(nil, fmt.Errorf("%w: missing", domain.ErrItemNotFound))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Inventory item not found", decodeBody(t, body)["error"])
			},
		},
		{
			name: "service_error",
			id:   "item-1",
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().GetItem(gomock.Any(), "item-1").
					Return(nil, errors.New("store unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "Failed to retrieve inventory item", decodeBody(t, body)["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.GetInventory(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestInventoryHandler_ListInventory(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedParams ports.ListParams
		result         []domain.InventoryItem
		expectedTotal  float64
	}{
		{
			name:           "lists_everything",
			query:          "",
			expectedParams: ports.ListParams{},
			result:         []domain.InventoryItem{helpers.CreateTestItem(), helpers.CreateTestItem()},
			expectedTotal:  2,
		},
		{
			name:           "filters_by_search_and_category",
			query:          "?search=logitech&category=Accessories",
			expectedParams: ports.ListParams{Search: "logitech", Category: "Accessories"},
			result:         []domain.InventoryItem{},
			expectedTotal:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			mockService.EXPECT().ListItems(gomock.Any(), tt.expectedParams).Return(tt.result, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ListInventory(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			response := decodeBody(t, w.Body.Bytes())
			assert.Equal(t, tt.expectedTotal, response["total"])
		})
	}
}

func TestInventoryHandler_CreateInventory(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "creates_item",
			body: `{"sku":"SAM-T7-1TB","brand":"Samsung","name":"T7 SSD","category":"electronics","quantity":6,"min_quantity":4,"optimal_quantity":12,"price":"129000"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
						assert.Equal(t, domain.CategoryElectronics, item.Category)
						assert.Equal(t, "T7 SSD", item.Name)
						item.ID = "gen-1"
						return &item, nil
					})
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "gen-1", decodeBody(t, body)["id"])
			},
		},
		{
			name:           "rejects_missing_name",
			body:           `{"sku":"X-1","quantity":1}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				response := decodeBody(t, body)
				assert.Equal(t, "validation failed", response["error"])
				fields := response["fields"].(map[string]interface{})
				assert.Contains(t, fields, "name")
			},
		},
		{
			name:           "rejects_negative_price",
			body:           `{"name":"Cable","price":"-1"}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				fields := decodeBody(t, body)["fields"].(map[string]interface{})
				assert.Contains(t, fields, "price")
			},
		},
		{
			name:           "rejects_malformed_json",
			body:           `{"name":`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_empty_body",
			body:           ``,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "request body is empty", decodeBody(t, body)["error"])
			},
		},
		{
			name: "sku_conflict",
			body: `{"sku":"LOG-MXM-3S-BK","name":"MX Master 3S"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: LOG-MXM-3S-BK", domain.ErrSKUConflict))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown_category_is_rejected_by_domain",
			body: `{"name":"Lamp","category":"Lighting"}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
						return nil, item.Validate()
					})
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateInventory(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestInventoryHandler_UpdateInventory_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockInventoryService(ctrl)
	handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

	mockService.EXPECT().UpdateItem(gomock.Any(), "missing", gomock.Any()).
		Return(nil, domain.ErrItemNotFound)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/inventory/missing", bytes.NewBufferString(`{"name":"Desk"}`))
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.UpdateInventory(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInventoryHandler_DeleteInventory(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockInventoryService(ctrl)
	handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

	mockService.EXPECT().DeleteItem(gomock.Any(), "item-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/inventory/item-1", nil)
	req.SetPathValue("id", "item-1")
	w := httptest.NewRecorder()

	handler.DeleteInventory(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "item-1", decodeBody(t, w.Body.Bytes())["id"])
}

func TestInventoryHandler_AdjustQuantity(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockInventoryService)
		expectedStatus int
	}{
		{
			name: "adjusts_without_ledger_entry_by_default",
			body: `{"delta":-3}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				item := helpers.CreateTestItem(func(i *domain.InventoryItem) { i.Quantity = 3 })
				m.EXPECT().AdjustQuantity(gomock.Any(), "item-1", -3, ports.AdjustOptions{}).Return(&item, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "records_with_note",
			body: `{"delta":2,"record":true,"note":" cycle count "}`,
			setupMocks: func(m *mocks.MockInventoryService) {
				item := helpers.CreateTestItem()
				m.EXPECT().AdjustQuantity(gomock.Any(), "item-1", 2, ports.AdjustOptions{Record: true, Note: "cycle count"}).
					Return(&item, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects_zero_delta",
			body:           `{"delta":0}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_out_of_range_delta",
			body:           `{"delta":9223372036854775807,"record":true}`,
			setupMocks:     func(m *mocks.MockInventoryService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/item-1/adjust", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", "item-1")
			w := httptest.NewRecorder()

			handler.AdjustQuantity(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestInventoryHandler_ListTransactions(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedFilter *ports.TransactionFilter
		expectedStatus int
	}{
		{
			name:           "filters_by_item_and_type",
			query:          "?item_id=item-1&type=in",
			expectedFilter: &ports.TransactionFilter{ItemID: "item-1", Type: domain.TransactionIn},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "caps_limit",
			query:          "?limit=100000",
			expectedFilter: &ports.TransactionFilter{Limit: 500},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejects_unknown_type",
			query:          "?type=SALE",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects_bad_limit",
			query:          "?limit=-2",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockInventoryService(ctrl)
			handler := handlers.NewInventoryHandler(mockService, helpers.TestLogger())

			if tt.expectedFilter != nil {
				mockService.EXPECT().Transactions(gomock.Any(), *tt.expectedFilter).
					Return([]domain.Transaction{{ID: "tx-1", ItemID: "item-1", Type: domain.TransactionIn, Quantity: 5}}, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.ListTransactions(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
