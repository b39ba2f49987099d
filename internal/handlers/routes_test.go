package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/purchaseorder"
	"github.com/ammerola/smartstock-be/internal/handlers"
	"github.com/ammerola/smartstock-be/internal/workers"
	"github.com/ammerola/smartstock-be/test/helpers"
	"github.com/ammerola/smartstock-be/test/mocks"
)

func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	inventory := mocks.NewMockInventoryService(ctrl)
	insights := mocks.NewMockInsightService(ctrl)
	logger := helpers.TestLogger()

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, handlers.Handlers{
		Inventory:     handlers.NewInventoryHandler(inventory, logger),
		Dashboard:     handlers.NewDashboardHandler(inventory, insights, logger),
		PurchaseOrder: handlers.NewPurchaseOrderHandler(inventory, logger),
		Import:        handlers.NewImportHandler(inventory, &workers.Dispatcher{}, handlers.UploadLimits{}, logger),
		Export:        handlers.NewExportHandler(inventory, logger),
	})

	item := helpers.CreateTestItem(func(i *domain.InventoryItem) { i.ID = "item-7" })

	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func()
		expectedStatus int
	}{
		{
			name:   "item_id_path_value",
			method: http.MethodGet,
			path:   "/api/v1/inventory/item-7",
			setupMocks: func() {
				inventory.EXPECT().GetItem(gomock.Any(), "item-7").Return(&item, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "toggle_id_path_value",
			method: http.MethodPost,
			path:   "/api/v1/purchase-order/toggle/item-7",
			setupMocks: func() {
				inventory.EXPECT().TogglePurchaseSelection(gomock.Any(), "item-7").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "purchase_order_state",
			method: http.MethodGet,
			path:   "/api/v1/purchase-order",
			setupMocks: func() {
				inventory.EXPECT().PurchaseOrderState(gomock.Any()).Return(purchaseorder.View{State: purchaseorder.StateSelecting})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong_method",
			method:         http.MethodPatch,
			path:           "/api/v1/inventory/item-7",
			setupMocks:     func() {},
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unknown_route",
			method:         http.MethodGet,
			path:           "/api/v1/sales",
			setupMocks:     func() {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMocks()

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
