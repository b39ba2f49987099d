// internal/handlers/routes.go
package handlers

import "net/http"

// APIPrefix is the versioned root of every API route
const APIPrefix = "/api/v1"

// Handlers bundles every HTTP handler registered on the router
type Handlers struct {
	Inventory     *InventoryHandler
	Dashboard     *DashboardHandler
	PurchaseOrder *PurchaseOrderHandler
	Import        *ImportHandler
	Export        *ExportHandler
	Health        *HealthHandler
	Metrics       http.Handler
}

// RegisterRoutes registers all routes using Go 1.22 method patterns
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	api := APIPrefix

	if h.Health != nil {
		mux.HandleFunc("GET /health", h.Health.Health)
		mux.HandleFunc("GET /ready", h.Health.Readiness)
		mux.HandleFunc("GET "+api+"/health", h.Health.Health)
	}
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	// Inventory
	mux.HandleFunc("GET "+api+"/inventory", h.Inventory.ListInventory)
	mux.HandleFunc("GET "+api+"/inventory/{id}", h.Inventory.GetInventory)
	mux.HandleFunc("POST "+api+"/inventory", h.Inventory.CreateInventory)
	mux.HandleFunc("PUT "+api+"/inventory/{id}", h.Inventory.UpdateInventory)
	mux.HandleFunc("DELETE "+api+"/inventory/{id}", h.Inventory.DeleteInventory)
	mux.HandleFunc("POST "+api+"/inventory/{id}/adjust", h.Inventory.AdjustQuantity)
	mux.HandleFunc("GET "+api+"/transactions", h.Inventory.ListTransactions)

	// Reorder and purchase orders
	mux.HandleFunc("GET "+api+"/reorder", h.Dashboard.GetReorderList)
	mux.HandleFunc("GET "+api+"/purchase-order", h.PurchaseOrder.GetState)
	mux.HandleFunc("POST "+api+"/purchase-order/toggle/{id}", h.PurchaseOrder.Toggle)
	mux.HandleFunc("POST "+api+"/purchase-order/select-all", h.PurchaseOrder.SelectAll)
	mux.HandleFunc("POST "+api+"/purchase-order/preview", h.PurchaseOrder.Preview)
	mux.HandleFunc("POST "+api+"/purchase-order/cancel", h.PurchaseOrder.Cancel)
	mux.HandleFunc("POST "+api+"/purchase-order/commit", h.PurchaseOrder.Commit)

	// Dashboard
	mux.HandleFunc("GET "+api+"/dashboard", h.Dashboard.GetDashboard)
	mux.HandleFunc("GET "+api+"/dashboard/insights", h.Dashboard.GetInsights)

	// Import
	mux.HandleFunc("POST "+api+"/import/items", h.Import.ImportItems)
	mux.HandleFunc("POST "+api+"/import/text", h.Import.ImportText)
	mux.HandleFunc("POST "+api+"/import/transactions", h.Import.ImportTransactions)
	mux.HandleFunc("POST "+api+"/import/csv", h.Import.ImportCSV)
	mux.HandleFunc("POST "+api+"/import/excel", h.Import.ImportExcel)
	mux.HandleFunc("POST "+api+"/import/pdf", h.Import.ImportPDF)
	mux.HandleFunc("GET "+api+"/import/status/{jobId}", h.Import.ImportStatus)

	// Export and admin
	mux.HandleFunc("GET "+api+"/export/excel", h.Export.ExportExcel)
	mux.HandleFunc("GET "+api+"/export/json", h.Export.ExportJSON)
	mux.HandleFunc("POST "+api+"/admin/reset", h.Export.Reset)
}
