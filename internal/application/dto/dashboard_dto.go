package dto

// DashboardSummaryDTO respuesta de GET /api/transactions/dashboard.
// Todos los valores provienen de la misma foto del almacén.
type DashboardSummaryDTO struct {
	TotalStockItems      int                     `json:"total_stock_items"`
	ItemsToBeOrdered     int                     `json:"items_to_be_ordered"`
	ActiveProjects       int                     `json:"active_projects"`
	TotalPurchaseOrders  int                     `json:"total_purchase_orders"`
	RecentTransactions   []TransactionResponse   `json:"recent_transactions"`
	RecentPurchaseOrders []PurchaseOrderResponse `json:"recent_purchase_orders"`
}
