package dto

import (
	"time"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// UpdateStockRequest fija la cantidad disponible de un ítem (ajuste administrativo).
type UpdateStockRequest struct {
	Quantity *int `json:"current_quantity" validate:"required,min=0"`
}

// StockResponse stock de un ítem.
type StockResponse struct {
	ItemID          string    `json:"item_id"`
	ItemCode        string    `json:"item_code,omitempty"`
	ItemName        string    `json:"item_name,omitempty"`
	CurrentQuantity int       `json:"current_quantity"`
	LastUpdated     time.Time `json:"last_updated"`
}

// TransactionResponse fila del libro de movimientos.
type TransactionResponse struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	Action          string    `json:"action"`
	Quantity        int       `json:"quantity"`
	PurchaseOrderID *string   `json:"purchase_order_id,omitempty"`
	RequirementID   *string   `json:"requirement_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShortageRequirementResponse requerimiento que aporta a un faltante.
type ShortageRequirementResponse struct {
	RequirementID string `json:"requirement_id"`
	ProjectName   string `json:"project_name"`
	Outstanding   int    `json:"outstanding"`
}

// ShortageResponse ítem por pedir.
type ShortageResponse struct {
	ItemID        string                        `json:"item_id"`
	ItemCode      string                        `json:"item_code"`
	ItemName      string                        `json:"item_name"`
	TotalRequired int                           `json:"total_required"`
	CurrentStock  int                           `json:"current_stock"`
	Shortage      int                           `json:"shortage"`
	Requirements  []ShortageRequirementResponse `json:"requirements"`
}

// NewStockResponse mapea stock (e ítem opcional) a la salida.
func NewStockResponse(s *entity.Stock, item *entity.Item) StockResponse {
	out := StockResponse{
		ItemID:          s.ItemID,
		CurrentQuantity: s.CurrentQuantity,
		LastUpdated:     s.LastUpdated,
	}
	if item != nil {
		out.ItemCode = item.Code
		out.ItemName = item.Name
	}
	return out
}

// NewTransactionResponse mapea un movimiento a la salida.
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ItemID:          t.ItemID,
		Action:          string(t.Action),
		Quantity:        t.Quantity,
		PurchaseOrderID: t.PurchaseOrderID,
		RequirementID:   t.RequirementID,
		CreatedAt:       t.CreatedAt,
	}
}

// NewTransactionListResponse mapea una lista de movimientos.
func NewTransactionListResponse(list []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

// NewShortageListResponse mapea los faltantes calculados.
func NewShortageListResponse(list []entity.Shortage) []ShortageResponse {
	out := make([]ShortageResponse, 0, len(list))
	for _, s := range list {
		reqs := make([]ShortageRequirementResponse, 0, len(s.Requirements))
		for _, r := range s.Requirements {
			reqs = append(reqs, ShortageRequirementResponse{
				RequirementID: r.RequirementID,
				ProjectName:   r.ProjectName,
				Outstanding:   r.Outstanding,
			})
		}
		out = append(out, ShortageResponse{
			ItemID:        s.Item.ID,
			ItemCode:      s.Item.Code,
			ItemName:      s.Item.Name,
			TotalRequired: s.TotalRequired,
			CurrentStock:  s.CurrentStock,
			Shortage:      s.Shortage,
			Requirements:  reqs,
		})
	}
	return out
}
