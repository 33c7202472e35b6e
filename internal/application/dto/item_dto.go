package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. El stock inicia en 0.
type CreateItemRequest struct {
	Code         string          `json:"code" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Make         string          `json:"make"`
	ModelNumber  string          `json:"model_number"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	MinimumStock int             `json:"minimum_stock" validate:"min=0"`
}

// UpdateItemRequest actualización campo a campo; nil = sin cambio.
type UpdateItemRequest struct {
	Code         *string          `json:"code" validate:"omitempty,min=1,max=100"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Make         *string          `json:"make"`
	ModelNumber  *string          `json:"model_number"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	MinimumStock *int             `json:"minimum_stock"`
}

// ItemResponse salida de un ítem con su stock actual.
type ItemResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Make            string          `json:"make"`
	ModelNumber     string          `json:"model_number"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	MinimumStock    int             `json:"minimum_stock"`
	CurrentQuantity int             `json:"current_quantity"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
