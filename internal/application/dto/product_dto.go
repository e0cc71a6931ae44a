package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto del maestro.
type ProductResponse struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Cost         decimal.Decimal  `json:"cost"`                   // costo por defecto sin historial
	AverageCost  *decimal.Decimal `json:"average_cost,omitempty"` // solo en el detalle
	MinimumStock decimal.Decimal  `json:"minimum_stock"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
