package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseResponse salida de una bodega con su política de stock.
type WarehouseResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	StockFloor         decimal.Decimal `json:"stock_floor"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// WarehouseListResponse lista de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
