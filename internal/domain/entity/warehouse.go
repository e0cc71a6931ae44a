package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse bodega con su política de stock.
// StockFloor es el mínimo permitido (por defecto 0) salvo que AllowNegativeStock esté activo.
type Warehouse struct {
	ID                 string
	Name               string
	AllowNegativeStock bool
	StockFloor         decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
