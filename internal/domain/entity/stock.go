package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance cantidad actual de un producto en una bodega.
// Se crea al primer movimiento del par y solo cambia al aplicar un Movement.
type StockBalance struct {
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// StockKey identifica un par (bodega, producto).
type StockKey struct {
	WarehouseID string
	ProductID   string
}

// Less orden global de bloqueo: bodega ascendente y luego producto.
func (k StockKey) Less(o StockKey) bool {
	if k.WarehouseID != o.WarehouseID {
		return k.WarehouseID < o.WarehouseID
	}
	return k.ProductID < o.ProductID
}
