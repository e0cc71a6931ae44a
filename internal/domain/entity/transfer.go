package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer encabezado de traslado entre dos bodegas distintas.
type Transfer struct {
	ID                     string
	OriginWarehouseID      string
	DestinationWarehouseID string
	State                  DocumentState
	Note                   string
	Lines                  []TransferLine
	CreatedBy              string
	CreatedAt              time.Time
	AppliedBy              string
	AppliedAt              *time.Time
	AnulledBy              string
	AnulledAt              *time.Time
}

// TransferLine línea de traslado. UnitCost nil = costo promedio actual del producto.
type TransferLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
}

// TransferFilter filtros para ListTransfers.
type TransferFilter struct {
	OriginWarehouseID      string
	DestinationWarehouseID string
	State                  DocumentState
	From                   *time.Time
	To                     *time.Time
	Limit                  int
	Offset                 int
}
