package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentReason motivo del ajuste de inventario.
type AdjustmentReason string

const (
	ReasonShrinkage     AdjustmentReason = "SHRINKAGE"
	ReasonSurplus       AdjustmentReason = "SURPLUS"
	ReasonPhysicalCount AdjustmentReason = "PHYSICAL_COUNT"
	ReasonOther         AdjustmentReason = "OTHER"
)

// Valid indica si el motivo es conocido.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonShrinkage, ReasonSurplus, ReasonPhysicalCount, ReasonOther:
		return true
	}
	return false
}

// AdjustmentDirection sentido de una línea de ajuste.
type AdjustmentDirection string

const (
	DirectionIn  AdjustmentDirection = "IN"
	DirectionOut AdjustmentDirection = "OUT"
)

// MovementKind tipo de movimiento que genera la línea.
func (d AdjustmentDirection) MovementKind() MovementKind {
	if d == DirectionIn {
		return MovementAdjustIn
	}
	return MovementAdjustOut
}

// Adjustment encabezado de ajuste de inventario sobre una bodega.
type Adjustment struct {
	ID          string
	WarehouseID string
	Reason      AdjustmentReason
	State       DocumentState
	Note        string
	Lines       []AdjustmentLine
	CreatedBy   string
	CreatedAt   time.Time
	AppliedBy   string
	AppliedAt   *time.Time
	AnulledBy   string
	AnulledAt   *time.Time
}

// AdjustmentLine línea de ajuste. UnitCost nil = costo promedio actual del producto.
type AdjustmentLine struct {
	ProductID string
	Quantity  decimal.Decimal
	Direction AdjustmentDirection
	UnitCost  *decimal.Decimal
}

// AdjustmentFilter filtros para ListAdjustments.
type AdjustmentFilter struct {
	WarehouseID string
	State       DocumentState
	Reason      AdjustmentReason
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
