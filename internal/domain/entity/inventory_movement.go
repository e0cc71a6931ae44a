package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de inventario.
type MovementKind string

// Tipos de movimiento. Los IN suman al saldo, los OUT restan.
const (
	MovementEntry       MovementKind = "ENTRY"
	MovementExit        MovementKind = "EXIT"
	MovementTransferOut MovementKind = "TRANSFER_OUT"
	MovementTransferIn  MovementKind = "TRANSFER_IN"
	MovementAdjustIn    MovementKind = "ADJUST_IN"
	MovementAdjustOut   MovementKind = "ADJUST_OUT"
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementTransferOut, MovementTransferIn, MovementAdjustIn, MovementAdjustOut:
		return true
	}
	return false
}

// IsInbound true para ENTRY, TRANSFER_IN y ADJUST_IN.
func (k MovementKind) IsInbound() bool {
	return k == MovementEntry || k == MovementTransferIn || k == MovementAdjustIn
}

// Opposite devuelve el tipo que compensa a k.
func (k MovementKind) Opposite() MovementKind {
	switch k {
	case MovementEntry:
		return MovementExit
	case MovementExit:
		return MovementEntry
	case MovementTransferOut:
		return MovementTransferIn
	case MovementTransferIn:
		return MovementTransferOut
	case MovementAdjustIn:
		return MovementAdjustOut
	case MovementAdjustOut:
		return MovementAdjustIn
	}
	return k
}

// Tipos de causa que enlazan un movimiento con el documento que lo generó.
const (
	CauseAdjustment = "ADJUSTMENT"
	CauseTransfer   = "TRANSFER"
)

// Movement registro inmutable de un cambio de stock. Quantity siempre es positiva;
// el signo lo da Kind. Las correcciones son movimientos nuevos, nunca ediciones.
type Movement struct {
	ID          string
	Seq         int64 // orden de inserción, desempata movimientos con la misma fecha
	ProductID   string
	WarehouseID string
	Kind        MovementKind
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	OccurredAt  time.Time
	CauseType   string
	CauseID     string
	ReversalOf  string // id del movimiento que compensa, vacío si es original
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}

// SignedQuantity cantidad con signo según el tipo.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Kind.IsInbound() {
		return m.Quantity
	}
	return m.Quantity.Neg()
}

// TotalCost cantidad por costo unitario.
func (m *Movement) TotalCost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}

// MovementFilter filtros para listar movimientos de un producto.
type MovementFilter struct {
	ProductID   string
	WarehouseID string // vacío = todas las bodegas
	From        *time.Time
	To          *time.Time
}
