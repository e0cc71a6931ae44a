package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// KardexRow fila del kardex: saldo corrido y costo promedio ponderado tras un movimiento.
type KardexRow struct {
	MovementID     string
	Timestamp      time.Time
	WarehouseID    string
	Kind           MovementKind
	CauseType      string
	CauseID        string
	EntryQty       decimal.Decimal
	ExitQty        decimal.Decimal
	RunningBalance decimal.Decimal
	UnitCost       decimal.Decimal // costo propio en entradas, promedio vigente en salidas
	AverageCost    decimal.Decimal
	RunningValue   decimal.Decimal
}
