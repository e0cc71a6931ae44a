package inventory

import (
	"iter"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// Valuation estado corrido del kardex: saldo y costo promedio ponderado.
// El saldo puede quedar negativo si el historial es inconsistente; no se corrige.
type Valuation struct {
	Balance     decimal.Decimal
	AverageCost decimal.Decimal
}

// Value saldo por costo promedio.
func (v Valuation) Value() decimal.Decimal {
	return v.Balance.Mul(v.AverageCost)
}

// Apply incorpora un movimiento y devuelve la fila de kardex resultante.
// Las entradas recalculan el promedio; las salidas lo mantienen.
func (v *Valuation) Apply(m *entity.Movement) entity.KardexRow {
	row := entity.KardexRow{
		MovementID:  m.ID,
		Timestamp:   m.OccurredAt,
		WarehouseID: m.WarehouseID,
		Kind:        m.Kind,
		CauseType:   m.CauseType,
		CauseID:     m.CauseID,
		EntryQty:    decimal.Zero,
		ExitQty:     decimal.Zero,
	}
	if m.Kind.IsInbound() {
		v.AverageCost = v.Blend(m.Quantity, m.UnitCost)
		v.Balance = v.Balance.Add(m.Quantity)
		row.EntryQty = m.Quantity
		row.UnitCost = m.UnitCost
	} else {
		v.Balance = v.Balance.Sub(m.Quantity)
		row.ExitQty = m.Quantity
		row.UnitCost = v.AverageCost
	}
	row.RunningBalance = v.Balance
	row.AverageCost = v.AverageCost
	row.RunningValue = v.Value()
	return row
}

// SortMovements ordena por fecha y luego por orden de inserción.
func SortMovements(movs []*entity.Movement) {
	sort.SliceStable(movs, func(i, j int) bool {
		a, b := movs[i], movs[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		return a.Seq < b.Seq
	})
}

// Replay secuencia perezosa de filas de kardex sobre movimientos ya ordenados.
// Cada recorrido arranca desde saldo cero, por lo que es reiniciable y determinista.
func Replay(movs []*entity.Movement) iter.Seq[entity.KardexRow] {
	return func(yield func(entity.KardexRow) bool) {
		var v Valuation
		for _, m := range movs {
			if !yield(v.Apply(m)) {
				return
			}
		}
	}
}

// Summarize saldo y costo promedio finales tras recorrer movs.
func Summarize(movs []*entity.Movement) Valuation {
	var v Valuation
	for _, m := range movs {
		v.Apply(m)
	}
	return v
}

// SignedSum suma con signo de las cantidades; debe coincidir con el saldo almacenado.
func SignedSum(movs []*entity.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movs {
		total = total.Add(m.SignedQuantity())
	}
	return total
}
