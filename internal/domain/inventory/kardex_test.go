package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

var t0 = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func mov(seq int64, kind entity.MovementKind, qty, cost string, at time.Time) *entity.Movement {
	return &entity.Movement{
		ID:          "m" + string(rune('0'+seq)),
		Seq:         seq,
		ProductID:   "P",
		WarehouseID: "W1",
		Kind:        kind,
		Quantity:    d(qty),
		UnitCost:    d(cost),
		OccurredAt:  at,
	}
}

func collect(movs []*entity.Movement) []entity.KardexRow {
	var rows []entity.KardexRow
	for row := range inv.Replay(movs) {
		rows = append(rows, row)
	}
	return rows
}

func TestReplay_EntradasYSalida(t *testing.T) {
	movs := []*entity.Movement{
		mov(1, entity.MovementEntry, "100", "10", t0),
		mov(2, entity.MovementEntry, "50", "16", t0.Add(time.Hour)),
		mov(3, entity.MovementExit, "30", "0", t0.Add(2*time.Hour)),
	}
	rows := collect(movs)
	require.Len(t, rows, 3)

	assert.True(t, d("100").Equal(rows[0].RunningBalance))
	assert.True(t, d("10").Equal(rows[0].AverageCost))
	assert.True(t, d("1000").Equal(rows[0].RunningValue))

	assert.True(t, d("150").Equal(rows[1].RunningBalance))
	assert.True(t, d("12").Equal(rows[1].AverageCost))
	assert.True(t, d("16").Equal(rows[1].UnitCost), "la entrada reporta su propio costo")
	assert.True(t, d("50").Equal(rows[1].EntryQty))
	assert.True(t, rows[1].ExitQty.IsZero())

	// La salida no mueve el promedio y reporta el vigente.
	assert.True(t, d("120").Equal(rows[2].RunningBalance))
	assert.True(t, d("12").Equal(rows[2].AverageCost))
	assert.True(t, d("12").Equal(rows[2].UnitCost))
	assert.True(t, d("30").Equal(rows[2].ExitQty))
	assert.True(t, rows[2].EntryQty.IsZero())
	assert.True(t, d("1440").Equal(rows[2].RunningValue))
}

func TestReplay_SaldoNegativoSeReportaSinCorregir(t *testing.T) {
	movs := []*entity.Movement{
		mov(1, entity.MovementEntry, "5", "10", t0),
		mov(2, entity.MovementExit, "8", "0", t0.Add(time.Minute)),
		mov(3, entity.MovementEntry, "10", "4", t0.Add(2*time.Minute)),
	}
	rows := collect(movs)
	require.Len(t, rows, 3)
	assert.True(t, d("-3").Equal(rows[1].RunningBalance))
	assert.True(t, d("7").Equal(rows[2].RunningBalance))

	v := inv.Summarize(movs)
	assert.True(t, d("7").Equal(v.Balance))
}

func TestReplay_Reiniciable(t *testing.T) {
	movs := []*entity.Movement{
		mov(1, entity.MovementEntry, "10", "3", t0),
		mov(2, entity.MovementExit, "4", "0", t0.Add(time.Minute)),
	}
	seq := inv.Replay(movs)

	var first, second []entity.KardexRow
	for row := range seq {
		first = append(first, row)
	}
	for row := range seq {
		second = append(second, row)
	}
	assert.Equal(t, first, second)
}

func TestReplay_CorteTemprano(t *testing.T) {
	movs := []*entity.Movement{
		mov(1, entity.MovementEntry, "10", "3", t0),
		mov(2, entity.MovementEntry, "10", "3", t0.Add(time.Minute)),
		mov(3, entity.MovementEntry, "10", "3", t0.Add(2*time.Minute)),
	}
	n := 0
	for range inv.Replay(movs) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestSortMovements_FechaYLuegoSecuencia(t *testing.T) {
	a := mov(3, entity.MovementEntry, "1", "1", t0)
	b := mov(1, entity.MovementEntry, "1", "1", t0.Add(time.Hour))
	c := mov(2, entity.MovementEntry, "1", "1", t0)
	movs := []*entity.Movement{b, a, c}

	inv.SortMovements(movs)

	assert.Equal(t, []int64{2, 3, 1}, []int64{movs[0].Seq, movs[1].Seq, movs[2].Seq})
}

func TestSignedSum(t *testing.T) {
	movs := []*entity.Movement{
		mov(1, entity.MovementEntry, "100", "10", t0),
		mov(2, entity.MovementTransferOut, "60", "10", t0),
		mov(3, entity.MovementAdjustIn, "5", "10", t0),
		mov(4, entity.MovementAdjustOut, "2", "10", t0),
		mov(5, entity.MovementTransferIn, "7", "10", t0),
		mov(6, entity.MovementExit, "10", "10", t0),
	}
	assert.True(t, d("40").Equal(inv.SignedSum(movs)))
}

func TestValuation_Value(t *testing.T) {
	v := inv.Valuation{Balance: d("150"), AverageCost: d("12")}
	assert.True(t, d("1800").Equal(v.Value()))
}
