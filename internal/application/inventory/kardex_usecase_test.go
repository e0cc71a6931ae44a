package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

var (
	day1 = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
	day3 = day1.AddDate(0, 0, 2)
)

func (f *fixture) postAt(t *testing.T, kind entity.MovementKind, qty, cost string, at time.Time) {
	t.Helper()
	in := inventory.PostMovementInput{
		Kind:        kind,
		WarehouseID: w1,
		ProductID:   p,
		Quantity:    dec(qty),
		OccurredAt:  &at,
	}
	if cost != "" {
		in.UnitCost = decPtr(cost)
	}
	_, err := f.engine.Movements.PostMovement(f.ctx, in, actor)
	require.NoError(t, err)
}

func (f *fixture) seedKardex(t *testing.T) {
	t.Helper()
	// Se publican fuera de orden: el kardex ordena por fecha de ocurrencia.
	f.postAt(t, entity.MovementEntry, "50", "16", day2)
	f.postAt(t, entity.MovementEntry, "100", "10", day1)
	f.postAt(t, entity.MovementExit, "30", "", day3)
}

func TestKardex_GetKardexCompleto(t *testing.T) {
	f := newFixture(t)
	f.seedKardex(t)

	report, err := f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p})
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)

	assert.True(t, day1.Equal(report.Rows[0].Timestamp))
	requireDec(t, "100", report.Rows[0].RunningBalance)
	requireDec(t, "10", report.Rows[0].AverageCost)
	requireDec(t, "150", report.Rows[1].RunningBalance)
	requireDec(t, "12", report.Rows[1].AverageCost)
	requireDec(t, "30", report.Rows[2].ExitQty)
	requireDec(t, "12", report.Rows[2].UnitCost)

	assert.True(t, report.Opening.Balance.IsZero())
	requireDec(t, "120", report.Closing.Balance)
	requireDec(t, "12", report.Closing.AverageCost)
	requireDec(t, "1440", report.ClosingValue())
}

func TestKardex_DesdeCalculaApertura(t *testing.T) {
	f := newFixture(t)
	f.seedKardex(t)

	report, err := f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p, From: &day2})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	requireDec(t, "100", report.Opening.Balance)
	requireDec(t, "10", report.Opening.AverageCost)
	requireDec(t, "120", report.Closing.Balance)
}

func TestKardex_HastaInclusivo(t *testing.T) {
	f := newFixture(t)
	f.seedKardex(t)

	report, err := f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p, To: &day2})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	requireDec(t, "150", report.Closing.Balance)
}

func TestKardex_RowsPerezosoYReiniciable(t *testing.T) {
	f := newFixture(t)
	f.seedKardex(t)

	seq := f.engine.Kardex.Rows(f.ctx, inventory.KardexQuery{ProductID: p, From: &day2})
	var first []entity.KardexRow
	for row, err := range seq {
		require.NoError(t, err)
		first = append(first, row)
	}
	require.Len(t, first, 2)
	requireDec(t, "150", first[0].RunningBalance)

	// Un movimiento nuevo aparece en el siguiente recorrido.
	f.postAt(t, entity.MovementEntry, "10", "12", day3.Add(time.Hour))
	n := 0
	for _, err := range seq {
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 3, n)
}

func TestKardex_RowsPropagaError(t *testing.T) {
	f := newFixture(t)
	var got error
	for _, err := range f.engine.Kardex.Rows(f.ctx, inventory.KardexQuery{ProductID: "nope"}) {
		got = err
	}
	require.ErrorIs(t, got, domain.ErrNotFound)
}

func TestKardex_PorBodega(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "100", decPtr("10"))
	f.post(t, entity.MovementEntry, w1, p, "50", decPtr("16"))
	tr := f.createTransfer(t, w1, w2, entity.TransferLine{ProductID: p, Quantity: dec("60")})
	_, err := f.engine.Transfers.Apply(f.ctx, tr.ID, actor)
	require.NoError(t, err)

	report, err := f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p, WarehouseID: w2})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, entity.MovementTransferIn, row.Kind)
	assert.Equal(t, entity.CauseTransfer, row.CauseType)
	assert.Equal(t, tr.ID, row.CauseID)
	requireDec(t, "12", row.UnitCost)
	requireDec(t, "720", report.ClosingValue())
}

func TestKardex_SaldoNegativoSeReporta(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementExit, wNeg, p, "4", nil)

	report, err := f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p, WarehouseID: wNeg})
	require.NoError(t, err)
	requireDec(t, "-4", report.Closing.Balance)
}

func TestKardex_Validacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p, From: &day2, To: &day1})
	require.ErrorAs(t, err, &verr)

	_, err = f.engine.Kardex.GetKardex(f.ctx, inventory.KardexQuery{ProductID: p, WarehouseID: "nope"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKardex_CostoPromedioSinHistorial(t *testing.T) {
	f := newFixture(t)
	cost, err := f.engine.Kardex.CurrentAverageCost(f.ctx, p2)
	require.NoError(t, err)
	requireDec(t, "3", cost)
}
