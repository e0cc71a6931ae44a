package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

func TestListLowStock(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "8", decPtr("10"))
	f.post(t, entity.MovementEntry, w2, p, "4", decPtr("10"))
	f.post(t, entity.MovementEntry, w1, p2, "1", nil)

	items, err := f.engine.Queries.ListLowStock(f.ctx, w1)
	require.NoError(t, err)
	require.Len(t, items, 1, "P2 no tiene mínimo y no participa")
	item := items[0]
	assert.Equal(t, p, item.ProductID)
	assert.Equal(t, "SKU-P", item.SKU)
	assert.Equal(t, w1, item.WarehouseID)
	requireDec(t, "8", item.Quantity)
	requireDec(t, "20", item.MinimumStock)
	requireDec(t, "22", item.SuggestedOrderQty)
	requireDec(t, "10", item.AverageCost)

	global, err := f.engine.Queries.ListLowStock(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, global, 1)
	requireDec(t, "12", global[0].Quantity)
	requireDec(t, "18", global[0].SuggestedOrderQty)
}

func TestListLowStock_SobreElMinimoNoAparece(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "21", nil)
	f.post(t, entity.MovementEntry, w1, p2, "1", nil)

	items, err := f.engine.Queries.ListLowStock(f.ctx, w1)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Exactamente en el mínimo sí aparece.
	f.post(t, entity.MovementExit, w1, p, "1", nil)
	items, err = f.engine.Queries.ListLowStock(f.ctx, w1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	requireDec(t, "10", items[0].SuggestedOrderQty)
}

func TestListLowStock_MinimoCeroConSaldoNegativo(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, wNeg, p, "50", nil)
	f.post(t, entity.MovementExit, wNeg, p2, "5", nil)

	items, err := f.engine.Queries.ListLowStock(f.ctx, wNeg)
	require.NoError(t, err)
	require.Len(t, items, 1, "P está sobre su mínimo; P2 queda en -5 con mínimo 0")
	assert.Equal(t, p2, items[0].ProductID)
	requireDec(t, "-5", items[0].Quantity)
	requireDec(t, "0", items[0].MinimumStock)
	requireDec(t, "5", items[0].SuggestedOrderQty)
}

func TestListLowStock_MinimoCeroSinExistencias(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w2, p, "30", nil)

	items, err := f.engine.Queries.ListLowStock(f.ctx, w2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p2, items[0].ProductID)
	requireDec(t, "0", items[0].Quantity)
}

func (f *fixture) seedValuation(t *testing.T) {
	t.Helper()
	f.post(t, entity.MovementEntry, w1, p, "100", decPtr("10"))
	f.post(t, entity.MovementEntry, w1, p2, "10", decPtr("3"))
	f.post(t, entity.MovementEntry, w2, p2, "5", decPtr("3"))
}

func TestGetValuation(t *testing.T) {
	f := newFixture(t)
	f.seedValuation(t)

	report, err := f.engine.Queries.GetValuation(f.ctx, w1)
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, p, report.Lines[0].ProductID)
	requireDec(t, "1000", report.Lines[0].Value)
	assert.Equal(t, p2, report.Lines[1].ProductID)
	requireDec(t, "30", report.Lines[1].Value)
	requireDec(t, "1030", report.Total)

	all, err := f.engine.Queries.GetValuation(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, all.Lines, 3)
	requireDec(t, "1045", all.Total)

	_, err = f.engine.Queries.GetValuation(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompareWarehouses(t *testing.T) {
	f := newFixture(t)
	f.seedValuation(t)

	cmp, err := f.engine.Queries.CompareWarehouses(f.ctx, []string{w1, w2})
	require.NoError(t, err)
	require.Len(t, cmp.Rows, 2)

	rowP := cmp.Rows[0]
	assert.Equal(t, p, rowP.ProductID)
	requireDec(t, "100", rowP.Quantities[w1])
	requireDec(t, "0", rowP.Quantities[w2])

	rowP2 := cmp.Rows[1]
	requireDec(t, "10", rowP2.Quantities[w1])
	requireDec(t, "5", rowP2.Quantities[w2])
	requireDec(t, "15", rowP2.Values[w2])

	requireDec(t, "1030", cmp.Totals[w1])
	requireDec(t, "15", cmp.Totals[w2])
}

func TestCompareWarehouses_Validacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Queries.CompareWarehouses(f.ctx, []string{w1})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.engine.Queries.CompareWarehouses(f.ctx, []string{w1, "nope"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "40", nil)
	f.post(t, entity.MovementExit, w1, p, "15", nil)
	tr := f.createTransfer(t, w1, w2, entity.TransferLine{ProductID: p, Quantity: dec("5")})
	_, err := f.engine.Transfers.Apply(f.ctx, tr.ID, actor)
	require.NoError(t, err)

	rec, err := f.engine.Queries.Reconcile(f.ctx, w1, p)
	require.NoError(t, err)
	assert.True(t, rec.Consistent())
	requireDec(t, "20", rec.Stored)
	requireDec(t, "20", rec.Computed)

	rec, err = f.engine.Queries.Reconcile(f.ctx, w2, p)
	require.NoError(t, err)
	assert.True(t, rec.Consistent())
	requireDec(t, "5", rec.Stored)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "10", decPtr("8"))

	products, err := f.engine.Catalog.ListProducts(f.ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "SKU-P", products[0].SKU)

	view, err := f.engine.Catalog.GetProduct(f.ctx, p)
	require.NoError(t, err)
	requireDec(t, "8", view.AverageCost)

	_, err = f.engine.Catalog.GetWarehouse(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	whs, err := f.engine.Catalog.ListWarehouses(f.ctx)
	require.NoError(t, err)
	assert.Len(t, whs, 4)
}
