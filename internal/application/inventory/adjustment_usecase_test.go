package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

func (f *fixture) createAdjustment(t *testing.T, reason entity.AdjustmentReason, lines ...entity.AdjustmentLine) *entity.Adjustment {
	t.Helper()
	adj, err := f.engine.Adjustments.Create(f.ctx, inventory.CreateAdjustmentInput{
		WarehouseID: w1,
		Reason:      reason,
		Note:        "conteo semanal",
		Lines:       lines,
	}, actor)
	require.NoError(t, err)
	return adj
}

func TestAdjustment_CreateNoTocaSaldos(t *testing.T) {
	f := newFixture(t)
	adj := f.createAdjustment(t, entity.ReasonSurplus,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("4"), Direction: entity.DirectionIn})

	assert.Equal(t, entity.StatePending, adj.State)
	assert.Equal(t, actor.UserID, adj.CreatedBy)
	requireDec(t, "0", f.balance(t, w1, p))
	assert.Equal(t, 0, f.store.MovementCount())
}

func TestAdjustment_CreateValidacion(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		in   inventory.CreateAdjustmentInput
	}{
		{"sin líneas", inventory.CreateAdjustmentInput{WarehouseID: w1, Reason: entity.ReasonOther}},
		{"motivo desconocido", inventory.CreateAdjustmentInput{WarehouseID: w1, Reason: "ROBO",
			Lines: []entity.AdjustmentLine{{ProductID: p, Quantity: dec("1"), Direction: entity.DirectionIn}}}},
		{"cantidad cero", inventory.CreateAdjustmentInput{WarehouseID: w1, Reason: entity.ReasonOther,
			Lines: []entity.AdjustmentLine{{ProductID: p, Quantity: dec("0"), Direction: entity.DirectionIn}}}},
		{"cantidad con más de 6 decimales", inventory.CreateAdjustmentInput{WarehouseID: w1, Reason: entity.ReasonOther,
			Lines: []entity.AdjustmentLine{{ProductID: p, Quantity: dec("0.0000001"), Direction: entity.DirectionIn}}}},
		{"dirección inválida", inventory.CreateAdjustmentInput{WarehouseID: w1, Reason: entity.ReasonOther,
			Lines: []entity.AdjustmentLine{{ProductID: p, Quantity: dec("1"), Direction: "UP"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Adjustments.Create(f.ctx, tt.in, actor)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	_, err := f.engine.Adjustments.Create(f.ctx, inventory.CreateAdjustmentInput{
		WarehouseID: w1, Reason: entity.ReasonOther,
		Lines: []entity.AdjustmentLine{{ProductID: "nope", Quantity: dec("1"), Direction: entity.DirectionIn}},
	}, actor)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustment_ApplyPublicaUnMovimientoPorLinea(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "10", decPtr("10"))
	adj := f.createAdjustment(t, entity.ReasonPhysicalCount,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("3"), Direction: entity.DirectionOut},
		entity.AdjustmentLine{ProductID: p2, Quantity: dec("7"), Direction: entity.DirectionIn, UnitCost: decPtr("2.5")},
	)

	applied, err := f.engine.Adjustments.Apply(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.StateApplied, applied.State)
	assert.Equal(t, actor.UserID, applied.AppliedBy)
	require.NotNil(t, applied.AppliedAt)

	requireDec(t, "7", f.balance(t, w1, p))
	requireDec(t, "7", f.balance(t, w1, p2))

	movs, err := f.engine.Movements.ListByCause(f.ctx, entity.CauseAdjustment, adj.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementAdjustOut, movs[0].Kind)
	requireDec(t, "10", movs[0].UnitCost)
	assert.Equal(t, entity.MovementAdjustIn, movs[1].Kind)
	requireDec(t, "2.5", movs[1].UnitCost)
}

// Una línea que falla revierte las demás: ni saldos ni movimientos ni cambio de estado.
func TestAdjustment_ApplyAtomico(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "5", nil)
	before := f.store.MovementCount()

	adj := f.createAdjustment(t, entity.ReasonOther,
		entity.AdjustmentLine{ProductID: p2, Quantity: dec("9"), Direction: entity.DirectionIn},
		entity.AdjustmentLine{ProductID: p, Quantity: dec("6"), Direction: entity.DirectionOut},
	)
	_, err := f.engine.Adjustments.Apply(f.ctx, adj.ID, actor)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	requireDec(t, "0", f.balance(t, w1, p2))
	requireDec(t, "5", f.balance(t, w1, p))
	assert.Equal(t, before, f.store.MovementCount())

	got, err := f.engine.Adjustments.Get(f.ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatePending, got.State)
}

func TestAdjustment_AnulAplicadoCompensa(t *testing.T) {
	f := newFixture(t)
	f.post(t, entity.MovementEntry, w1, p, "10", decPtr("4"))
	adj := f.createAdjustment(t, entity.ReasonShrinkage,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("10"), Direction: entity.DirectionOut},
		entity.AdjustmentLine{ProductID: p2, Quantity: dec("2"), Direction: entity.DirectionIn},
	)
	_, err := f.engine.Adjustments.Apply(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	requireDec(t, "0", f.balance(t, w1, p))

	anulled, err := f.engine.Adjustments.Anul(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAnulled, anulled.State)
	require.NotNil(t, anulled.AnulledAt)

	requireDec(t, "10", f.balance(t, w1, p))
	requireDec(t, "0", f.balance(t, w1, p2))

	movs, err := f.engine.Movements.ListByCause(f.ctx, entity.CauseAdjustment, adj.ID)
	require.NoError(t, err)
	require.Len(t, movs, 4)
	originals := map[string]*entity.Movement{}
	for _, m := range movs[:2] {
		originals[m.ID] = m
	}
	for _, rev := range movs[2:] {
		orig, ok := originals[rev.ReversalOf]
		require.True(t, ok, "la compensación debe apuntar a un movimiento original")
		assert.Equal(t, orig.Kind.Opposite(), rev.Kind)
		requireDec(t, orig.Quantity.String(), rev.Quantity)
		requireDec(t, orig.UnitCost.String(), rev.UnitCost)
	}
}

func TestAdjustment_AnulPendienteSinMovimientos(t *testing.T) {
	f := newFixture(t)
	adj := f.createAdjustment(t, entity.ReasonSurplus,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("1"), Direction: entity.DirectionIn})

	anulled, err := f.engine.Adjustments.Anul(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, entity.StateAnulled, anulled.State)
	assert.Equal(t, 0, f.store.MovementCount())
}

func TestAdjustment_TransicionesInvalidas(t *testing.T) {
	f := newFixture(t)
	adj := f.createAdjustment(t, entity.ReasonSurplus,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("1"), Direction: entity.DirectionIn})

	_, err := f.engine.Adjustments.Apply(f.ctx, adj.ID, actor)
	require.NoError(t, err)

	_, err = f.engine.Adjustments.Apply(f.ctx, adj.ID, actor)
	var terr *domain.InvalidStateTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, string(entity.StateApplied), terr.From)

	_, err = f.engine.Adjustments.Anul(f.ctx, adj.ID, actor)
	require.NoError(t, err)
	count := f.store.MovementCount()

	_, err = f.engine.Adjustments.Anul(f.ctx, adj.ID, actor)
	var aerr *domain.AlreadyAnulledError
	require.ErrorAs(t, err, &aerr)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.engine.Adjustments.Apply(f.ctx, adj.ID, actor)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, count, f.store.MovementCount())
	requireDec(t, "0", f.balance(t, w1, p))
}

func TestAdjustment_Desconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Adjustments.Apply(f.ctx, "nope", actor)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.engine.Adjustments.Get(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustment_ListFiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	a1 := f.createAdjustment(t, entity.ReasonSurplus,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("1"), Direction: entity.DirectionIn})
	a2 := f.createAdjustment(t, entity.ReasonOther,
		entity.AdjustmentLine{ProductID: p, Quantity: dec("1"), Direction: entity.DirectionIn})
	_, err := f.engine.Adjustments.Apply(f.ctx, a1.ID, actor)
	require.NoError(t, err)

	pending, err := f.engine.Adjustments.List(f.ctx, entity.AdjustmentFilter{State: entity.StatePending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, a2.ID, pending[0].ID)

	all, err := f.engine.Adjustments.List(f.ctx, entity.AdjustmentFilter{WarehouseID: w1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a2.ID, all[0].ID, "más reciente primero")

	_, err = f.engine.Adjustments.List(f.ctx, entity.AdjustmentFilter{State: "BORRADOR"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}
