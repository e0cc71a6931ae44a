package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

const (
	w1     = "W1"
	w2     = "W2"
	wNeg   = "W-NEG"
	wFloor = "W-FLOOR"
	p      = "P"
	p2     = "P2"
)

var actor = entity.ActorIdentity{UserID: "u-1", Name: "Bodeguero"}

// fakeClock avanza un segundo por lectura para que el orden de inserción sea estable.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	store  *memory.Store
	engine *inventory.Engine
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutProduct(entity.Product{ID: p, SKU: "SKU-P", Name: "Tornillo", Cost: dec("5"), MinimumStock: dec("20")})
	store.PutProduct(entity.Product{ID: p2, SKU: "SKU-P2", Name: "Tuerca", Cost: dec("3")})
	store.PutWarehouse(entity.Warehouse{ID: w1, Name: "Principal"})
	store.PutWarehouse(entity.Warehouse{ID: w2, Name: "Sucursal"})
	store.PutWarehouse(entity.Warehouse{ID: wNeg, Name: "Consignación", AllowNegativeStock: true})
	store.PutWarehouse(entity.Warehouse{ID: wFloor, Name: "Reserva", StockFloor: dec("10")})

	clock := &fakeClock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	engine := inventory.NewEngine(inventory.Deps{
		TxRunner:   store,
		Products:   store.Products(),
		Warehouses: store.Warehouses(),
		Logger:     logger.Nop(),
		Clock:      clock.Now,
	})
	return &fixture{store: store, engine: engine, ctx: context.Background()}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func (f *fixture) post(t *testing.T, kind entity.MovementKind, warehouseID, productID, qty string, cost *decimal.Decimal) *entity.Movement {
	t.Helper()
	m, err := f.engine.Movements.PostMovement(f.ctx, inventory.PostMovementInput{
		Kind:        kind,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    dec(qty),
		UnitCost:    cost,
	}, actor)
	require.NoError(t, err)
	return m
}

func (f *fixture) balance(t *testing.T, warehouseID, productID string) decimal.Decimal {
	t.Helper()
	qty, err := f.engine.Movements.GetBalance(f.ctx, warehouseID, productID)
	require.NoError(t, err)
	return qty
}

func requireDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}
