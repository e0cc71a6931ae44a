package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// recordingStock registra cada GetForUpdate y delega el resto al repo real.
type recordingStock struct {
	repository.StockRepository
	mu    *sync.Mutex
	calls *[]entity.StockKey
}

func (r *recordingStock) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	r.mu.Lock()
	*r.calls = append(*r.calls, entity.StockKey{WarehouseID: warehouseID, ProductID: productID})
	r.mu.Unlock()
	if r.StockRepository == nil {
		return &entity.StockBalance{WarehouseID: warehouseID, ProductID: productID}, nil
	}
	return r.StockRepository.GetForUpdate(ctx, warehouseID, productID)
}

// recordingRunner envuelve el Store para observar el orden de bloqueo de las escrituras.
type recordingRunner struct {
	*memory.Store
	mu    sync.Mutex
	calls []entity.StockKey
}

func (r *recordingRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	return r.Store.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		repos.Stock = &recordingStock{StockRepository: repos.Stock, mu: &r.mu, calls: &r.calls}
		return fn(ctx, repos)
	})
}

func (r *recordingRunner) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *recordingRunner) recorded() []entity.StockKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.StockKey(nil), r.calls...)
}

func TestBalanceStoreLock_OrdenGlobalSinDuplicados(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []entity.StockKey
	)
	stock := &recordingStock{mu: &mu, calls: &calls}
	keys := []entity.StockKey{
		{WarehouseID: w2, ProductID: p2},
		{WarehouseID: w1, ProductID: p2},
		{WarehouseID: w2, ProductID: p},
		{WarehouseID: w1, ProductID: p2},
		{WarehouseID: w1, ProductID: p},
	}

	require.NoError(t, inventory.NewBalanceStore().Lock(context.Background(), stock, keys))

	assert.Equal(t, []entity.StockKey{
		{WarehouseID: w1, ProductID: p},
		{WarehouseID: w1, ProductID: p2},
		{WarehouseID: w2, ProductID: p},
		{WarehouseID: w2, ProductID: p2},
	}, calls)
}

// Traslado W2→W1: el origen ordena después del destino y las líneas vienen en orden inverso;
// los bloqueos previos a cualquier escritura igual llegan ascendentes por (bodega, producto).
func TestTransferApply_BloqueaEnOrdenGlobal(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(entity.Product{ID: p, SKU: "SKU-P", Name: "Tornillo", Cost: dec("5")})
	store.PutProduct(entity.Product{ID: p2, SKU: "SKU-P2", Name: "Tuerca", Cost: dec("3")})
	store.PutWarehouse(entity.Warehouse{ID: w1, Name: "Principal"})
	store.PutWarehouse(entity.Warehouse{ID: w2, Name: "Sucursal"})
	runner := &recordingRunner{Store: store}
	engine := inventory.NewEngine(inventory.Deps{
		TxRunner:   runner,
		Products:   store.Products(),
		Warehouses: store.Warehouses(),
		Logger:     logger.Nop(),
	})
	ctx := context.Background()

	for _, prod := range []string{p, p2} {
		_, err := engine.Movements.PostMovement(ctx, inventory.PostMovementInput{
			Kind: entity.MovementEntry, WarehouseID: w2, ProductID: prod, Quantity: dec("10"),
		}, actor)
		require.NoError(t, err)
	}
	tr, err := engine.Transfers.Create(ctx, inventory.CreateTransferInput{
		OriginWarehouseID:      w2,
		DestinationWarehouseID: w1,
		Lines: []entity.TransferLine{
			{ProductID: p2, Quantity: dec("4")},
			{ProductID: p, Quantity: dec("6")},
		},
	}, actor)
	require.NoError(t, err)

	runner.reset()
	_, err = engine.Transfers.Apply(ctx, tr.ID, actor)
	require.NoError(t, err)

	calls := runner.recorded()
	require.GreaterOrEqual(t, len(calls), 4)
	assert.Equal(t, []entity.StockKey{
		{WarehouseID: w1, ProductID: p},
		{WarehouseID: w1, ProductID: p2},
		{WarehouseID: w2, ProductID: p},
		{WarehouseID: w2, ProductID: p2},
	}, calls[:4])

	requireDec(t, "6", mustBalance(t, engine, w1, p))
	requireDec(t, "6", mustBalance(t, engine, w2, p2))
}

func mustBalance(t *testing.T, engine *inventory.Engine, warehouseID, productID string) decimal.Decimal {
	t.Helper()
	bal, err := engine.Movements.GetBalance(context.Background(), warehouseID, productID)
	require.NoError(t, err)
	return bal
}
