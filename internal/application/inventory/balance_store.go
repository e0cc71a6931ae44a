package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// BalanceStore único punto de escritura de cantidades por (bodega, producto).
// No guarda estado: todo acceso va por los repos de la transacción del llamador.
type BalanceStore struct{}

// NewBalanceStore construye el store.
func NewBalanceStore() *BalanceStore {
	return &BalanceStore{}
}

// GetBalance cantidad actual; cero si el par no existe.
func (s *BalanceStore) GetBalance(ctx context.Context, stock repository.StockRepository, warehouseID, productID string) (decimal.Decimal, error) {
	bal, err := stock.Get(ctx, warehouseID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if bal == nil {
		return decimal.Zero, nil
	}
	return bal.Quantity, nil
}

// Lock bloquea los pares indicados en el orden global (bodega, producto) para evitar deadlocks.
func (s *BalanceStore) Lock(ctx context.Context, stock repository.StockRepository, keys []entity.StockKey) error {
	for _, k := range sortedKeys(keys) {
		if _, err := stock.GetForUpdate(ctx, k.WarehouseID, k.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDelta suma delta al saldo dentro de la transacción del llamador y devuelve la nueva cantidad.
// Falla con InsufficientStockError si un delta negativo deja el saldo bajo el piso de la bodega
// y esta no admite stock negativo. La política de la bodega se lee con repos.Warehouses.
func (s *BalanceStore) ApplyDelta(ctx context.Context, repos TxRepos, warehouseID, productID string, delta decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	stock := repos.Stock
	bal, err := stock.GetForUpdate(ctx, warehouseID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	newQty := bal.Quantity.Add(delta)
	if delta.IsNegative() {
		wh, err := repos.Warehouses.GetByID(ctx, warehouseID)
		if err != nil {
			return decimal.Zero, err
		}
		if wh == nil {
			return decimal.Zero, domain.NewNotFoundError("bodega", warehouseID)
		}
		if !wh.AllowNegativeStock && newQty.LessThan(wh.StockFloor) {
			return decimal.Zero, &domain.InsufficientStockError{
				WarehouseID: warehouseID,
				ProductID:   productID,
				Available:   bal.Quantity,
				Requested:   delta.Neg(),
			}
		}
	}
	bal.Quantity = newQty
	bal.UpdatedAt = now
	if err := stock.Upsert(ctx, bal); err != nil {
		return decimal.Zero, err
	}
	return newQty, nil
}

func sortedKeys(keys []entity.StockKey) []entity.StockKey {
	seen := make(map[entity.StockKey]struct{}, len(keys))
	out := make([]entity.StockKey, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
