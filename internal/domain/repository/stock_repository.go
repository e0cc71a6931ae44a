package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Las escrituras solo ocurren dentro de transacciones a través del BalanceStore.
type StockRepository interface {
	// Get devuelve el saldo; cantidad cero si el par no existe.
	Get(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila del par (creándola en cero si no existe) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	// ListByWarehouse saldos de una bodega; warehouseID vacío = todas.
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error)
}
