package inventory

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción. Products y Warehouses leen el maestro
// por la misma conexión, de modo que una escritura nunca pide una segunda conexión al pool.
type TxRepos struct {
	Movements   repository.InventoryMovementRepository
	Stock       repository.StockRepository
	Adjustments repository.AdjustmentRepository
	Transfers   repository.TransferRepository
	Products    repository.ProductRepository
	Warehouses  repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error o el ctx se cancela, todo se revierte.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
	// ReadOnly ejecuta lecturas sobre una instantánea consistente.
	ReadOnly(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
