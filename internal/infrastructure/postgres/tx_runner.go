package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMs int
}

// NewTxRunner construye el runner con el pool. lockTimeoutMs > 0 limita la espera por bloqueos de fila.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMs int) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMs: lockTimeoutMs}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los bloqueos explícitos (SELECT ... FOR UPDATE) dan la serialización por par (bodega, producto).
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// ReadOnly lecturas sobre una instantánea REPEATABLE READ.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeoutMs > 0 && opts.AccessMode != pgx.ReadOnly {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeoutMs)); err != nil {
			return wrapErr("set lock_timeout", err)
		}
	}

	if err := fn(ctx, reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

func reposFor(q Querier) inventory.TxRepos {
	return inventory.TxRepos{
		Movements:   NewInventoryMovementRepository(q),
		Stock:       NewStockRepository(q),
		Adjustments: NewAdjustmentRepository(q),
		Transfers:   NewTransferRepository(q),
		Products:    NewProductRepository(q),
		Warehouses:  NewWarehouseRepository(q),
	}
}
