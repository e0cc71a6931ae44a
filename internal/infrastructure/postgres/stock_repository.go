package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `warehouse_id, product_id, quantity, updated_at`

// Get obtiene el stock actual de un producto en una bodega.
func (r *StockRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE warehouse_id = $1 AND product_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return s, nil
}

// GetForUpdate crea la fila en cero si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock (warehouse_id, product_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, warehouseID, productID); err != nil {
		return nil, wrapErr("ensure stock row", err)
	}
	query := `SELECT ` + stockColumns + ` FROM stock WHERE warehouse_id = $1 AND product_id = $2 FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, warehouseID, productID))
	if err != nil {
		return nil, wrapErr("get stock for update", err)
	}
	return s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por bodega y producto).
func (r *StockRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock (warehouse_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, balance.WarehouseID, balance.ProductID, balance.Quantity, balance.UpdatedAt)
	return wrapErr("upsert stock", err)
}

// ListByWarehouse saldos de una bodega; vacío = todas.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	query := `SELECT ` + stockColumns + ` FROM stock`
	var args []any
	if warehouseID != "" {
		query += ` WHERE warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY warehouse_id, product_id`
	return r.list(ctx, "list stock by warehouse", query, args...)
}

// ListByProduct saldos del producto en todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 ORDER BY warehouse_id`
	return r.list(ctx, "list stock by product", query, productID)
}

func (r *StockRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		list = append(list, s)
	}
	return list, wrapErr(op, rows.Err())
}

func scanStock(row pgx.Row) (*entity.StockBalance, error) {
	var s entity.StockBalance
	if err := row.Scan(&s.WarehouseID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
