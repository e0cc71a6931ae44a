package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla rechaza UPDATE y DELETE por trigger; solo se inserta.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, seq, product_id, warehouse_id, kind, quantity, unit_cost, occurred_at,
	cause_type, cause_id, reversal_of, note, created_by, created_at`

// Create persiste un movimiento de inventario; la BD asigna seq.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, product_id, warehouse_id, kind, quantity, unit_cost, occurred_at,
			cause_type, cause_id, reversal_of, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, m.Kind, m.Quantity, m.UnitCost, m.OccurredAt,
		nullString(m.CauseType), nullString(m.CauseID), nullString(m.ReversalOf), nullString(m.Note),
		nullString(m.CreatedBy), m.CreatedAt,
	).Scan(&m.Seq)
	return wrapErr("create inventory movement", err)
}

// ListByProduct movimientos del producto (opcionalmente de una bodega) ordenados por fecha y seq.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE product_id = $1`
	args := []any{f.ProductID}
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		query += ` AND warehouse_id = $2`
	}
	query, args = appendRange(query, args, "occurred_at", f.From, f.To)
	query += ` ORDER BY occurred_at, seq`
	return r.list(ctx, "list movements by product", query, args...)
}

// ListByCause movimientos generados por un documento.
func (r *InventoryMovementRepo) ListByCause(ctx context.Context, causeType, causeID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE cause_type = $1 AND cause_id = $2 ORDER BY occurred_at, seq`
	return r.list(ctx, "list movements by cause", query, causeType, causeID)
}

func (r *InventoryMovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		list = append(list, m)
	}
	return list, wrapErr(op, rows.Err())
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var causeType, causeID, reversalOf, note, createdBy *string
	if err := row.Scan(&m.ID, &m.Seq, &m.ProductID, &m.WarehouseID, &m.Kind, &m.Quantity, &m.UnitCost,
		&m.OccurredAt, &causeType, &causeID, &reversalOf, &note, &createdBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.CauseType = derefString(causeType)
	m.CauseID = derefString(causeID)
	m.ReversalOf = derefString(reversalOf)
	m.Note = derefString(note)
	m.CreatedBy = derefString(createdBy)
	return &m, nil
}
