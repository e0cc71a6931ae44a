package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo encabezados de ajuste y sus líneas sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `id, warehouse_id, reason, state, note, created_by, created_at,
	applied_by, applied_at, anulled_by, anulled_at`

// Create inserta encabezado y líneas. Debe correr dentro de una tx para que ambos queden juntos.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (id, warehouse_id, reason, state, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.WarehouseID, a.Reason, a.State, nullString(a.Note), a.CreatedBy, a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert adjustment %s: duplicado: %w", a.ID, err)
		}
		return wrapErr("insert adjustment", err)
	}
	lineQuery := `
		INSERT INTO adjustment_lines (adjustment_id, line_no, product_id, quantity, direction, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, l := range a.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, a.ID, i+1, l.ProductID, l.Quantity, l.Direction, l.UnitCost); err != nil {
			return wrapErr("insert adjustment line", err)
		}
	}
	return nil
}

// GetByID obtiene un ajuste con sus líneas; nil, nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1`, id)
}

// GetForUpdate bloquea el encabezado; dos Apply/Anul concurrentes sobre el mismo ajuste se serializan aquí.
func (r *AdjustmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error) {
	return r.get(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1 FOR UPDATE`, id)
}

func (r *AdjustmentRepo) get(ctx context.Context, query, id string) (*entity.Adjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get adjustment", err)
	}
	if err := r.loadLines(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateState cambia el estado y registra actor y fecha de la transición.
func (r *AdjustmentRepo) UpdateState(ctx context.Context, id string, state entity.DocumentState, actor string, at time.Time) error {
	var query string
	switch state {
	case entity.StateApplied:
		query = `UPDATE adjustments SET state = $2, applied_by = $3, applied_at = $4 WHERE id = $1`
	case entity.StateAnulled:
		query = `UPDATE adjustments SET state = $2, anulled_by = $3, anulled_at = $4 WHERE id = $1`
	default:
		return fmt.Errorf("update adjustment state: estado %s no admitido", state)
	}
	cmd, err := r.q.Exec(ctx, query, id, state, actor, at)
	if err != nil {
		return wrapErr("update adjustment state", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update adjustment state: ajuste %s no existe", id)
	}
	return nil
}

// List ajustes filtrados, más recientes primero.
func (r *AdjustmentRepo) List(ctx context.Context, f entity.AdjustmentFilter) ([]*entity.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE 1=1`
	var args []any
	if f.WarehouseID != "" {
		args = append(args, f.WarehouseID)
		query += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	}
	if f.State != "" {
		args = append(args, f.State)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}
	if f.Reason != "" {
		args = append(args, f.Reason)
		query += fmt.Sprintf(" AND reason = $%d", len(args))
	}
	query, args = appendRange(query, args, "created_at", f.From, f.To)
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list adjustments", err)
	}
	list := make([]*entity.Adjustment, 0)
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan adjustment", err)
		}
		list = append(list, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list adjustments", err)
	}
	for _, a := range list {
		if err := r.loadLines(ctx, a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *AdjustmentRepo) loadLines(ctx context.Context, a *entity.Adjustment) error {
	query := `
		SELECT product_id, quantity, direction, unit_cost
		FROM adjustment_lines WHERE adjustment_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, a.ID)
	if err != nil {
		return wrapErr("list adjustment lines", err)
	}
	defer rows.Close()
	a.Lines = a.Lines[:0]
	for rows.Next() {
		var l entity.AdjustmentLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.Direction, &l.UnitCost); err != nil {
			return wrapErr("scan adjustment line", err)
		}
		a.Lines = append(a.Lines, l)
	}
	return wrapErr("list adjustment lines", rows.Err())
}

func scanAdjustment(row pgx.Row) (*entity.Adjustment, error) {
	var a entity.Adjustment
	var note, appliedBy, anulledBy *string
	if err := row.Scan(&a.ID, &a.WarehouseID, &a.Reason, &a.State, &note, &a.CreatedBy, &a.CreatedAt,
		&appliedBy, &a.AppliedAt, &anulledBy, &a.AnulledAt); err != nil {
		return nil, err
	}
	a.Note = derefString(note)
	a.AppliedBy = derefString(appliedBy)
	a.AnulledBy = derefString(anulledBy)
	return &a, nil
}
