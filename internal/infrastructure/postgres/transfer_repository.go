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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo encabezados de traslado y sus líneas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, origin_warehouse_id, destination_warehouse_id, state, note, created_by, created_at,
	applied_by, applied_at, anulled_by, anulled_at`

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (id, origin_warehouse_id, destination_warehouse_id, state, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, t.ID, t.OriginWarehouseID, t.DestinationWarehouseID, t.State,
		nullString(t.Note), t.CreatedBy, t.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert transfer %s: duplicado: %w", t.ID, err)
		}
		return wrapErr("insert transfer", err)
	}
	lineQuery := `
		INSERT INTO transfer_lines (transfer_id, line_no, product_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`
	for i, l := range t.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, t.ID, i+1, l.ProductID, l.Quantity, l.UnitCost); err != nil {
			return wrapErr("insert transfer line", err)
		}
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get transfer", err)
	}
	if err := r.loadLines(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) UpdateState(ctx context.Context, id string, state entity.DocumentState, actor string, at time.Time) error {
	var query string
	switch state {
	case entity.StateApplied:
		query = `UPDATE transfers SET state = $2, applied_by = $3, applied_at = $4 WHERE id = $1`
	case entity.StateAnulled:
		query = `UPDATE transfers SET state = $2, anulled_by = $3, anulled_at = $4 WHERE id = $1`
	default:
		return fmt.Errorf("update transfer state: estado %s no admitido", state)
	}
	cmd, err := r.q.Exec(ctx, query, id, state, actor, at)
	if err != nil {
		return wrapErr("update transfer state", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update transfer state: traslado %s no existe", id)
	}
	return nil
}

func (r *TransferRepo) List(ctx context.Context, f entity.TransferFilter) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE 1=1`
	var args []any
	if f.OriginWarehouseID != "" {
		args = append(args, f.OriginWarehouseID)
		query += fmt.Sprintf(" AND origin_warehouse_id = $%d", len(args))
	}
	if f.DestinationWarehouseID != "" {
		args = append(args, f.DestinationWarehouseID)
		query += fmt.Sprintf(" AND destination_warehouse_id = $%d", len(args))
	}
	if f.State != "" {
		args = append(args, f.State)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}
	query, args = appendRange(query, args, "created_at", f.From, f.To)
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list transfers", err)
	}
	list := make([]*entity.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			rows.Close()
			return nil, wrapErr("scan transfer", err)
		}
		list = append(list, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list transfers", err)
	}
	for _, t := range list {
		if err := r.loadLines(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *TransferRepo) loadLines(ctx context.Context, t *entity.Transfer) error {
	query := `
		SELECT product_id, quantity, unit_cost
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, t.ID)
	if err != nil {
		return wrapErr("list transfer lines", err)
	}
	defer rows.Close()
	t.Lines = t.Lines[:0]
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitCost); err != nil {
			return wrapErr("scan transfer line", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return wrapErr("list transfer lines", rows.Err())
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var note, appliedBy, anulledBy *string
	if err := row.Scan(&t.ID, &t.OriginWarehouseID, &t.DestinationWarehouseID, &t.State, &note, &t.CreatedBy,
		&t.CreatedAt, &appliedBy, &t.AppliedAt, &anulledBy, &t.AnulledAt); err != nil {
		return nil, err
	}
	t.Note = derefString(note)
	t.AppliedBy = derefString(appliedBy)
	t.AnulledBy = derefString(anulledBy)
	return &t, nil
}
