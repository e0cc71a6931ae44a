package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

var (
	_ repository.StockRepository             = (*stockRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
	_ repository.AdjustmentRepository        = (*adjustmentRepo)(nil)
	_ repository.TransferRepository          = (*transferRepo)(nil)
)

type stockRepo struct {
	t *tx
}

func (r *stockRepo) lookup(key entity.StockKey) (entity.StockBalance, bool) {
	if b, ok := r.t.stock[key]; ok {
		return b, true
	}
	b, ok := r.t.s.stock[key]
	return b, ok
}

func (r *stockRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := entity.StockKey{WarehouseID: warehouseID, ProductID: productID}
	if b, ok := r.lookup(key); ok {
		return &b, nil
	}
	return &entity.StockBalance{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}, nil
}

// GetForUpdate el lock exclusivo del Store ya serializa escritores; aquí solo se materializa la fila.
func (r *stockRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.StockBalance, error) {
	if err := r.t.writable(ctx); err != nil {
		return nil, err
	}
	key := entity.StockKey{WarehouseID: warehouseID, ProductID: productID}
	b, ok := r.lookup(key)
	if !ok {
		b = entity.StockBalance{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}
		r.t.stock[key] = b
	}
	return &b, nil
}

func (r *stockRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	if err := r.t.writable(ctx); err != nil {
		return err
	}
	r.t.stock[entity.StockKey{WarehouseID: balance.WarehouseID, ProductID: balance.ProductID}] = *balance
	return nil
}

func (r *stockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	return r.list(ctx, func(k entity.StockKey) bool { return warehouseID == "" || k.WarehouseID == warehouseID })
}

func (r *stockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockBalance, error) {
	return r.list(ctx, func(k entity.StockKey) bool { return k.ProductID == productID })
}

func (r *stockRepo) list(ctx context.Context, match func(entity.StockKey) bool) ([]*entity.StockBalance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	merged := make(map[entity.StockKey]entity.StockBalance)
	for k, b := range r.t.s.stock {
		if match(k) {
			merged[k] = b
		}
	}
	for k, b := range r.t.stock {
		if match(k) {
			merged[k] = b
		}
	}
	out := make([]*entity.StockBalance, 0, len(merged))
	for _, b := range merged {
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		return entity.StockKey{WarehouseID: out[i].WarehouseID, ProductID: out[i].ProductID}.
			Less(entity.StockKey{WarehouseID: out[j].WarehouseID, ProductID: out[j].ProductID})
	})
	return out, nil
}

type movementRepo struct {
	t *tx
}

func (r *movementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if err := r.t.writable(ctx); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Seq = r.t.s.seq + int64(len(r.t.movements)) + 1
	cp := *m
	r.t.movements = append(r.t.movements, &cp)
	return nil
}

func (r *movementRepo) all() []*entity.Movement {
	out := make([]*entity.Movement, 0, len(r.t.s.movements)+len(r.t.movements))
	out = append(out, r.t.s.movements...)
	return append(out, r.t.movements...)
}

func (r *movementRepo) ListByProduct(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entity.Movement
	for _, m := range r.all() {
		if m.ProductID != filter.ProductID {
			continue
		}
		if filter.WarehouseID != "" && m.WarehouseID != filter.WarehouseID {
			continue
		}
		if !inRange(m.OccurredAt, filter.From, filter.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *movementRepo) ListByCause(ctx context.Context, causeType, causeID string) ([]*entity.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entity.Movement
	for _, m := range r.all() {
		if m.CauseType == causeType && m.CauseID == causeID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type adjustmentRepo struct {
	t *tx
}

func (r *adjustmentRepo) lookup(id string) *entity.Adjustment {
	if a, ok := r.t.adjustments[id]; ok {
		return a
	}
	return r.t.s.adjustments[id]
}

func (r *adjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	if err := r.t.writable(ctx); err != nil {
		return err
	}
	if r.lookup(a.ID) != nil {
		return fmt.Errorf("memory: ajuste %s duplicado", a.ID)
	}
	r.t.adjustments[a.ID] = cloneAdjustment(a)
	return nil
}

func (r *adjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := r.lookup(id)
	if a == nil {
		return nil, nil
	}
	return cloneAdjustment(a), nil
}

func (r *adjustmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error) {
	if err := r.t.writable(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *adjustmentRepo) UpdateState(ctx context.Context, id string, state entity.DocumentState, actor string, at time.Time) error {
	if err := r.t.writable(ctx); err != nil {
		return err
	}
	a := r.lookup(id)
	if a == nil {
		return fmt.Errorf("memory: ajuste %s no existe", id)
	}
	a = cloneAdjustment(a)
	a.State = state
	switch state {
	case entity.StateApplied:
		a.AppliedBy, a.AppliedAt = actor, &at
	case entity.StateAnulled:
		a.AnulledBy, a.AnulledAt = actor, &at
	}
	r.t.adjustments[id] = a
	return nil
}

func (r *adjustmentRepo) List(ctx context.Context, f entity.AdjustmentFilter) ([]*entity.Adjustment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	for id := range r.t.s.adjustments {
		ids[id] = struct{}{}
	}
	for id := range r.t.adjustments {
		ids[id] = struct{}{}
	}
	var out []*entity.Adjustment
	for id := range ids {
		a := r.lookup(id)
		if f.WarehouseID != "" && a.WarehouseID != f.WarehouseID {
			continue
		}
		if f.State != "" && a.State != f.State {
			continue
		}
		if f.Reason != "" && a.Reason != f.Reason {
			continue
		}
		if !inRange(a.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, cloneAdjustment(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

type transferRepo struct {
	t *tx
}

func (r *transferRepo) lookup(id string) *entity.Transfer {
	if tr, ok := r.t.transfers[id]; ok {
		return tr
	}
	return r.t.s.transfers[id]
}

func (r *transferRepo) Create(ctx context.Context, tr *entity.Transfer) error {
	if err := r.t.writable(ctx); err != nil {
		return err
	}
	if r.lookup(tr.ID) != nil {
		return fmt.Errorf("memory: traslado %s duplicado", tr.ID)
	}
	r.t.transfers[tr.ID] = cloneTransfer(tr)
	return nil
}

func (r *transferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tr := r.lookup(id)
	if tr == nil {
		return nil, nil
	}
	return cloneTransfer(tr), nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	if err := r.t.writable(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *transferRepo) UpdateState(ctx context.Context, id string, state entity.DocumentState, actor string, at time.Time) error {
	if err := r.t.writable(ctx); err != nil {
		return err
	}
	tr := r.lookup(id)
	if tr == nil {
		return fmt.Errorf("memory: traslado %s no existe", id)
	}
	tr = cloneTransfer(tr)
	tr.State = state
	switch state {
	case entity.StateApplied:
		tr.AppliedBy, tr.AppliedAt = actor, &at
	case entity.StateAnulled:
		tr.AnulledBy, tr.AnulledAt = actor, &at
	}
	r.t.transfers[id] = tr
	return nil
}

func (r *transferRepo) List(ctx context.Context, f entity.TransferFilter) ([]*entity.Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	for id := range r.t.s.transfers {
		ids[id] = struct{}{}
	}
	for id := range r.t.transfers {
		ids[id] = struct{}{}
	}
	var out []*entity.Transfer
	for id := range ids {
		tr := r.lookup(id)
		if f.OriginWarehouseID != "" && tr.OriginWarehouseID != f.OriginWarehouseID {
			continue
		}
		if f.DestinationWarehouseID != "" && tr.DestinationWarehouseID != f.DestinationWarehouseID {
			continue
		}
		if f.State != "" && tr.State != f.State {
			continue
		}
		if !inRange(tr.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, cloneTransfer(tr))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func inRange(at time.Time, from, to *time.Time) bool {
	if from != nil && at.Before(*from) {
		return false
	}
	if to != nil && at.After(*to) {
		return false
	}
	return true
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func cloneAdjustment(a *entity.Adjustment) *entity.Adjustment {
	cp := *a
	cp.Lines = make([]entity.AdjustmentLine, len(a.Lines))
	for i, l := range a.Lines {
		cp.Lines[i] = l
		if l.UnitCost != nil {
			c := *l.UnitCost
			cp.Lines[i].UnitCost = &c
		}
	}
	cp.AppliedAt = cloneTime(a.AppliedAt)
	cp.AnulledAt = cloneTime(a.AnulledAt)
	return &cp
}

func cloneTransfer(tr *entity.Transfer) *entity.Transfer {
	cp := *tr
	cp.Lines = make([]entity.TransferLine, len(tr.Lines))
	for i, l := range tr.Lines {
		cp.Lines[i] = l
		if l.UnitCost != nil {
			c := *l.UnitCost
			cp.Lines[i].UnitCost = &c
		}
	}
	cp.AppliedAt = cloneTime(tr.AppliedAt)
	cp.AnulledAt = cloneTime(tr.AnulledAt)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
