// Package memory adaptador en memoria del libro de inventario. Implementa los mismos puertos
// que el adaptador PostgreSQL; se usa en pruebas y en modo embebido (DB_DRIVER=memory).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store estado completo del libro. Un escritor a la vez retiene el lock exclusivo durante toda
// la transacción y trabaja sobre una capa de cambios que solo se vuelca al confirmar;
// los lectores comparten el lock y ven únicamente estado confirmado.
type Store struct {
	mu          sync.RWMutex
	stock       map[entity.StockKey]entity.StockBalance
	movements   []*entity.Movement
	seq         int64
	adjustments map[string]*entity.Adjustment
	transfers   map[string]*entity.Transfer

	catalogMu  sync.RWMutex
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
}

// NewStore crea un libro vacío.
func NewStore() *Store {
	return &Store{
		stock:       make(map[entity.StockKey]entity.StockBalance),
		adjustments: make(map[string]*entity.Adjustment),
		transfers:   make(map[string]*entity.Transfer),
		products:    make(map[string]*entity.Product),
		warehouses:  make(map[string]*entity.Warehouse),
	}
}

// Run ejecuta fn con repos sobre una capa de cambios; confirma solo si fn no falla y el ctx sigue vivo.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newTx(s, false)
	if err := fn(ctx, t.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	t.commit()
	return nil
}

// ReadOnly ejecuta fn sobre el estado confirmado; cualquier escritura falla.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context, repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, newTx(s, true).repos())
}

// MovementCount total de movimientos confirmados.
func (s *Store) MovementCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movements)
}

// tx capa de cambios pendiente de una transacción de escritura.
type tx struct {
	s           *Store
	readOnly    bool
	stock       map[entity.StockKey]entity.StockBalance
	movements   []*entity.Movement
	adjustments map[string]*entity.Adjustment
	transfers   map[string]*entity.Transfer
}

func newTx(s *Store, readOnly bool) *tx {
	return &tx{
		s:           s,
		readOnly:    readOnly,
		stock:       make(map[entity.StockKey]entity.StockBalance),
		adjustments: make(map[string]*entity.Adjustment),
		transfers:   make(map[string]*entity.Transfer),
	}
}

func (t *tx) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Movements:   &movementRepo{t: t},
		Stock:       &stockRepo{t: t},
		Adjustments: &adjustmentRepo{t: t},
		Transfers:   &transferRepo{t: t},
		Products:    t.s.Products(),
		Warehouses:  t.s.Warehouses(),
	}
}

func (t *tx) commit() {
	for k, v := range t.stock {
		t.s.stock[k] = v
	}
	t.s.movements = append(t.s.movements, t.movements...)
	t.s.seq += int64(len(t.movements))
	for id, a := range t.adjustments {
		t.s.adjustments[id] = a
	}
	for id, tr := range t.transfers {
		t.s.transfers[id] = tr
	}
}

func (t *tx) writable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.readOnly {
		return errReadOnly
	}
	return nil
}
