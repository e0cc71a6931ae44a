package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// PutProduct registra o reemplaza un producto del maestro.
func (s *Store) PutProduct(p entity.Product) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	s.products[p.ID] = &p
}

// PutWarehouse registra o reemplaza una bodega y su política de stock.
func (s *Store) PutWarehouse(w entity.Warehouse) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	s.warehouses[w.ID] = &w
}

// Products repositorio de productos sobre el Store.
func (s *Store) Products() *ProductRepo {
	return &ProductRepo{s: s}
}

// Warehouses repositorio de bodegas sobre el Store.
func (s *Store) Warehouses() *WarehouseRepo {
	return &WarehouseRepo{s: s}
}

// ProductRepo lectura del maestro de productos en memoria.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// WarehouseRepo lectura de bodegas en memoria.
type WarehouseRepo struct {
	s *Store
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *WarehouseRepo) List(ctx context.Context) ([]*entity.Warehouse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.catalogMu.RLock()
	defer r.s.catalogMu.RUnlock()
	out := make([]*entity.Warehouse, 0, len(r.s.warehouses))
	for _, w := range r.s.warehouses {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
