package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CatalogUseCase lectura del maestro de productos y bodegas que consume el libro.
type CatalogUseCase struct {
	l *ledger
}

// ProductView producto con su costo promedio vigente.
type ProductView struct {
	entity.Product
	AverageCost decimal.Decimal
}

// ListProducts productos ordenados por SKU.
func (uc *CatalogUseCase) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return uc.l.products.List(ctx)
}

// GetProduct producto y costo promedio ponderado actual (o costo por defecto sin historial).
func (uc *CatalogUseCase) GetProduct(ctx context.Context, id string) (*ProductView, error) {
	p, err := uc.l.requireProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ProductView{Product: *p}
	err = uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		view.AverageCost, err = uc.l.currentAverageCost(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListWarehouses bodegas con su política de stock.
func (uc *CatalogUseCase) ListWarehouses(ctx context.Context) ([]*entity.Warehouse, error) {
	return uc.l.warehouses.List(ctx)
}

// GetWarehouse bodega por id.
func (uc *CatalogUseCase) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	return uc.l.requireWarehouse(ctx, id)
}
