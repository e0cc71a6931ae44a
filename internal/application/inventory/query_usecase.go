package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

// QueryUseCase lecturas agregadas sobre saldos y kardex. No muta nada.
type QueryUseCase struct {
	l *ledger
}

// LowStockItem producto en o bajo su stock mínimo, con la cantidad sugerida de reposición.
type LowStockItem struct {
	ProductID         string
	SKU               string
	ProductName       string
	WarehouseID       string // vacío = stock agregado de todas las bodegas
	Quantity          decimal.Decimal
	MinimumStock      decimal.Decimal
	SuggestedOrderQty decimal.Decimal // MinimumStock*1.5 - Quantity
	AverageCost       decimal.Decimal
}

// ValuationLine valor de un par (bodega, producto).
type ValuationLine struct {
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	Value       decimal.Decimal
}

// ValuationReport Σ saldo × costo promedio vigente.
type ValuationReport struct {
	WarehouseID string
	Lines       []ValuationLine
	Total       decimal.Decimal
}

// ComparisonRow cantidades y valores de un producto en cada bodega comparada.
type ComparisonRow struct {
	ProductID   string
	AverageCost decimal.Decimal
	Quantities  map[string]decimal.Decimal
	Values      map[string]decimal.Decimal
}

// WarehouseComparison comparación lado a lado.
type WarehouseComparison struct {
	WarehouseIDs []string
	Rows         []ComparisonRow
	Totals       map[string]decimal.Decimal
}

// Reconciliation saldo almacenado frente a la suma con signo de movimientos.
type Reconciliation struct {
	WarehouseID string
	ProductID   string
	Stored      decimal.Decimal
	Computed    decimal.Decimal
	Drift       decimal.Decimal
}

// Consistent true si no hay diferencia.
func (r Reconciliation) Consistent() bool {
	return r.Drift.IsZero()
}

var reorderFactor = decimal.NewFromFloat(1.5)

// ListLowStock productos con saldo ≤ stock mínimo, incluidos los de mínimo cero con saldo cero
// o negativo. warehouseID vacío considera el stock agregado de todas las bodegas.
func (uc *QueryUseCase) ListLowStock(ctx context.Context, warehouseID string) ([]LowStockItem, error) {
	if warehouseID != "" {
		if _, err := uc.l.requireWarehouse(ctx, warehouseID); err != nil {
			return nil, err
		}
	}
	products, err := uc.l.products.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]LowStockItem, 0)
	err = uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		for _, p := range products {
			qty, err := uc.quantity(ctx, repos, warehouseID, p.ID)
			if err != nil {
				return err
			}
			if qty.GreaterThan(p.MinimumStock) {
				continue
			}
			cost, err := uc.l.currentAverageCost(ctx, repos, p.ID)
			if err != nil {
				return err
			}
			suggested := p.MinimumStock.Mul(reorderFactor).Sub(qty)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
			items = append(items, LowStockItem{
				ProductID:         p.ID,
				SKU:               p.SKU,
				ProductName:       p.Name,
				WarehouseID:       warehouseID,
				Quantity:          qty,
				MinimumStock:      p.MinimumStock,
				SuggestedOrderQty: suggested,
				AverageCost:       cost,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Mayor déficit primero.
	sort.SliceStable(items, func(i, j int) bool {
		a := items[i].MinimumStock.Sub(items[i].Quantity)
		b := items[j].MinimumStock.Sub(items[j].Quantity)
		return a.GreaterThan(b)
	})
	return items, nil
}

// GetValuation valor del inventario de una bodega (o de todas si warehouseID es vacío).
func (uc *QueryUseCase) GetValuation(ctx context.Context, warehouseID string) (*ValuationReport, error) {
	if warehouseID != "" {
		if _, err := uc.l.requireWarehouse(ctx, warehouseID); err != nil {
			return nil, err
		}
	}
	report := &ValuationReport{WarehouseID: warehouseID, Lines: []ValuationLine{}, Total: decimal.Zero}
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		balances, err := repos.Stock.ListByWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		costs := make(map[string]decimal.Decimal)
		for _, b := range balances {
			if b.Quantity.IsZero() {
				continue
			}
			cost, ok := costs[b.ProductID]
			if !ok {
				cost, err = uc.l.currentAverageCost(ctx, repos, b.ProductID)
				if err != nil {
					return err
				}
				costs[b.ProductID] = cost
			}
			line := ValuationLine{
				WarehouseID: b.WarehouseID,
				ProductID:   b.ProductID,
				Quantity:    b.Quantity,
				AverageCost: cost,
				Value:       b.Quantity.Mul(cost),
			}
			report.Lines = append(report.Lines, line)
			report.Total = report.Total.Add(line.Value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(report.Lines, func(i, j int) bool {
		return entity.StockKey{WarehouseID: report.Lines[i].WarehouseID, ProductID: report.Lines[i].ProductID}.
			Less(entity.StockKey{WarehouseID: report.Lines[j].WarehouseID, ProductID: report.Lines[j].ProductID})
	})
	return report, nil
}

// CompareWarehouses cantidades y valores por producto, lado a lado, para las bodegas indicadas.
// Cada bodega se lee en su propia instantánea y en paralelo.
func (uc *QueryUseCase) CompareWarehouses(ctx context.Context, warehouseIDs []string) (*WarehouseComparison, error) {
	if len(warehouseIDs) < 2 {
		return nil, domain.NewValidationError("warehouse_ids", "se necesitan al menos dos bodegas")
	}
	for _, id := range warehouseIDs {
		if _, err := uc.l.requireWarehouse(ctx, id); err != nil {
			return nil, err
		}
	}
	reports := make([]*ValuationReport, len(warehouseIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range warehouseIDs {
		g.Go(func() error {
			r, err := uc.GetValuation(gctx, id)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &WarehouseComparison{
		WarehouseIDs: append([]string(nil), warehouseIDs...),
		Totals:       make(map[string]decimal.Decimal, len(warehouseIDs)),
	}
	rows := make(map[string]*ComparisonRow)
	for i, r := range reports {
		out.Totals[warehouseIDs[i]] = r.Total
		for _, line := range r.Lines {
			row, ok := rows[line.ProductID]
			if !ok {
				row = &ComparisonRow{
					ProductID:   line.ProductID,
					AverageCost: line.AverageCost,
					Quantities:  make(map[string]decimal.Decimal, len(warehouseIDs)),
					Values:      make(map[string]decimal.Decimal, len(warehouseIDs)),
				}
				for _, id := range warehouseIDs {
					row.Quantities[id] = decimal.Zero
					row.Values[id] = decimal.Zero
				}
				rows[line.ProductID] = row
			}
			row.Quantities[line.WarehouseID] = line.Quantity
			row.Values[line.WarehouseID] = line.Value
		}
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, *row)
	}
	sort.Slice(out.Rows, func(i, j int) bool { return out.Rows[i].ProductID < out.Rows[j].ProductID })
	return out, nil
}

// Reconcile compara el saldo almacenado con la suma con signo de los movimientos del par.
func (uc *QueryUseCase) Reconcile(ctx context.Context, warehouseID, productID string) (*Reconciliation, error) {
	if warehouseID == "" || productID == "" {
		return nil, domain.NewValidationError("warehouse_id/product_id", "requeridos")
	}
	out := &Reconciliation{WarehouseID: warehouseID, ProductID: productID}
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		stored, err := uc.l.balances.GetBalance(ctx, repos.Stock, warehouseID, productID)
		if err != nil {
			return err
		}
		movs, err := uc.l.movements.ListByProduct(ctx, repos.Movements, entity.MovementFilter{ProductID: productID, WarehouseID: warehouseID})
		if err != nil {
			return err
		}
		out.Stored = stored
		out.Computed = inv.SignedSum(movs)
		out.Drift = out.Stored.Sub(out.Computed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent() {
		uc.l.log.Error().
			Str("warehouse_id", warehouseID).
			Str("product_id", productID).
			Str("drift", out.Drift.String()).
			Msg("saldo descuadrado frente al log de movimientos")
	}
	return out, nil
}

func (uc *QueryUseCase) quantity(ctx context.Context, repos TxRepos, warehouseID, productID string) (decimal.Decimal, error) {
	if warehouseID != "" {
		return uc.l.balances.GetBalance(ctx, repos.Stock, warehouseID, productID)
	}
	balances, err := repos.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Quantity)
	}
	return total, nil
}
