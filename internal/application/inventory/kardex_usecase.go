package inventory

import (
	"context"
	"iter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

// KardexUseCase valuación por promedio ponderado derivada del log de movimientos.
// Nunca guarda resultados: cada llamada relee el log.
type KardexUseCase struct {
	l *ledger
}

// KardexQuery producto obligatorio; bodega y rango opcionales.
type KardexQuery struct {
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// KardexReport filas del rango más saldos de apertura y cierre.
type KardexReport struct {
	ProductID   string
	WarehouseID string
	Opening     inv.Valuation
	Rows        []entity.KardexRow
	Closing     inv.Valuation
}

// ClosingValue saldo final por costo promedio final.
func (r *KardexReport) ClosingValue() decimal.Decimal {
	return r.Closing.Value()
}

// Rows secuencia perezosa y reiniciable: cada recorrido vuelve a leer el log.
// Los movimientos anteriores a From solo alimentan el saldo de apertura.
func (uc *KardexUseCase) Rows(ctx context.Context, q KardexQuery) iter.Seq2[entity.KardexRow, error] {
	return func(yield func(entity.KardexRow, error) bool) {
		movs, err := uc.load(ctx, q)
		if err != nil {
			yield(entity.KardexRow{}, err)
			return
		}
		for row := range inv.Replay(movs) {
			if q.From != nil && row.Timestamp.Before(*q.From) {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// GetKardex materializa el kardex del rango con apertura y cierre.
func (uc *KardexUseCase) GetKardex(ctx context.Context, q KardexQuery) (*KardexReport, error) {
	movs, err := uc.load(ctx, q)
	if err != nil {
		return nil, err
	}
	report := &KardexReport{ProductID: q.ProductID, WarehouseID: q.WarehouseID, Rows: []entity.KardexRow{}}
	var v inv.Valuation
	for _, m := range movs {
		if q.From != nil && m.OccurredAt.Before(*q.From) {
			v.Apply(m)
			report.Opening = v
			continue
		}
		report.Rows = append(report.Rows, v.Apply(m))
	}
	report.Closing = v
	if v.Balance.IsNegative() {
		uc.l.log.Warn().
			Str("product_id", q.ProductID).
			Str("warehouse_id", q.WarehouseID).
			Str("balance", v.Balance.String()).
			Msg("kardex con saldo negativo")
	}
	return report, nil
}

// CurrentAverageCost costo promedio vigente del producto en todas las bodegas.
func (uc *KardexUseCase) CurrentAverageCost(ctx context.Context, productID string) (decimal.Decimal, error) {
	if productID == "" {
		return decimal.Zero, domain.NewValidationError("product_id", "requerido")
	}
	cost := decimal.Zero
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		cost, err = uc.l.currentAverageCost(ctx, repos, productID)
		return err
	})
	return cost, err
}

func (uc *KardexUseCase) load(ctx context.Context, q KardexQuery) ([]*entity.Movement, error) {
	if q.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	if _, err := uc.l.requireProduct(ctx, q.ProductID); err != nil {
		return nil, err
	}
	if q.WarehouseID != "" {
		if _, err := uc.l.requireWarehouse(ctx, q.WarehouseID); err != nil {
			return nil, err
		}
	}
	var movs []*entity.Movement
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		movs, err = uc.l.movements.ListByProduct(ctx, repos.Movements, entity.MovementFilter{
			ProductID:   q.ProductID,
			WarehouseID: q.WarehouseID,
			To:          q.To,
		})
		return err
	})
	return movs, err
}
