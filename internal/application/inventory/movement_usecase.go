package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// MovementUseCase entradas y salidas directas, sin encabezado, y consulta de saldos.
type MovementUseCase struct {
	l *ledger
}

// PostMovementInput entrada para PostMovement. Solo ENTRY y EXIT se publican directo;
// los tipos de traslado y ajuste nacen de sus encabezados.
type PostMovementInput struct {
	Kind        entity.MovementKind
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal // nil = promedio vigente (o costo por defecto sin historial)
	CauseType   string
	CauseID     string
	Note        string
	OccurredAt  *time.Time // nil = fecha del servidor
}

// PostMovement bloquea el par, publica el movimiento y actualiza el saldo en una sola transacción.
func (uc *MovementUseCase) PostMovement(ctx context.Context, in PostMovementInput, actor entity.ActorIdentity) (*entity.Movement, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.Kind != entity.MovementEntry && in.Kind != entity.MovementExit {
		return nil, domain.NewValidationError("kind", "solo ENTRY o EXIT se publican directamente")
	}
	if in.WarehouseID == "" || in.ProductID == "" {
		return nil, domain.NewValidationError("warehouse_id/product_id", "requeridos")
	}
	if err := validateAmounts("", in.Quantity, in.UnitCost); err != nil {
		return nil, err
	}
	if (in.CauseType == "") != (in.CauseID == "") {
		return nil, domain.NewValidationError("cause", "cause_type y cause_id van juntos")
	}
	if _, err := uc.l.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := uc.l.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	var mov *entity.Movement
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		key := entity.StockKey{WarehouseID: in.WarehouseID, ProductID: in.ProductID}
		if err := uc.l.balances.Lock(ctx, repos.Stock, []entity.StockKey{key}); err != nil {
			return err
		}
		cost, err := uc.l.resolveUnitCost(ctx, repos, in.ProductID, in.UnitCost)
		if err != nil {
			return err
		}
		m := &entity.Movement{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Kind:        in.Kind,
			Quantity:    in.Quantity,
			UnitCost:    cost,
			CauseType:   in.CauseType,
			CauseID:     in.CauseID,
			Note:        in.Note,
			CreatedBy:   actor.UserID,
		}
		if in.OccurredAt != nil {
			m.OccurredAt = in.OccurredAt.UTC()
		}
		if err := uc.l.post(ctx, repos, m, uc.l.now()); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		uc.l.log.Warn().Err(err).
			Str("kind", string(in.Kind)).
			Str("warehouse_id", in.WarehouseID).
			Str("product_id", in.ProductID).
			Str("actor", actor.UserID).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.l.log.Info().
		Str("movement_id", mov.ID).
		Str("kind", string(mov.Kind)).
		Str("warehouse_id", mov.WarehouseID).
		Str("product_id", mov.ProductID).
		Str("quantity", mov.Quantity.String()).
		Str("actor", actor.UserID).
		Msg("movimiento registrado")
	return mov, nil
}

// GetBalance cantidad actual del par; cero si nunca tuvo movimientos.
func (uc *MovementUseCase) GetBalance(ctx context.Context, warehouseID, productID string) (decimal.Decimal, error) {
	if warehouseID == "" || productID == "" {
		return decimal.Zero, domain.NewValidationError("warehouse_id/product_id", "requeridos")
	}
	qty := decimal.Zero
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		qty, err = uc.l.balances.GetBalance(ctx, repos.Stock, warehouseID, productID)
		return err
	})
	return qty, err
}

// ListByCause movimientos generados por un documento (conciliación).
func (uc *MovementUseCase) ListByCause(ctx context.Context, causeType, causeID string) ([]*entity.Movement, error) {
	if causeType == "" || causeID == "" {
		return nil, domain.NewValidationError("cause", "cause_type y cause_id requeridos")
	}
	var movs []*entity.Movement
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		movs, err = uc.l.movements.ListByCause(ctx, repos.Movements, causeType, causeID)
		return err
	})
	return movs, err
}
