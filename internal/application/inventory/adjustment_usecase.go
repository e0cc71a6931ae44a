package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

const adjustmentEntity = "ajuste"

// AdjustmentUseCase máquina de estados de ajustes: PENDING → APPLIED → ANULLED, o PENDING → ANULLED.
type AdjustmentUseCase struct {
	l *ledger
}

// CreateAdjustmentInput encabezado y líneas de un ajuste nuevo.
type CreateAdjustmentInput struct {
	WarehouseID string
	Reason      entity.AdjustmentReason
	Note        string
	Lines       []entity.AdjustmentLine
}

// Create registra el ajuste en PENDING. No toca saldos.
func (uc *AdjustmentUseCase) Create(ctx context.Context, in CreateAdjustmentInput, actor entity.ActorIdentity) (*entity.Adjustment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateAdjustment(in); err != nil {
		return nil, err
	}
	if _, err := uc.l.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	for _, line := range in.Lines {
		if _, err := uc.l.requireProduct(ctx, line.ProductID); err != nil {
			return nil, err
		}
	}

	adj := &entity.Adjustment{
		ID:          uuid.New().String(),
		WarehouseID: in.WarehouseID,
		Reason:      in.Reason,
		State:       entity.StatePending,
		Note:        in.Note,
		Lines:       append([]entity.AdjustmentLine(nil), in.Lines...),
		CreatedBy:   actor.UserID,
		CreatedAt:   uc.l.now().UTC(),
	}
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		return repos.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	uc.l.log.Info().
		Str("adjustment_id", adj.ID).
		Str("warehouse_id", adj.WarehouseID).
		Int("lines", len(adj.Lines)).
		Str("actor", actor.UserID).
		Msg("ajuste creado")
	return adj, nil
}

// Apply publica un movimiento ADJUST_IN/ADJUST_OUT por línea y pasa el ajuste a APPLIED.
// Si cualquier línea falla, la transacción completa se revierte y el ajuste sigue PENDING.
func (uc *AdjustmentUseCase) Apply(ctx context.Context, id string, actor entity.ActorIdentity) (*entity.Adjustment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.Adjustment
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		adj, err := repos.Adjustments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.NewNotFoundError(adjustmentEntity, id)
		}
		if !adj.State.CanTransitionTo(entity.StateApplied) {
			return &domain.InvalidStateTransitionError{Entity: adjustmentEntity, ID: id, From: string(adj.State), To: string(entity.StateApplied)}
		}
		keys := make([]entity.StockKey, 0, len(adj.Lines))
		for _, line := range adj.Lines {
			keys = append(keys, entity.StockKey{WarehouseID: adj.WarehouseID, ProductID: line.ProductID})
		}
		if err := uc.l.balances.Lock(ctx, repos.Stock, keys); err != nil {
			return err
		}
		now := uc.l.now().UTC()
		for i, line := range adj.Lines {
			cost, err := uc.l.resolveUnitCost(ctx, repos, line.ProductID, line.UnitCost)
			if err != nil {
				return err
			}
			m := &entity.Movement{
				ProductID:   line.ProductID,
				WarehouseID: adj.WarehouseID,
				Kind:        line.Direction.MovementKind(),
				Quantity:    line.Quantity,
				UnitCost:    cost,
				CauseType:   entity.CauseAdjustment,
				CauseID:     adj.ID,
				Note:        fmt.Sprintf("ajuste %s línea %d (%s)", adj.ID, i+1, adj.Reason),
				CreatedBy:   actor.UserID,
			}
			if err := uc.l.post(ctx, repos, m, now); err != nil {
				return err
			}
		}
		if err := repos.Adjustments.UpdateState(ctx, adj.ID, entity.StateApplied, actor.UserID, now); err != nil {
			return err
		}
		adj.State = entity.StateApplied
		adj.AppliedBy = actor.UserID
		adj.AppliedAt = &now
		out = adj
		return nil
	})
	if err != nil {
		uc.l.log.Warn().Err(err).Str("adjustment_id", id).Str("actor", actor.UserID).Msg("aplicación de ajuste rechazada")
		return nil, err
	}
	uc.l.log.Info().Str("adjustment_id", id).Str("actor", actor.UserID).Msg("ajuste aplicado")
	return out, nil
}

// Anul cancela un ajuste PENDING o compensa uno APPLIED con movimientos opuestos.
// Un ajuste ya anulado devuelve AlreadyAnulledError.
func (uc *AdjustmentUseCase) Anul(ctx context.Context, id string, actor entity.ActorIdentity) (*entity.Adjustment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.Adjustment
	reversed := 0
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		adj, err := repos.Adjustments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.NewNotFoundError(adjustmentEntity, id)
		}
		if adj.State == entity.StateAnulled {
			return &domain.AlreadyAnulledError{Entity: adjustmentEntity, ID: id}
		}
		now := uc.l.now().UTC()
		if adj.State == entity.StateApplied {
			reversed, err = uc.l.reverseCause(ctx, repos, entity.CauseAdjustment, adj.ID, actor, now)
			if err != nil {
				return err
			}
		}
		if err := repos.Adjustments.UpdateState(ctx, adj.ID, entity.StateAnulled, actor.UserID, now); err != nil {
			return err
		}
		adj.State = entity.StateAnulled
		adj.AnulledBy = actor.UserID
		adj.AnulledAt = &now
		out = adj
		return nil
	})
	if err != nil {
		uc.l.log.Warn().Err(err).Str("adjustment_id", id).Str("actor", actor.UserID).Msg("anulación de ajuste rechazada")
		return nil, err
	}
	uc.l.log.Info().Str("adjustment_id", id).Int("reversals", reversed).Str("actor", actor.UserID).Msg("ajuste anulado")
	return out, nil
}

// Get obtiene un ajuste con sus líneas.
func (uc *AdjustmentUseCase) Get(ctx context.Context, id string) (*entity.Adjustment, error) {
	var adj *entity.Adjustment
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		adj, err = repos.Adjustments.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NewNotFoundError(adjustmentEntity, id)
	}
	return adj, nil
}

// List ajustes filtrados, más recientes primero.
func (uc *AdjustmentUseCase) List(ctx context.Context, filter entity.AdjustmentFilter) ([]*entity.Adjustment, error) {
	if filter.State != "" && !filter.State.Valid() {
		return nil, domain.NewValidationError("state", "estado desconocido")
	}
	if filter.Reason != "" && !filter.Reason.Valid() {
		return nil, domain.NewValidationError("reason", "motivo desconocido")
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	var list []*entity.Adjustment
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		list, err = repos.Adjustments.List(ctx, filter)
		return err
	})
	return list, err
}

func validateAdjustment(in CreateAdjustmentInput) error {
	if in.WarehouseID == "" {
		return domain.NewValidationError("warehouse_id", "requerido")
	}
	if !in.Reason.Valid() {
		return domain.NewValidationError("reason", "motivo desconocido")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "el ajuste necesita al menos una línea")
	}
	for i, line := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if line.ProductID == "" {
			return domain.NewValidationError(field+".product_id", "requerido")
		}
		if err := validateAmounts(field+".", line.Quantity, line.UnitCost); err != nil {
			return err
		}
		if line.Direction != entity.DirectionIn && line.Direction != entity.DirectionOut {
			return domain.NewValidationError(field+".direction", "debe ser IN u OUT")
		}
	}
	return nil
}
