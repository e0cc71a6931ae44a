package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

const transferEntity = "traslado"

// TransferUseCase máquina de estados de traslados entre bodegas, con atomicidad de ambos lados.
type TransferUseCase struct {
	l *ledger
}

// CreateTransferInput encabezado y líneas de un traslado nuevo.
type CreateTransferInput struct {
	OriginWarehouseID      string
	DestinationWarehouseID string
	Note                   string
	Lines                  []entity.TransferLine
}

// Create registra el traslado en PENDING. Origen y destino deben ser distintos.
func (uc *TransferUseCase) Create(ctx context.Context, in CreateTransferInput, actor entity.ActorIdentity) (*entity.Transfer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateTransfer(in); err != nil {
		return nil, err
	}
	if _, err := uc.l.requireWarehouse(ctx, in.OriginWarehouseID); err != nil {
		return nil, err
	}
	if _, err := uc.l.requireWarehouse(ctx, in.DestinationWarehouseID); err != nil {
		return nil, err
	}
	for _, line := range in.Lines {
		if _, err := uc.l.requireProduct(ctx, line.ProductID); err != nil {
			return nil, err
		}
	}

	tr := &entity.Transfer{
		ID:                     uuid.New().String(),
		OriginWarehouseID:      in.OriginWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		State:                  entity.StatePending,
		Note:                   in.Note,
		Lines:                  append([]entity.TransferLine(nil), in.Lines...),
		CreatedBy:              actor.UserID,
		CreatedAt:              uc.l.now().UTC(),
	}
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		return repos.Transfers.Create(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	uc.l.log.Info().
		Str("transfer_id", tr.ID).
		Str("origin", tr.OriginWarehouseID).
		Str("destination", tr.DestinationWarehouseID).
		Int("lines", len(tr.Lines)).
		Str("actor", actor.UserID).
		Msg("traslado creado")
	return tr, nil
}

// Apply por cada línea publica TRANSFER_OUT en origen y TRANSFER_IN en destino.
// Todas las líneas entran o ninguna: un faltante en origen revierte el traslado completo.
func (uc *TransferUseCase) Apply(ctx context.Context, id string, actor entity.ActorIdentity) (*entity.Transfer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.Transfer
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		tr, err := repos.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.NewNotFoundError(transferEntity, id)
		}
		if !tr.State.CanTransitionTo(entity.StateApplied) {
			return &domain.InvalidStateTransitionError{Entity: transferEntity, ID: id, From: string(tr.State), To: string(entity.StateApplied)}
		}
		keys := make([]entity.StockKey, 0, 2*len(tr.Lines))
		for _, line := range tr.Lines {
			keys = append(keys,
				entity.StockKey{WarehouseID: tr.OriginWarehouseID, ProductID: line.ProductID},
				entity.StockKey{WarehouseID: tr.DestinationWarehouseID, ProductID: line.ProductID},
			)
		}
		if err := uc.l.balances.Lock(ctx, repos.Stock, keys); err != nil {
			return err
		}
		now := uc.l.now().UTC()
		for i, line := range tr.Lines {
			cost, err := uc.l.resolveUnitCost(ctx, repos, line.ProductID, line.UnitCost)
			if err != nil {
				return err
			}
			outMov := &entity.Movement{
				ProductID:   line.ProductID,
				WarehouseID: tr.OriginWarehouseID,
				Kind:        entity.MovementTransferOut,
				Quantity:    line.Quantity,
				UnitCost:    cost,
				CauseType:   entity.CauseTransfer,
				CauseID:     tr.ID,
				Note:        fmt.Sprintf("traslado %s línea %d hacia %s", tr.ID, i+1, tr.DestinationWarehouseID),
				CreatedBy:   actor.UserID,
			}
			if err := uc.l.post(ctx, repos, outMov, now); err != nil {
				return err
			}
			inMov := &entity.Movement{
				ProductID:   line.ProductID,
				WarehouseID: tr.DestinationWarehouseID,
				Kind:        entity.MovementTransferIn,
				Quantity:    line.Quantity,
				UnitCost:    cost,
				CauseType:   entity.CauseTransfer,
				CauseID:     tr.ID,
				Note:        fmt.Sprintf("traslado %s línea %d desde %s", tr.ID, i+1, tr.OriginWarehouseID),
				CreatedBy:   actor.UserID,
			}
			if err := uc.l.post(ctx, repos, inMov, now); err != nil {
				return err
			}
		}
		if err := repos.Transfers.UpdateState(ctx, tr.ID, entity.StateApplied, actor.UserID, now); err != nil {
			return err
		}
		tr.State = entity.StateApplied
		tr.AppliedBy = actor.UserID
		tr.AppliedAt = &now
		out = tr
		return nil
	})
	if err != nil {
		uc.l.log.Warn().Err(err).Str("transfer_id", id).Str("actor", actor.UserID).Msg("aplicación de traslado rechazada")
		return nil, err
	}
	uc.l.log.Info().Str("transfer_id", id).Str("actor", actor.UserID).Msg("traslado aplicado")
	return out, nil
}

// Anul cancela un traslado PENDING o, si está APPLIED, publica los espejos de cada movimiento
// (TRANSFER_OUT en destino, TRANSFER_IN en origen) y lo pasa a ANULLED.
func (uc *TransferUseCase) Anul(ctx context.Context, id string, actor entity.ActorIdentity) (*entity.Transfer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var out *entity.Transfer
	reversed := 0
	err := uc.l.tx.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		tr, err := repos.Transfers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.NewNotFoundError(transferEntity, id)
		}
		if tr.State == entity.StateAnulled {
			return &domain.AlreadyAnulledError{Entity: transferEntity, ID: id}
		}
		now := uc.l.now().UTC()
		if tr.State == entity.StateApplied {
			reversed, err = uc.l.reverseCause(ctx, repos, entity.CauseTransfer, tr.ID, actor, now)
			if err != nil {
				return err
			}
		}
		if err := repos.Transfers.UpdateState(ctx, tr.ID, entity.StateAnulled, actor.UserID, now); err != nil {
			return err
		}
		tr.State = entity.StateAnulled
		tr.AnulledBy = actor.UserID
		tr.AnulledAt = &now
		out = tr
		return nil
	})
	if err != nil {
		uc.l.log.Warn().Err(err).Str("transfer_id", id).Str("actor", actor.UserID).Msg("anulación de traslado rechazada")
		return nil, err
	}
	uc.l.log.Info().Str("transfer_id", id).Int("reversals", reversed).Str("actor", actor.UserID).Msg("traslado anulado")
	return out, nil
}

// Get obtiene un traslado con sus líneas.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*entity.Transfer, error) {
	var tr *entity.Transfer
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		tr, err = repos.Transfers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.NewNotFoundError(transferEntity, id)
	}
	return tr, nil
}

// List traslados filtrados, más recientes primero.
func (uc *TransferUseCase) List(ctx context.Context, filter entity.TransferFilter) ([]*entity.Transfer, error) {
	if filter.State != "" && !filter.State.Valid() {
		return nil, domain.NewValidationError("state", "estado desconocido")
	}
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset)
	var list []*entity.Transfer
	err := uc.l.tx.ReadOnly(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		list, err = repos.Transfers.List(ctx, filter)
		return err
	})
	return list, err
}

func validateTransfer(in CreateTransferInput) error {
	if in.OriginWarehouseID == "" || in.DestinationWarehouseID == "" {
		return domain.NewValidationError("warehouses", "origen y destino requeridos")
	}
	if in.OriginWarehouseID == in.DestinationWarehouseID {
		return domain.NewValidationError("destination_warehouse_id", "debe ser distinta del origen")
	}
	if len(in.Lines) == 0 {
		return domain.NewValidationError("lines", "el traslado necesita al menos una línea")
	}
	for i, line := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if line.ProductID == "" {
			return domain.NewValidationError(field+".product_id", "requerido")
		}
		if err := validateAmounts(field+".", line.Quantity, line.UnitCost); err != nil {
			return err
		}
	}
	return nil
}
