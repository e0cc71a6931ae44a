package repository

import (
	"context"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia del log de movimientos (solo inserción).
type InventoryMovementRepository interface {
	// Create asigna ID y Seq si faltan y persiste el movimiento.
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByProduct ordenado por fecha y luego por orden de inserción.
	ListByProduct(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	ListByCause(ctx context.Context, causeType, causeID string) ([]*entity.Movement, error)
}
