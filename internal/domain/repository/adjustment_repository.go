package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// AdjustmentRepository puerto de persistencia para ajustes (encabezado + líneas).
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.Adjustment) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Adjustment, error)
	// GetForUpdate igual que GetByID pero bloquea el encabezado.
	GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error)
	UpdateState(ctx context.Context, id string, state entity.DocumentState, actor string, at time.Time) error
	List(ctx context.Context, filter entity.AdjustmentFilter) ([]*entity.Adjustment, error)
}
