package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// TransferRepository puerto de persistencia para traslados (encabezado + líneas).
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateState(ctx context.Context, id string, state entity.DocumentState, actor string, at time.Time) error
	List(ctx context.Context, filter entity.TransferFilter) ([]*entity.Transfer, error)
}
