package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
)

// MovementLog registro de solo inserción de movimientos.
type MovementLog struct {
	now func() time.Time
}

// NewMovementLog construye el log con el reloj que asigna fechas de servidor.
func NewMovementLog(now func() time.Time) *MovementLog {
	if now == nil {
		now = time.Now
	}
	return &MovementLog{now: now}
}

// Append valida y persiste el movimiento; asigna OccurredAt si viene vacío.
func (l *MovementLog) Append(ctx context.Context, repo repository.InventoryMovementRepository, m *entity.Movement) (string, error) {
	if err := validateMovement(m); err != nil {
		return "", err
	}
	now := l.now().UTC()
	if m.OccurredAt.IsZero() {
		m.OccurredAt = now
	}
	m.CreatedAt = now
	if err := repo.Create(ctx, m); err != nil {
		return "", err
	}
	return m.ID, nil
}

// ListByProduct secuencia ordenada por fecha y orden de inserción.
func (l *MovementLog) ListByProduct(ctx context.Context, repo repository.InventoryMovementRepository, filter entity.MovementFilter) ([]*entity.Movement, error) {
	movs, err := repo.ListByProduct(ctx, filter)
	if err != nil {
		return nil, err
	}
	inv.SortMovements(movs)
	return movs, nil
}

// ListByCause movimientos generados por un documento, en orden de inserción.
func (l *MovementLog) ListByCause(ctx context.Context, repo repository.InventoryMovementRepository, causeType, causeID string) ([]*entity.Movement, error) {
	movs, err := repo.ListByCause(ctx, causeType, causeID)
	if err != nil {
		return nil, err
	}
	inv.SortMovements(movs)
	return movs, nil
}

func validateMovement(m *entity.Movement) error {
	switch {
	case m == nil:
		return domain.NewValidationError("movement", "requerido")
	case !m.Kind.Valid():
		return domain.NewValidationError("kind", "tipo de movimiento desconocido")
	case m.ProductID == "":
		return domain.NewValidationError("product_id", "requerido")
	case m.WarehouseID == "":
		return domain.NewValidationError("warehouse_id", "requerido")
	case !m.Quantity.IsPositive():
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	case !entity.FitsScale(m.Quantity):
		return domain.NewValidationError("quantity", fmt.Sprintf("máximo %d decimales", entity.Scale))
	case m.UnitCost.IsNegative():
		return domain.NewValidationError("unit_cost", "no puede ser negativo")
	case (m.CauseType == "") != (m.CauseID == ""):
		return domain.NewValidationError("cause", "cause_type y cause_id van juntos")
	}
	return nil
}

// validateAmounts cantidad positiva y costo opcional no negativo, ambos dentro de entity.Scale decimales.
// prefix antecede el nombre del campo ("lines[0]." en documentos).
func validateAmounts(prefix string, qty decimal.Decimal, cost *decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.NewValidationError(prefix+"quantity", "debe ser mayor que cero")
	}
	if !entity.FitsScale(qty) {
		return domain.NewValidationError(prefix+"quantity", fmt.Sprintf("máximo %d decimales", entity.Scale))
	}
	if cost == nil {
		return nil
	}
	if cost.IsNegative() {
		return domain.NewValidationError(prefix+"unit_cost", "no puede ser negativo")
	}
	if !entity.FitsScale(*cost) {
		return domain.NewValidationError(prefix+"unit_cost", fmt.Sprintf("máximo %d decimales", entity.Scale))
	}
	return nil
}
