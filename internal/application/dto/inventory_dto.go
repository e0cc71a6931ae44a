package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostMovementRequest body para POST /api/inventory/movements. Solo ENTRY o EXIT.
type PostMovementRequest struct {
	Kind        string           `json:"kind" validate:"required,oneof=ENTRY EXIT"`
	WarehouseID string           `json:"warehouse_id" validate:"required"`
	ProductID   string           `json:"product_id" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"` // vacío = costo promedio vigente
	CauseType   string           `json:"cause_type,omitempty" validate:"required_with=CauseID,max=64"`
	CauseID     string           `json:"cause_id,omitempty" validate:"required_with=CauseType,max=128"`
	Note        string           `json:"note,omitempty" validate:"max=500"`
	OccurredAt  *time.Time       `json:"occurred_at,omitempty"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID          string          `json:"id"`
	Seq         int64           `json:"seq"`
	Kind        string          `json:"kind"`
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	OccurredAt  time.Time       `json:"occurred_at"`
	CauseType   string          `json:"cause_type,omitempty"`
	CauseID     string          `json:"cause_id,omitempty"`
	ReversalOf  string          `json:"reversal_of,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

// BalanceResponse saldo de un par (bodega, producto).
type BalanceResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// AdjustmentLineRequest línea de ajuste.
type AdjustmentLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gt=0"`
	Direction string           `json:"direction" validate:"required,oneof=IN OUT"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
}

// CreateAdjustmentRequest body para POST /api/inventory/adjustments.
type CreateAdjustmentRequest struct {
	WarehouseID string                  `json:"warehouse_id" validate:"required"`
	Reason      string                  `json:"reason" validate:"required,oneof=SHRINKAGE SURPLUS PHYSICAL_COUNT OTHER"`
	Note        string                  `json:"note,omitempty" validate:"max=500"`
	Lines       []AdjustmentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AdjustmentResponse ajuste con líneas y auditoría.
type AdjustmentResponse struct {
	ID          string                  `json:"id"`
	WarehouseID string                  `json:"warehouse_id"`
	Reason      string                  `json:"reason"`
	State       string                  `json:"state"`
	Note        string                  `json:"note,omitempty"`
	Lines       []AdjustmentLineRequest `json:"lines"`
	CreatedBy   string                  `json:"created_by"`
	CreatedAt   time.Time               `json:"created_at"`
	AppliedBy   string                  `json:"applied_by,omitempty"`
	AppliedAt   *time.Time              `json:"applied_at,omitempty"`
	AnulledBy   string                  `json:"anulled_by,omitempty"`
	AnulledAt   *time.Time              `json:"anulled_at,omitempty"`
}

// ListAdjustmentsQuery filtros de GET /api/inventory/adjustments. from/to (RFC3339) se leen aparte.
type ListAdjustmentsQuery struct {
	PageRequest
	WarehouseID string `query:"warehouse_id"`
	State       string `query:"state" validate:"omitempty,oneof=PENDING APPLIED ANULLED"`
	Reason      string `query:"reason" validate:"omitempty,oneof=SHRINKAGE SURPLUS PHYSICAL_COUNT OTHER"`
}

// TransferLineRequest línea de traslado.
type TransferLineRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
}

// CreateTransferRequest body para POST /api/inventory/transfers.
type CreateTransferRequest struct {
	OriginWarehouseID      string                `json:"origin_warehouse_id" validate:"required"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required,nefield=OriginWarehouseID"`
	Note                   string                `json:"note,omitempty" validate:"max=500"`
	Lines                  []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransferResponse traslado con líneas y auditoría.
type TransferResponse struct {
	ID                     string                `json:"id"`
	OriginWarehouseID      string                `json:"origin_warehouse_id"`
	DestinationWarehouseID string                `json:"destination_warehouse_id"`
	State                  string                `json:"state"`
	Note                   string                `json:"note,omitempty"`
	Lines                  []TransferLineRequest `json:"lines"`
	CreatedBy              string                `json:"created_by"`
	CreatedAt              time.Time             `json:"created_at"`
	AppliedBy              string                `json:"applied_by,omitempty"`
	AppliedAt              *time.Time            `json:"applied_at,omitempty"`
	AnulledBy              string                `json:"anulled_by,omitempty"`
	AnulledAt              *time.Time            `json:"anulled_at,omitempty"`
}

// ListTransfersQuery filtros de GET /api/inventory/transfers. from/to (RFC3339) se leen aparte.
type ListTransfersQuery struct {
	PageRequest
	OriginWarehouseID      string `query:"origin_warehouse_id"`
	DestinationWarehouseID string `query:"destination_warehouse_id"`
	State                  string `query:"state" validate:"omitempty,oneof=PENDING APPLIED ANULLED"`
}

// ValuationDTO saldo y costo promedio en un punto del kardex.
type ValuationDTO struct {
	Balance     decimal.Decimal `json:"balance"`
	AverageCost decimal.Decimal `json:"average_cost"`
	Value       decimal.Decimal `json:"value"`
}

// KardexRowDTO fila del kardex.
type KardexRowDTO struct {
	MovementID     string          `json:"movement_id"`
	Timestamp      time.Time       `json:"timestamp"`
	WarehouseID    string          `json:"warehouse_id"`
	Kind           string          `json:"kind"`
	CauseType      string          `json:"cause_type,omitempty"`
	CauseID        string          `json:"cause_id,omitempty"`
	EntryQty       decimal.Decimal `json:"entry_qty"`
	ExitQty        decimal.Decimal `json:"exit_qty"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	RunningValue   decimal.Decimal `json:"running_value"`
}

// KardexResponse kardex de un producto con apertura y cierre.
type KardexResponse struct {
	ProductID   string         `json:"product_id"`
	WarehouseID string         `json:"warehouse_id,omitempty"`
	Opening     ValuationDTO   `json:"opening"`
	Rows        []KardexRowDTO `json:"rows"`
	Closing     ValuationDTO   `json:"closing"`
}

// LowStockDTO producto en o bajo su stock mínimo.
type LowStockDTO struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	WarehouseID       string          `json:"warehouse_id,omitempty"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	MinimumStock      decimal.Decimal `json:"minimum_stock"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // MinimumStock * 1.5 - CurrentStock
	UnitCost          decimal.Decimal `json:"unit_cost"`           // costo promedio ponderado
	EstimatedCost     decimal.Decimal `json:"estimated_order_cost"`
}

// ValuationLineDTO valor de un par (bodega, producto).
type ValuationLineDTO struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	Value       decimal.Decimal `json:"value"`
}

// ValuationResponse valorización de inventario.
type ValuationResponse struct {
	WarehouseID string             `json:"warehouse_id,omitempty"`
	Lines       []ValuationLineDTO `json:"lines"`
	Total       decimal.Decimal    `json:"total"`
}

// CompareWarehousesRequest body para POST /api/inventory/reports/comparison.
type CompareWarehousesRequest struct {
	WarehouseIDs []string `json:"warehouse_ids" validate:"required,min=2,unique,dive,required"`
}

// ComparisonRowDTO un producto en las bodegas comparadas.
type ComparisonRowDTO struct {
	ProductID   string                     `json:"product_id"`
	AverageCost decimal.Decimal            `json:"average_cost"`
	Quantities  map[string]decimal.Decimal `json:"quantities"`
	Values      map[string]decimal.Decimal `json:"values"`
}

// ComparisonResponse comparación lado a lado.
type ComparisonResponse struct {
	WarehouseIDs []string                   `json:"warehouse_ids"`
	Rows         []ComparisonRowDTO         `json:"rows"`
	Totals       map[string]decimal.Decimal `json:"totals"`
}

// ReconciliationResponse saldo almacenado frente a la suma de movimientos.
type ReconciliationResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Stored      decimal.Decimal `json:"stored"`
	Computed    decimal.Decimal `json:"computed"`
	Drift       decimal.Decimal `json:"drift"`
	Consistent  bool            `json:"consistent"`
}
