package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
)

// parseTimeQuery lee un parámetro RFC3339 opcional.
func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "fecha RFC3339 inválida")
	}
	return &t, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		Seq:         m.Seq,
		Kind:        string(m.Kind),
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost(),
		OccurredAt:  m.OccurredAt,
		CauseType:   m.CauseType,
		CauseID:     m.CauseID,
		ReversalOf:  m.ReversalOf,
		Note:        m.Note,
		CreatedBy:   m.CreatedBy,
	}
}

func toAdjustmentInput(req dto.CreateAdjustmentRequest) inventory.CreateAdjustmentInput {
	lines := make([]entity.AdjustmentLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = entity.AdjustmentLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Direction: entity.AdjustmentDirection(l.Direction),
			UnitCost:  l.UnitCost,
		}
	}
	return inventory.CreateAdjustmentInput{
		WarehouseID: req.WarehouseID,
		Reason:      entity.AdjustmentReason(req.Reason),
		Note:        req.Note,
		Lines:       lines,
	}
}

func toAdjustmentResponse(a *entity.Adjustment) dto.AdjustmentResponse {
	lines := make([]dto.AdjustmentLineRequest, len(a.Lines))
	for i, l := range a.Lines {
		lines[i] = dto.AdjustmentLineRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Direction: string(l.Direction),
			UnitCost:  l.UnitCost,
		}
	}
	return dto.AdjustmentResponse{
		ID:          a.ID,
		WarehouseID: a.WarehouseID,
		Reason:      string(a.Reason),
		State:       string(a.State),
		Note:        a.Note,
		Lines:       lines,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
		AppliedBy:   a.AppliedBy,
		AppliedAt:   a.AppliedAt,
		AnulledBy:   a.AnulledBy,
		AnulledAt:   a.AnulledAt,
	}
}

func toTransferInput(req dto.CreateTransferRequest) inventory.CreateTransferInput {
	lines := make([]entity.TransferLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = entity.TransferLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost}
	}
	return inventory.CreateTransferInput{
		OriginWarehouseID:      req.OriginWarehouseID,
		DestinationWarehouseID: req.DestinationWarehouseID,
		Note:                   req.Note,
		Lines:                  lines,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	lines := make([]dto.TransferLineRequest, len(t.Lines))
	for i, l := range t.Lines {
		lines[i] = dto.TransferLineRequest{ProductID: l.ProductID, Quantity: l.Quantity, UnitCost: l.UnitCost}
	}
	return dto.TransferResponse{
		ID:                     t.ID,
		OriginWarehouseID:      t.OriginWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		State:                  string(t.State),
		Note:                   t.Note,
		Lines:                  lines,
		CreatedBy:              t.CreatedBy,
		CreatedAt:              t.CreatedAt,
		AppliedBy:              t.AppliedBy,
		AppliedAt:              t.AppliedAt,
		AnulledBy:              t.AnulledBy,
		AnulledAt:              t.AnulledAt,
	}
}

func toValuationDTO(v inv.Valuation) dto.ValuationDTO {
	return dto.ValuationDTO{Balance: v.Balance, AverageCost: v.AverageCost, Value: v.Value()}
}

func toKardexResponse(r *inventory.KardexReport) dto.KardexResponse {
	rows := make([]dto.KardexRowDTO, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = dto.KardexRowDTO{
			MovementID:     row.MovementID,
			Timestamp:      row.Timestamp,
			WarehouseID:    row.WarehouseID,
			Kind:           string(row.Kind),
			CauseType:      row.CauseType,
			CauseID:        row.CauseID,
			EntryQty:       row.EntryQty,
			ExitQty:        row.ExitQty,
			RunningBalance: row.RunningBalance,
			UnitCost:       row.UnitCost,
			AverageCost:    row.AverageCost,
			RunningValue:   row.RunningValue,
		}
	}
	return dto.KardexResponse{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Opening:     toValuationDTO(r.Opening),
		Rows:        rows,
		Closing:     toValuationDTO(r.Closing),
	}
}

func toLowStockDTO(items []inventory.LowStockItem) []dto.LowStockDTO {
	out := make([]dto.LowStockDTO, len(items))
	for i, it := range items {
		out[i] = dto.LowStockDTO{
			ProductID:         it.ProductID,
			SKU:               it.SKU,
			ProductName:       it.ProductName,
			WarehouseID:       it.WarehouseID,
			CurrentStock:      it.Quantity,
			MinimumStock:      it.MinimumStock,
			SuggestedOrderQty: it.SuggestedOrderQty,
			UnitCost:          it.AverageCost,
			EstimatedCost:     it.SuggestedOrderQty.Mul(it.AverageCost),
		}
	}
	return out
}

func toValuationResponse(r *inventory.ValuationReport) dto.ValuationResponse {
	lines := make([]dto.ValuationLineDTO, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = dto.ValuationLineDTO{
			WarehouseID: l.WarehouseID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			AverageCost: l.AverageCost,
			Value:       l.Value,
		}
	}
	return dto.ValuationResponse{WarehouseID: r.WarehouseID, Lines: lines, Total: r.Total}
}

func toComparisonResponse(r *inventory.WarehouseComparison) dto.ComparisonResponse {
	rows := make([]dto.ComparisonRowDTO, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = dto.ComparisonRowDTO{
			ProductID:   row.ProductID,
			AverageCost: row.AverageCost,
			Quantities:  row.Quantities,
			Values:      row.Values,
		}
	}
	totals := r.Totals
	if totals == nil {
		totals = map[string]decimal.Decimal{}
	}
	return dto.ComparisonResponse{WarehouseIDs: r.WarehouseIDs, Rows: rows, Totals: totals}
}

func toReconciliationResponse(r *inventory.Reconciliation) dto.ReconciliationResponse {
	return dto.ReconciliationResponse{
		WarehouseID: r.WarehouseID,
		ProductID:   r.ProductID,
		Stored:      r.Stored,
		Computed:    r.Computed,
		Drift:       r.Drift,
		Consistent:  r.Consistent(),
	}
}
