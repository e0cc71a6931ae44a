package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
)

// GetLowStock godoc
// @Summary      Productos en o bajo su stock mínimo
// @Description  Incluye la cantidad sugerida de reposición (mínimo × 1.5 − saldo).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = stock global."
// @Success      200  {array}   dto.LowStockDTO
// @Router       /api/inventory/reports/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.engine.Queries.ListLowStock(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": toLowStockDTO(items),
	})
}

// GetValuation GET /api/inventory/reports/valuation?warehouse_id=
func (h *InventoryHandler) GetValuation(c *fiber.Ctx) error {
	report, err := h.engine.Queries.GetValuation(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toValuationResponse(report))
}

// CompareWarehouses POST /api/inventory/reports/comparison
func (h *InventoryHandler) CompareWarehouses(c *fiber.Ctx) error {
	var in dto.CompareWarehousesRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	cmp, err := h.engine.Queries.CompareWarehouses(c.Context(), in.WarehouseIDs)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toComparisonResponse(cmp))
}
