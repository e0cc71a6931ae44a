package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CreateAdjustment godoc
// @Summary      Crear ajuste de inventario (PENDING)
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "bodega, motivo y líneas"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	adj, err := h.engine.Adjustments.Create(c.Context(), toAdjustmentInput(in), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAdjustmentResponse(adj))
}

// ApplyAdjustment POST /api/inventory/adjustments/:id/apply
func (h *InventoryHandler) ApplyAdjustment(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	adj, err := h.engine.Adjustments.Apply(c.Context(), id, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// AnulAdjustment POST /api/inventory/adjustments/:id/anul
func (h *InventoryHandler) AnulAdjustment(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	adj, err := h.engine.Adjustments.Anul(c.Context(), id, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// GetAdjustment GET /api/inventory/adjustments/:id
func (h *InventoryHandler) GetAdjustment(c *fiber.Ctx) error {
	adj, err := h.engine.Adjustments.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// ListAdjustments GET /api/inventory/adjustments
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	var q dto.ListAdjustmentsQuery
	if err := bindQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	q.DefaultPage()
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	list, err := h.engine.Adjustments.List(c.Context(), entity.AdjustmentFilter{
		WarehouseID: q.WarehouseID,
		State:       entity.DocumentState(q.State),
		Reason:      entity.AdjustmentReason(q.Reason),
		From:        from,
		To:          to,
		Limit:       q.Limit,
		Offset:      q.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.AdjustmentResponse, len(list))
	for i, a := range list {
		items[i] = toAdjustmentResponse(a)
	}
	return c.JSON(dto.ListResponse[dto.AdjustmentResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}
