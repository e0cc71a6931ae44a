package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
)

// CreateTransfer godoc
// @Summary      Crear traslado entre bodegas (PENDING)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "origen, destino y líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	tr, err := h.engine.Transfers.Create(c.Context(), toTransferInput(in), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(tr))
}

// ApplyTransfer POST /api/inventory/transfers/:id/apply
func (h *InventoryHandler) ApplyTransfer(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	tr, err := h.engine.Transfers.Apply(c.Context(), id, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// AnulTransfer POST /api/inventory/transfers/:id/anul
func (h *InventoryHandler) AnulTransfer(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return writeError(c, h.log, err)
	}
	tr, err := h.engine.Transfers.Anul(c.Context(), id, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// GetTransfer GET /api/inventory/transfers/:id
func (h *InventoryHandler) GetTransfer(c *fiber.Ctx) error {
	tr, err := h.engine.Transfers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toTransferResponse(tr))
}

// ListTransfers GET /api/inventory/transfers
func (h *InventoryHandler) ListTransfers(c *fiber.Ctx) error {
	var q dto.ListTransfersQuery
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
	list, err := h.engine.Transfers.List(c.Context(), entity.TransferFilter{
		OriginWarehouseID:      q.OriginWarehouseID,
		DestinationWarehouseID: q.DestinationWarehouseID,
		State:                  entity.DocumentState(q.State),
		From:                   from,
		To:                     to,
		Limit:                  q.Limit,
		Offset:                 q.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.TransferResponse, len(list))
	for i, t := range list {
		items[i] = toTransferResponse(t)
	}
	return c.JSON(dto.ListResponse[dto.TransferResponse]{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	})
}
