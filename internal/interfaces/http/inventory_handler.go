package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	engine *inventory.Engine
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.Engine, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{engine: engine, log: log}
}

// PostMovement godoc
// @Summary      Registrar entrada o salida directa
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostMovementRequest  true  "kind ENTRY|EXIT, warehouse_id, product_id, quantity, unit_cost opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) PostMovement(c *fiber.Ctx) error {
	var in dto.PostMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	mov, err := h.engine.Movements.PostMovement(c.Context(), inventory.PostMovementInput{
		Kind:        entity.MovementKind(in.Kind),
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		CauseType:   in.CauseType,
		CauseID:     in.CauseID,
		Note:        in.Note,
		OccurredAt:  in.OccurredAt,
	}, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovementsByCause GET /api/inventory/movements?cause_type=&cause_id=
func (h *InventoryHandler) ListMovementsByCause(c *fiber.Ctx) error {
	movs, err := h.engine.Movements.ListByCause(c.Context(), c.Query("cause_type"), c.Query("cause_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.MovementResponse, len(movs))
	for i, m := range movs {
		out[i] = toMovementResponse(m)
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetBalance GET /api/inventory/balances?warehouse_id=&product_id=
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	warehouseID, productID := c.Query("warehouse_id"), c.Query("product_id")
	qty, err := h.engine.Movements.GetBalance(c.Context(), warehouseID, productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.BalanceResponse{WarehouseID: warehouseID, ProductID: productID, Quantity: qty})
}

// GetKardex godoc
// @Summary      Kardex valorizado por promedio ponderado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    path   string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega; vacío = todas"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Success      200  {object}  dto.KardexResponse
// @Router       /api/inventory/kardex/{product_id} [get]
func (h *InventoryHandler) GetKardex(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return writeError(c, h.log, err)
	}
	report, err := h.engine.Kardex.GetKardex(c.Context(), inventory.KardexQuery{
		ProductID:   c.Params("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		From:        from,
		To:          to,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toKardexResponse(report))
}

// GetAverageCost GET /api/inventory/kardex/{product_id}/average-cost
func (h *InventoryHandler) GetAverageCost(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	cost, err := h.engine.Kardex.CurrentAverageCost(c.Context(), productID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "average_cost": cost})
}

// Reconcile GET /api/inventory/reconcile?warehouse_id=&product_id=
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.engine.Queries.Reconcile(c.Context(), c.Query("warehouse_id"), c.Query("product_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(toReconciliationResponse(r))
}

func requireParam(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if v == "" {
		return "", domain.NewValidationError(name, "requerido")
	}
	return v, nil
}
