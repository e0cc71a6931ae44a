package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-ledger/internal/domain"
	"github.com/jhoicas/inventory-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventory-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventory-ledger/internal/domain/repository"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// Deps dependencias del motor de inventario.
type Deps struct {
	TxRunner   TxRunner
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
	Logger     *logger.Logger
	Clock      func() time.Time // nil = time.Now
}

// Engine agrupa los casos de uso del libro de inventario.
type Engine struct {
	Movements   *MovementUseCase
	Adjustments *AdjustmentUseCase
	Transfers   *TransferUseCase
	Kardex      *KardexUseCase
	Queries     *QueryUseCase
	Catalog     *CatalogUseCase
}

// NewEngine construye el motor y sus casos de uso sobre un mismo ledger.
func NewEngine(d Deps) *Engine {
	l := newLedger(d)
	return &Engine{
		Movements:   &MovementUseCase{l: l},
		Adjustments: &AdjustmentUseCase{l: l},
		Transfers:   &TransferUseCase{l: l},
		Kardex:      &KardexUseCase{l: l},
		Queries:     &QueryUseCase{l: l},
		Catalog:     &CatalogUseCase{l: l},
	}
}

// ledger piezas compartidas por los casos de uso.
type ledger struct {
	tx         TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	balances   *BalanceStore
	movements  *MovementLog
	log        *logger.Logger
	now        func() time.Time
}

func newLedger(d Deps) *ledger {
	now := d.Clock
	if now == nil {
		now = time.Now
	}
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("inventory")
	return &ledger{
		tx:         d.TxRunner,
		products:   d.Products,
		warehouses: d.Warehouses,
		balances:   NewBalanceStore(),
		movements:  NewMovementLog(now),
		log:        log,
		now:        now,
	}
}

func (l *ledger) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	return requireProductIn(ctx, l.products, id)
}

func requireProductIn(ctx context.Context, products repository.ProductRepository, id string) (*entity.Product, error) {
	p, err := products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	return p, nil
}

func (l *ledger) requireWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := l.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NewNotFoundError("bodega", id)
	}
	return w, nil
}

// currentAverageCost costo promedio ponderado vigente del producto (todas las bodegas);
// sin historial usa el costo por defecto del maestro.
func (l *ledger) currentAverageCost(ctx context.Context, repos TxRepos, productID string) (decimal.Decimal, error) {
	movs, err := l.movements.ListByProduct(ctx, repos.Movements, entity.MovementFilter{ProductID: productID})
	if err != nil {
		return decimal.Zero, err
	}
	if len(movs) == 0 {
		p, err := requireProductIn(ctx, repos.Products, productID)
		if err != nil {
			return decimal.Zero, err
		}
		return p.Cost, nil
	}
	return inv.Summarize(movs).AverageCost, nil
}

// resolveUnitCost costo explícito de la línea o, en su defecto, el promedio vigente.
func (l *ledger) resolveUnitCost(ctx context.Context, repos TxRepos, productID string, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, nil
	}
	return l.currentAverageCost(ctx, repos, productID)
}

// post agrega el movimiento al log y aplica su delta al saldo, en la tx del llamador.
func (l *ledger) post(ctx context.Context, repos TxRepos, m *entity.Movement, now time.Time) error {
	if _, err := l.movements.Append(ctx, repos.Movements, m); err != nil {
		return err
	}
	_, err := l.balances.ApplyDelta(ctx, repos, m.WarehouseID, m.ProductID, m.SignedQuantity(), now)
	return err
}

// reverseCause publica un movimiento compensatorio por cada movimiento original del documento:
// mismo par, cantidad y costo, tipo opuesto. Las compensaciones que suman van primero.
func (l *ledger) reverseCause(ctx context.Context, repos TxRepos, causeType, causeID string, actor entity.ActorIdentity, now time.Time) (int, error) {
	movs, err := l.movements.ListByCause(ctx, repos.Movements, causeType, causeID)
	if err != nil {
		return 0, err
	}
	originals := make([]*entity.Movement, 0, len(movs))
	keys := make([]entity.StockKey, 0, len(movs))
	for _, m := range movs {
		if m.ReversalOf != "" {
			continue
		}
		originals = append(originals, m)
		keys = append(keys, entity.StockKey{WarehouseID: m.WarehouseID, ProductID: m.ProductID})
	}
	if err := l.balances.Lock(ctx, repos.Stock, keys); err != nil {
		return 0, err
	}
	ordered := make([]*entity.Movement, 0, len(originals))
	for _, m := range originals {
		if m.Kind.Opposite().IsInbound() {
			ordered = append(ordered, m)
		}
	}
	for _, m := range originals {
		if !m.Kind.Opposite().IsInbound() {
			ordered = append(ordered, m)
		}
	}
	for _, orig := range ordered {
		rev := &entity.Movement{
			ProductID:   orig.ProductID,
			WarehouseID: orig.WarehouseID,
			Kind:        orig.Kind.Opposite(),
			Quantity:    orig.Quantity,
			UnitCost:    orig.UnitCost,
			CauseType:   causeType,
			CauseID:     causeID,
			ReversalOf:  orig.ID,
			Note:        "anulación de " + orig.ID,
			CreatedBy:   actor.UserID,
		}
		if err := l.post(ctx, repos, rev, now); err != nil {
			return 0, err
		}
	}
	return len(ordered), nil
}

func requireActor(actor entity.ActorIdentity) error {
	if actor.UserID == "" {
		return domain.NewValidationError("actor", "identidad del actor requerida")
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
