package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// DefaultConflictRetries reintentos ante domain.ErrConflict cuando Deps.Retries es cero.
const DefaultConflictRetries = 3

const baseBackoff = 5 * time.Millisecond

// Deps dependencias compartidas por los casos de uso del motor.
// Los repositorios sueltos se usan para lecturas y altas; las escrituras de stock
// van siempre por Tx.
type Deps struct {
	Tx             TxRunner
	Products       repository.ProductRepository
	Lots           repository.LotRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Transfers      repository.StockTransferRepository
	Counts         repository.CountSessionRepository
	Warehouses     repository.WarehouseRepository
	Locker         Locker
	Notifier       Notifier
	Clock          Clock
	Logger         zerolog.Logger
	Retries        int
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// retry reintenta fn mientras devuelva domain.ErrConflict, con backoff exponencial acotado.
func (d Deps) retry(ctx context.Context, op string, fn func() error) error {
	retries := d.Retries
	if retries <= 0 {
		retries = DefaultConflictRetries
	}
	backoff := baseBackoff
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt >= retries {
			return err
		}
		d.Logger.Warn().Str("op", op).Int("attempt", attempt+1).Msg("conflicto de versión, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

// stockTx bloquea el producto, abre una transacción y reintenta ante conflictos.
// Es la unidad de commit por ítem de órdenes, traslados y conteos.
func (d Deps) stockTx(ctx context.Context, op, productID string, fn func(tx repository.TxRepositories) error) error {
	return d.Locker.WithLock(ctx, productLockKey(productID), func(ctx context.Context) error {
		return d.retry(ctx, op, func() error {
			return d.Tx.Run(ctx, fn)
		})
	})
}

// lockedProduct carga el producto con bloqueo de fila dentro de la tx.
func lockedProduct(ctx context.Context, products repository.ProductRepository, id string) (*entity.Product, error) {
	p, err := products.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// stockChange resultado de aplicar un movimiento: producto actualizado y stock previo.
type stockChange struct {
	product     *entity.Product
	movement    *entity.StockMovement
	before      decimal.Decimal
	warehouseID string
}

// applyStock aplica el movimiento al producto ya bloqueado y lo persiste con su kardex.
// unitCost != nil recalcula el costo promedio ponderado (entradas de compra).
func (d Deps) applyStock(
	ctx context.Context,
	products repository.ProductRepository,
	p *entity.Product,
	in inventory.MovementInput,
	unitCost *decimal.Decimal,
) (*stockChange, error) {
	before := p.Stock
	prevCost := p.Cost
	if unitCost != nil && in.Quantity.GreaterThan(decimal.Zero) {
		p.Cost = inventory.WeightedAverageCost(p.Stock, p.Cost, in.Quantity, *unitCost)
	}
	mov, err := inventory.ApplyMovement(p, in)
	if err != nil {
		p.Cost = prevCost
		if errors.Is(err, domain.ErrInvariantViolation) {
			d.Logger.Error().Err(err).
				Str("product_id", p.ID).
				Str("warehouse_id", in.WarehouseID).
				Str("type", string(in.Type)).
				Str("quantity", in.Quantity.String()).
				Msg("movimiento rechazado: dejaría stock negativo")
		}
		return nil, err
	}
	if err := products.Save(ctx, p, []entity.StockMovement{*mov}); err != nil {
		return nil, err
	}
	return &stockChange{product: p, movement: mov, before: before, warehouseID: in.WarehouseID}, nil
}

// afterCommit dispara los avisos de stock bajo de los cambios ya confirmados.
func (d Deps) afterCommit(ctx context.Context, changes ...*stockChange) {
	if d.Notifier == nil {
		return
	}
	for _, c := range changes {
		if c == nil || !inventory.CrossedLowStock(c.before, c.product.Stock, c.product.MinStock) {
			continue
		}
		if err := d.Notifier.LowStockCrossed(ctx, c.product, c.warehouseID); err != nil {
			d.Logger.Warn().Err(err).Str("product_id", c.product.ID).Msg("no se pudo notificar stock bajo")
		}
	}
}

func (d Deps) requireWarehouse(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: warehouse_id requerido", domain.ErrInvalidInput)
	}
	w, err := d.Warehouses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (d Deps) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := d.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// nextNumber asigna el siguiente consecutivo PREFIJO-AAAA-NNNN bajo el candado de la secuencia.
// create recibe el número y persiste el documento dentro del mismo candado.
func (d Deps) nextNumber(
	ctx context.Context,
	prefix string,
	list func(ctx context.Context, year int) ([]string, error),
	create func(number string) error,
) error {
	return d.Locker.WithLock(ctx, seqLockKey(prefix), func(ctx context.Context) error {
		year := d.now().Year()
		existing, err := list(ctx, year)
		if err != nil {
			return err
		}
		return create(inventory.NextDocumentNumber(prefix, year, existing))
	})
}
