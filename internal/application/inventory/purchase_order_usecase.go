package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// PurchaseOrderUseCase ciclo de vida de órdenes de compra y su recepción parcial.
type PurchaseOrderUseCase struct {
	d Deps
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(d Deps) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{d: d}
}

// CreatePOItemInput línea solicitada.
type CreatePOItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// CreatePOInput entrada para crear una orden en DRAFT.
type CreatePOInput struct {
	SupplierID   string
	WarehouseID  string
	Currency     string
	TaxRate      decimal.Decimal
	ShippingCost decimal.Decimal
	Notes        string
	CreatedBy    string
	Items        []CreatePOItemInput
}

// ReceiveLine cantidad recibida de una línea. Cantidades <= 0 se ignoran.
type ReceiveLine struct {
	ItemID   string
	Quantity decimal.Decimal
}

// Create valida la orden, asigna número PO-AAAA-NNNN y la guarda en DRAFT.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in CreatePOInput) (*entity.PurchaseOrder, error) {
	if in.SupplierID == "" {
		return nil, fmt.Errorf("%w: supplier_id requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}
	if in.TaxRate.LessThan(decimal.Zero) || in.ShippingCost.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: impuesto y flete no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := uc.d.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	items := make([]entity.POItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) || it.UnitCost.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea %s cantidad %s costo %s", domain.ErrInvalidInput, it.ProductID, it.Quantity, it.UnitCost)
		}
		p, err := uc.d.requireProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.POItem{
			ID:               uuid.New().String(),
			ProductID:        p.ID,
			SKU:              p.SKU,
			Quantity:         it.Quantity,
			ReceivedQuantity: decimal.Zero,
			UnitCost:         it.UnitCost,
		})
	}

	currency := in.Currency
	if currency == "" {
		currency = "COP"
	}
	now := uc.d.now()
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		SupplierID:   in.SupplierID,
		WarehouseID:  in.WarehouseID,
		Items:        items,
		Status:       entity.POStatusDraft,
		Currency:     currency,
		TaxRate:      in.TaxRate,
		ShippingCost: in.ShippingCost,
		Notes:        in.Notes,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.d.nextNumber(ctx, inventory.PrefixPurchaseOrder, uc.d.PurchaseOrders.ListNumbers, func(number string) error {
		po.PONumber = number
		return uc.d.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Get obtiene una orden por ID.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return loadPurchaseOrder(ctx, uc.d.PurchaseOrders, id)
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status entity.POStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	return uc.d.PurchaseOrders.List(ctx, status, limit, offset)
}

// Send DRAFT -> SENT.
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return uc.mutate(ctx, id, "po.send", func(po *entity.PurchaseOrder) error {
		return po.Send(uc.d.now())
	})
}

// Confirm SENT -> CONFIRMED con el aprobador.
func (uc *PurchaseOrderUseCase) Confirm(ctx context.Context, id, approvedBy string) (*entity.PurchaseOrder, error) {
	return uc.mutate(ctx, id, "po.confirm", func(po *entity.PurchaseOrder) error {
		return po.Confirm(approvedBy, uc.d.now())
	})
}

// Cancel cierra la orden. Lo ya recibido se queda en inventario.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return uc.mutate(ctx, id, "po.cancel", func(po *entity.PurchaseOrder) error {
		return po.Cancel(uc.d.now())
	})
}

// Delete borra una orden en DRAFT.
func (uc *PurchaseOrderUseCase) Delete(ctx context.Context, id string) error {
	return uc.d.Locker.WithLock(ctx, poLockKey(id), func(ctx context.Context) error {
		po, err := loadPurchaseOrder(ctx, uc.d.PurchaseOrders, id)
		if err != nil {
			return err
		}
		if err := po.CheckDeletable(); err != nil {
			return err
		}
		return uc.d.PurchaseOrders.Delete(ctx, id)
	})
}

// ReceiveItems registra la recepción (posiblemente parcial) de varias líneas.
// Cada cantidad se recorta a lo pendiente de la línea; cada línea con cantidad aplicada
// se confirma en su propia transacción junto con el producto y su movimiento INBOUND.
// Sin clave de recepción, repetir el mismo lote solo es no-op cuando las líneas ya quedaron
// completas: una línea de 10 con 6 recibidas acepta otras 4. Ver ReceiveItemsOnce.
func (uc *PurchaseOrderUseCase) ReceiveItems(ctx context.Context, id, actor string, lines []ReceiveLine) (*entity.PurchaseOrder, error) {
	return uc.ReceiveItemsOnce(ctx, id, actor, "", lines)
}

// ReceiveItemsOnce igual que ReceiveItems con una clave de recepción (receiptKey) que se
// registra por línea en la misma transacción que el movimiento. Reenviar el mismo lote con
// la misma clave no vuelve a sumar las líneas ya aplicadas: tras un fallo parcial el
// reintento solo aplica las líneas que faltaron.
func (uc *PurchaseOrderUseCase) ReceiveItemsOnce(ctx context.Context, id, actor, receiptKey string, lines []ReceiveLine) (*entity.PurchaseOrder, error) {
	receiptKey = strings.TrimSpace(receiptKey)
	var result *entity.PurchaseOrder
	err := uc.d.Locker.WithLock(ctx, poLockKey(id), func(ctx context.Context) error {
		po, err := loadPurchaseOrder(ctx, uc.d.PurchaseOrders, id)
		if err != nil {
			return err
		}
		if err := po.CheckReceivable(); err != nil {
			return err
		}
		for _, l := range lines {
			if po.Item(l.ItemID) == nil {
				return fmt.Errorf("línea %s de la orden %s: %w", l.ItemID, po.PONumber, domain.ErrNotFound)
			}
		}

		var changes []*stockChange
		for _, l := range lines {
			if !l.Quantity.GreaterThan(decimal.Zero) {
				continue
			}
			item := po.Item(l.ItemID)
			var change *stockChange
			err := uc.d.stockTx(ctx, "po.receive", item.ProductID, func(tx repository.TxRepositories) error {
				change = nil
				cur, err := loadPurchaseOrder(ctx, tx.PurchaseOrders, id)
				if err != nil {
					return err
				}
				if err := cur.CheckReceivable(); err != nil {
					return err
				}
				curItem := cur.Item(l.ItemID)
				clamped := curItem.ReceiveOnce(receiptKey, l.Quantity)
				if clamped.IsZero() {
					return nil
				}
				p, err := lockedProduct(ctx, tx.Products, curItem.ProductID)
				if err != nil {
					return err
				}
				now := uc.d.now()
				unitCost := curItem.UnitCost
				change, err = uc.d.applyStock(ctx, tx.Products, p, inventory.MovementInput{
					Type:        entity.MovementTypeInbound,
					Quantity:    clamped,
					WarehouseID: cur.WarehouseID,
					Reference:   cur.PONumber,
					Actor:       actor,
					Date:        now,
				}, &unitCost)
				if err != nil {
					return err
				}
				cur.RefreshReceiptStatus(now)
				return tx.PurchaseOrders.Update(ctx, cur)
			})
			if err != nil {
				uc.d.Logger.Error().Err(err).
					Str("po_id", id).
					Str("item_id", l.ItemID).
					Str("quantity", l.Quantity.String()).
					Str("receipt_key", receiptKey).
					Msg("recepción parcial interrumpida")
				uc.d.afterCommit(ctx, changes...)
				return err
			}
			changes = append(changes, change)
		}
		uc.d.afterCommit(ctx, changes...)

		result, err = loadPurchaseOrder(ctx, uc.d.PurchaseOrders, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mutate aplica una transición de estado bajo el candado de la orden, con reintento por versión.
func (uc *PurchaseOrderUseCase) mutate(ctx context.Context, id, op string, fn func(po *entity.PurchaseOrder) error) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.d.Locker.WithLock(ctx, poLockKey(id), func(ctx context.Context) error {
		return uc.d.retry(ctx, op, func() error {
			po, err := loadPurchaseOrder(ctx, uc.d.PurchaseOrders, id)
			if err != nil {
				return err
			}
			if err := fn(po); err != nil {
				return err
			}
			if err := uc.d.PurchaseOrders.Update(ctx, po); err != nil {
				return err
			}
			out = po
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadPurchaseOrder(ctx context.Context, repo repository.PurchaseOrderRepository, id string) (*entity.PurchaseOrder, error) {
	po, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
	}
	return po, nil
}
