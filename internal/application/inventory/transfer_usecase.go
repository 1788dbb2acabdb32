package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// TransferUseCase ciclo de vida de traslados entre bodegas.
// Política: se despacha la cantidad solicitada completa y se recibe en parciales.
type TransferUseCase struct {
	d Deps
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(d Deps) *TransferUseCase {
	return &TransferUseCase{d: d}
}

// CreateTransferItemInput línea solicitada.
type CreateTransferItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CreateTransferInput entrada para crear un traslado en PENDING.
type CreateTransferInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	RequestedBy     string
	Notes           string
	Items           []CreateTransferItemInput
}

// Create valida bodegas y disponibilidad en origen y guarda el traslado con número TR-AAAA-NNNN.
func (uc *TransferUseCase) Create(ctx context.Context, in CreateTransferInput) (*entity.StockTransfer, error) {
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, fmt.Errorf("%w: bodega origen y destino iguales", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el traslado no tiene líneas", domain.ErrInvalidInput)
	}
	if err := uc.d.requireWarehouse(ctx, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if err := uc.d.requireWarehouse(ctx, in.ToWarehouseID); err != nil {
		return nil, err
	}

	requested := make(map[string]decimal.Decimal, len(in.Items))
	items := make([]entity.TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea %s cantidad %s", domain.ErrInvalidInput, it.ProductID, it.Quantity)
		}
		p, err := uc.d.requireProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		requested[p.ID] = requested[p.ID].Add(it.Quantity)
		lots, err := uc.d.Lots.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		avail := inventory.AvailableStock(p, lots, in.FromWarehouseID)
		if requested[p.ID].GreaterThan(avail) {
			return nil, fmt.Errorf("%w: producto %s disponible %s solicitado %s",
				domain.ErrInsufficientStock, p.SKU, avail, requested[p.ID])
		}
		items = append(items, entity.TransferItem{
			ID:                uuid.New().String(),
			ProductID:         p.ID,
			RequestedQuantity: it.Quantity,
			ShippedQuantity:   decimal.Zero,
			ReceivedQuantity:  decimal.Zero,
			ReturnedQuantity:  decimal.Zero,
		})
	}

	now := uc.d.now()
	t := &entity.StockTransfer{
		ID:              uuid.New().String(),
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Items:           items,
		Status:          entity.TransferStatusPending,
		RequestedBy:     in.RequestedBy,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.d.nextNumber(ctx, inventory.PrefixTransfer, uc.d.Transfers.ListNumbers, func(number string) error {
		t.TransferNumber = number
		return uc.d.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Get obtiene un traslado por ID.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return loadTransfer(ctx, uc.d.Transfers, id)
}

// List lista traslados, opcionalmente filtrados por estado.
func (uc *TransferUseCase) List(ctx context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	return uc.d.Transfers.List(ctx, status, limit, offset)
}

// Ship despacha cada línea completa desde la bodega origen (TRANSFER_OUT), una transacción por línea.
// La disponibilidad se vuelve a validar al despachar. Las líneas ya despachadas se saltan,
// así que reintentar tras un fallo parcial es seguro. Con la última línea pasa a IN_TRANSIT.
func (uc *TransferUseCase) Ship(ctx context.Context, id, actor string) (*entity.StockTransfer, error) {
	var result *entity.StockTransfer
	err := uc.d.Locker.WithLock(ctx, transferLockKey(id), func(ctx context.Context) error {
		t, err := loadTransfer(ctx, uc.d.Transfers, id)
		if err != nil {
			return err
		}
		if err := t.CheckShippable(); err != nil {
			return err
		}
		var changes []*stockChange
		for _, item := range t.Items {
			if item.Shipped() {
				continue
			}
			itemID := item.ID
			var change *stockChange
			err := uc.d.stockTx(ctx, "transfer.ship", item.ProductID, func(tx repository.TxRepositories) error {
				change = nil
				cur, err := loadTransfer(ctx, tx.Transfers, id)
				if err != nil {
					return err
				}
				if err := cur.CheckShippable(); err != nil {
					return err
				}
				it := cur.Item(itemID)
				if it.Shipped() {
					return nil
				}
				p, err := lockedProduct(ctx, tx.Products, it.ProductID)
				if err != nil {
					return err
				}
				lots, err := tx.Lots.ListByProduct(ctx, p.ID)
				if err != nil {
					return err
				}
				avail := inventory.AvailableStock(p, lots, cur.FromWarehouseID)
				if it.RequestedQuantity.GreaterThan(avail) {
					return fmt.Errorf("%w: producto %s disponible %s solicitado %s",
						domain.ErrInsufficientStock, p.SKU, avail, it.RequestedQuantity)
				}
				now := uc.d.now()
				qty := it.Ship()
				change, err = uc.d.applyStock(ctx, tx.Products, p, inventory.MovementInput{
					Type:        entity.MovementTypeTransferOut,
					Quantity:    qty.Neg(),
					WarehouseID: cur.FromWarehouseID,
					Reference:   cur.TransferNumber,
					Actor:       actor,
					Date:        now,
				}, nil)
				if err != nil {
					return err
				}
				if cur.AllShipped() {
					if err := cur.MarkInTransit(now); err != nil {
						return err
					}
				}
				return tx.Transfers.Update(ctx, cur)
			})
			if err != nil {
				uc.d.Logger.Error().Err(err).
					Str("transfer_id", id).
					Str("item_id", itemID).
					Msg("despacho de traslado interrumpido")
				uc.d.afterCommit(ctx, changes...)
				return err
			}
			changes = append(changes, change)
		}
		uc.d.afterCommit(ctx, changes...)

		result, err = loadTransfer(ctx, uc.d.Transfers, id)
		if err != nil {
			return err
		}
		// Todas las líneas venían despachadas de un intento anterior.
		if result.Status == entity.TransferStatusPending && result.AllShipped() {
			return uc.d.retry(ctx, "transfer.ship", func() error {
				cur, err := loadTransfer(ctx, uc.d.Transfers, id)
				if err != nil {
					return err
				}
				if err := cur.MarkInTransit(uc.d.now()); err != nil {
					return err
				}
				if err := uc.d.Transfers.Update(ctx, cur); err != nil {
					return err
				}
				result = cur
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReceiveItems registra la llegada a destino (TRANSFER_IN), recortada a lo que sigue en tránsito.
// Cuando todo lo despachado llegó pasa a COMPLETED y se notifica.
func (uc *TransferUseCase) ReceiveItems(ctx context.Context, id, actor string, lines []ReceiveLine) (*entity.StockTransfer, error) {
	var result *entity.StockTransfer
	err := uc.d.Locker.WithLock(ctx, transferLockKey(id), func(ctx context.Context) error {
		t, err := loadTransfer(ctx, uc.d.Transfers, id)
		if err != nil {
			return err
		}
		if err := t.CheckReceivable(); err != nil {
			return err
		}
		for _, l := range lines {
			if t.Item(l.ItemID) == nil {
				return fmt.Errorf("línea %s del traslado %s: %w", l.ItemID, t.TransferNumber, domain.ErrNotFound)
			}
		}

		var changes []*stockChange
		completed := false
		for _, l := range lines {
			if !l.Quantity.GreaterThan(decimal.Zero) {
				continue
			}
			item := t.Item(l.ItemID)
			var change *stockChange
			var done bool
			err := uc.d.stockTx(ctx, "transfer.receive", item.ProductID, func(tx repository.TxRepositories) error {
				change, done = nil, false
				cur, err := loadTransfer(ctx, tx.Transfers, id)
				if err != nil {
					return err
				}
				if err := cur.CheckReceivable(); err != nil {
					return err
				}
				it := cur.Item(l.ItemID)
				clamped := it.Receive(l.Quantity)
				if clamped.IsZero() {
					return nil
				}
				p, err := lockedProduct(ctx, tx.Products, it.ProductID)
				if err != nil {
					return err
				}
				now := uc.d.now()
				change, err = uc.d.applyStock(ctx, tx.Products, p, inventory.MovementInput{
					Type:        entity.MovementTypeTransferIn,
					Quantity:    clamped,
					WarehouseID: cur.ToWarehouseID,
					Reference:   cur.TransferNumber,
					Actor:       actor,
					Date:        now,
				}, nil)
				if err != nil {
					return err
				}
				done = cur.RefreshReceiptStatus(now)
				return tx.Transfers.Update(ctx, cur)
			})
			if err != nil {
				uc.d.Logger.Error().Err(err).
					Str("transfer_id", id).
					Str("item_id", l.ItemID).
					Str("quantity", l.Quantity.String()).
					Msg("recepción de traslado interrumpida")
				uc.d.afterCommit(ctx, changes...)
				return err
			}
			changes = append(changes, change)
			completed = completed || done
		}
		uc.d.afterCommit(ctx, changes...)

		result, err = loadTransfer(ctx, uc.d.Transfers, id)
		if err != nil {
			return err
		}
		if completed && uc.d.Notifier != nil {
			if err := uc.d.Notifier.TransferCompleted(ctx, result); err != nil {
				uc.d.Logger.Warn().Err(err).Str("transfer_id", id).Msg("no se pudo notificar traslado completado")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancela un traslado PENDING o IN_TRANSIT. Lo despachado y no recibido vuelve
// a la bodega origen con un movimiento RETURN por línea; lo recibido se queda en destino.
func (uc *TransferUseCase) Cancel(ctx context.Context, id, actor string) (*entity.StockTransfer, error) {
	var result *entity.StockTransfer
	err := uc.d.Locker.WithLock(ctx, transferLockKey(id), func(ctx context.Context) error {
		t, err := loadTransfer(ctx, uc.d.Transfers, id)
		if err != nil {
			return err
		}
		if err := t.CheckCancellable(); err != nil {
			return err
		}
		for _, item := range t.Items {
			if !item.InTransit().GreaterThan(decimal.Zero) {
				continue
			}
			itemID := item.ID
			err := uc.d.stockTx(ctx, "transfer.cancel", item.ProductID, func(tx repository.TxRepositories) error {
				cur, err := loadTransfer(ctx, tx.Transfers, id)
				if err != nil {
					return err
				}
				if err := cur.CheckCancellable(); err != nil {
					return err
				}
				it := cur.Item(itemID)
				rem := it.ReturnInTransit()
				if rem.IsZero() {
					return nil
				}
				p, err := lockedProduct(ctx, tx.Products, it.ProductID)
				if err != nil {
					return err
				}
				if _, err := uc.d.applyStock(ctx, tx.Products, p, inventory.MovementInput{
					Type:        entity.MovementTypeReturn,
					Quantity:    rem,
					WarehouseID: cur.FromWarehouseID,
					Reference:   cur.TransferNumber,
					Notes:       "reverso por cancelación de traslado",
					Actor:       actor,
					Date:        uc.d.now(),
				}, nil); err != nil {
					return err
				}
				return tx.Transfers.Update(ctx, cur)
			})
			if err != nil {
				uc.d.Logger.Error().Err(err).
					Str("transfer_id", id).
					Str("item_id", itemID).
					Msg("reverso de traslado interrumpido")
				return err
			}
		}

		return uc.d.retry(ctx, "transfer.cancel", func() error {
			cur, err := loadTransfer(ctx, uc.d.Transfers, id)
			if err != nil {
				return err
			}
			if err := cur.Cancel(uc.d.now()); err != nil {
				return err
			}
			if err := uc.d.Transfers.Update(ctx, cur); err != nil {
				return err
			}
			result = cur
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func loadTransfer(ctx context.Context, repo repository.StockTransferRepository, id string) (*entity.StockTransfer, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("traslado %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}
