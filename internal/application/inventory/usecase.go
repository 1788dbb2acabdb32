package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos manuales de un producto (venta, devolución, entrada)
// por el mismo camino del kardex que órdenes y traslados: candado del producto, SELECT FOR UPDATE
// y Commit/Rollback.
type RegisterMovementUseCase struct {
	d Deps
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(d Deps) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{d: d}
}

// MovementInputDTO entrada para registrar un movimiento manual.
// Quantity es la magnitud (> 0); el signo lo da el tipo. UnitCost solo aplica a INBOUND.
type MovementInputDTO struct {
	ProductID   string
	WarehouseID string
	Type        entity.MovementType
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Reference   string
	Notes       string
	Actor       string
}

// RegisterMovement valida, bloquea el producto y aplica el movimiento en una transacción.
// Una venta mayor al disponible (stock menos reservas de lotes) devuelve ErrInsufficientStock.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.StockMovement, error) {
	if input.ProductID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: product_id y cantidad positiva requeridos", domain.ErrInvalidInput)
	}
	signed := input.Quantity
	switch input.Type {
	case entity.MovementTypeInbound:
		if input.UnitCost != nil && input.UnitCost.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
	case entity.MovementTypeReturn:
	case entity.MovementTypeSale:
		signed = signed.Neg()
	default:
		// Conteos y traslados solo se registran desde sus propios flujos.
		return nil, fmt.Errorf("%w: tipo %q no admite registro manual", domain.ErrInvalidInput, input.Type)
	}
	if input.WarehouseID != "" {
		if err := uc.d.requireWarehouse(ctx, input.WarehouseID); err != nil {
			return nil, err
		}
	}

	var change *stockChange
	err := uc.d.stockTx(ctx, "product.movement", input.ProductID, func(tx repository.TxRepositories) error {
		change = nil
		p, err := lockedProduct(ctx, tx.Products, input.ProductID)
		if err != nil {
			return err
		}
		if input.Type == entity.MovementTypeSale {
			lots, err := tx.Lots.ListByProduct(ctx, p.ID)
			if err != nil {
				return err
			}
			avail := p.Stock
			if input.WarehouseID != "" {
				avail = inventory.AvailableStock(p, lots, input.WarehouseID)
			}
			if input.Quantity.GreaterThan(avail) {
				return fmt.Errorf("%w: producto %s disponible %s solicitado %s",
					domain.ErrInsufficientStock, p.SKU, avail, input.Quantity)
			}
		}
		var unitCost *decimal.Decimal
		if input.Type == entity.MovementTypeInbound {
			unitCost = input.UnitCost
		}
		change, err = uc.d.applyStock(ctx, tx.Products, p, inventory.MovementInput{
			Type:        input.Type,
			Quantity:    signed,
			WarehouseID: input.WarehouseID,
			Reference:   input.Reference,
			Notes:       input.Notes,
			Actor:       input.Actor,
			Date:        uc.d.now(),
		}, unitCost)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.afterCommit(ctx, change)
	return change.movement, nil
}
