package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// DefaultExpiryWindow ventana de vencimiento cuando no se configura otra.
const DefaultExpiryWindow = 30 * 24 * time.Hour

// LotUseCase lotes por producto y bodega: alta, reservas y alertas de vencimiento.
type LotUseCase struct {
	d      Deps
	window time.Duration
}

// NewLotUseCase construye el caso de uso. window <= 0 usa DefaultExpiryWindow.
func NewLotUseCase(d Deps, window time.Duration) *LotUseCase {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	return &LotUseCase{d: d, window: window}
}

// CreateLotInput entrada para registrar un lote.
type CreateLotInput struct {
	ProductID       string
	WarehouseID     string
	LotNumber       string
	Quantity        decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
}

// Create registra un lote de un producto en una bodega.
func (uc *LotUseCase) Create(ctx context.Context, in CreateLotInput) (*entity.Lot, error) {
	if in.LotNumber == "" {
		return nil, fmt.Errorf("%w: lot_number requerido", domain.ErrInvalidInput)
	}
	if in.Quantity.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	if in.ManufactureDate != nil && in.ExpiryDate != nil && in.ExpiryDate.Before(*in.ManufactureDate) {
		return nil, fmt.Errorf("%w: vencimiento anterior a fabricación", domain.ErrInvalidInput)
	}
	if _, err := uc.d.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if err := uc.d.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	now := uc.d.now()
	lot := &entity.Lot{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		WarehouseID:      in.WarehouseID,
		LotNumber:        in.LotNumber,
		Quantity:         in.Quantity,
		ReservedQuantity: decimal.Zero,
		ManufactureDate:  in.ManufactureDate,
		ExpiryDate:       in.ExpiryDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.d.Lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// ListByProduct lotes de un producto.
func (uc *LotUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.Lot, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	return uc.d.Lots.ListByProduct(ctx, productID)
}

// Reserve aparta cantidad del lote; falla con ErrInsufficientStock si supera lo disponible.
func (uc *LotUseCase) Reserve(ctx context.Context, id string, qty decimal.Decimal) (*entity.Lot, error) {
	return uc.mutate(ctx, id, "lot.reserve", func(l *entity.Lot) error {
		return l.Reserve(qty)
	})
}

// Release libera cantidad reservada.
func (uc *LotUseCase) Release(ctx context.Context, id string, qty decimal.Decimal) (*entity.Lot, error) {
	return uc.mutate(ctx, id, "lot.release", func(l *entity.Lot) error {
		return l.Release(qty)
	})
}

// CheckExpiring devuelve los lotes con existencias que vencen dentro de la ventana
// (incluye vencidos) y dispara LotExpiring por cada uno.
func (uc *LotUseCase) CheckExpiring(ctx context.Context, within time.Duration) ([]*entity.Lot, error) {
	if within <= 0 {
		within = uc.window
	}
	lots, err := uc.d.Lots.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.d.now()
	out := make([]*entity.Lot, 0)
	for _, l := range lots {
		if !l.Quantity.GreaterThan(decimal.Zero) || !l.ExpiresWithin(now, within) {
			continue
		}
		out = append(out, l)
		if uc.d.Notifier == nil {
			continue
		}
		if err := uc.d.Notifier.LotExpiring(ctx, l); err != nil {
			uc.d.Logger.Warn().Err(err).Str("lot_id", l.ID).Msg("no se pudo notificar vencimiento de lote")
		}
	}
	return out, nil
}

func (uc *LotUseCase) mutate(ctx context.Context, id, op string, fn func(l *entity.Lot) error) (*entity.Lot, error) {
	var out *entity.Lot
	err := uc.d.Locker.WithLock(ctx, lotLockKey(id), func(ctx context.Context) error {
		return uc.d.retry(ctx, op, func() error {
			l, err := uc.d.Lots.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if l == nil {
				return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
			}
			if err := fn(l); err != nil {
				return err
			}
			l.UpdatedAt = uc.d.now()
			if err := uc.d.Lots.Update(ctx, l); err != nil {
				return err
			}
			out = l
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
