package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// Update condicional por Version (domain.ErrConflict).
	Update(ctx context.Context, lot *entity.Lot) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Lot, error)
	ListAll(ctx context.Context) ([]*entity.Lot, error)
}
