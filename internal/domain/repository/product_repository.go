package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su kardex (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// List devuelve productos con su kardex; limit <= 0 = todos.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Save persiste stock, stock por bodega, costo y los movimientos nuevos como una sola unidad.
	// Escritura condicional por Version: si otro proceso guardó antes devuelve domain.ErrConflict.
	Save(ctx context.Context, product *entity.Product, newMovements []entity.StockMovement) error
}
