package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra y sus líneas.
type PurchaseOrderRepository interface {
	// Create devuelve domain.ErrDuplicate si el número ya existe.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update guarda cabecera y líneas; condicional por Version (domain.ErrConflict).
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, status entity.POStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
	// ListNumbers números de orden del año (para el consecutivo).
	ListNumbers(ctx context.Context, year int) ([]string, error)
}
