package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos con su kardex en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// Create persiste un producto nuevo. SKU único.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.write(r.inTx, func() error {
		if _, ok := r.s.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, p := range r.s.products {
			if p.SKU == product.SKU {
				return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
			}
		}
		product.Version = 1
		r.s.products[product.ID] = product.Clone()
		return nil
	})
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func() { out = r.s.products[id].Clone() })
	return out, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la dan el candado y la tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List productos ordenados por SKU.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	r.s.read(func() {
		out = make([]*entity.Product, 0, len(r.s.products))
		for _, p := range r.s.products {
			out = append(out, p.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

// Save reemplaza el producto si la versión coincide. Los movimientos ya vienen en History;
// newMovements solo se valida contra el final del kardex.
func (r *ProductRepo) Save(_ context.Context, product *entity.Product, newMovements []entity.StockMovement) error {
	return r.s.write(r.inTx, func() error {
		cur, ok := r.s.products[product.ID]
		if !ok {
			return fmt.Errorf("producto %s: %w", product.ID, domain.ErrNotFound)
		}
		if cur.Version != product.Version {
			return fmt.Errorf("producto %s versión %d (actual %d): %w", product.ID, product.Version, cur.Version, domain.ErrConflict)
		}
		if len(product.History) != len(cur.History)+len(newMovements) {
			return fmt.Errorf("%w: el kardex de %s no es solo de anexos", domain.ErrInvariantViolation, product.ID)
		}
		product.Version++
		r.s.products[product.ID] = product.Clone()
		return nil
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
