package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo bodegas en memoria. No participa en transacciones.
type WarehouseRepo struct {
	s *Store
}

// Create persiste la bodega. Código único.
func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.s.write(false, func() error {
		for _, o := range r.s.warehouses {
			if o.ID == w.ID || o.Code == w.Code {
				return fmt.Errorf("bodega %s: %w", w.Code, domain.ErrDuplicate)
			}
		}
		c := *w
		r.s.warehouses[w.ID] = &c
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.s.read(func() {
		if w, ok := r.s.warehouses[id]; ok {
			c := *w
			out = &c
		}
	})
	return out, nil
}

// List bodegas ordenadas por código.
func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	out := make([]*entity.Warehouse, 0)
	r.s.read(func() {
		for _, w := range r.s.warehouses {
			c := *w
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, limit, offset), nil
}
