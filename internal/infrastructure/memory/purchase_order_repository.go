package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra en memoria.
type PurchaseOrderRepo struct {
	s    *Store
	inTx bool
}

// Create persiste la orden. Número único.
func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.s.write(r.inTx, func() error {
		for _, o := range r.s.orders {
			if o.ID == po.ID || o.PONumber == po.PONumber {
				return fmt.Errorf("orden %s: %w", po.PONumber, domain.ErrDuplicate)
			}
		}
		po.Version = 1
		r.s.orders[po.ID] = po.Clone()
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	r.s.read(func() { out = r.s.orders[id].Clone() })
	return out, nil
}

// Update reemplaza cabecera y líneas si la versión coincide.
func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.s.write(r.inTx, func() error {
		cur, ok := r.s.orders[po.ID]
		if !ok {
			return fmt.Errorf("orden %s: %w", po.ID, domain.ErrNotFound)
		}
		if cur.Version != po.Version {
			return fmt.Errorf("orden %s: %w", po.PONumber, domain.ErrConflict)
		}
		po.Version++
		r.s.orders[po.ID] = po.Clone()
		return nil
	})
}

// Delete elimina la orden.
func (r *PurchaseOrderRepo) Delete(_ context.Context, id string) error {
	return r.s.write(r.inTx, func() error {
		if _, ok := r.s.orders[id]; !ok {
			return fmt.Errorf("orden %s: %w", id, domain.ErrNotFound)
		}
		delete(r.s.orders, id)
		return nil
	})
}

// List órdenes más recientes primero.
func (r *PurchaseOrderRepo) List(_ context.Context, status entity.POStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	out := make([]*entity.PurchaseOrder, 0)
	r.s.read(func() {
		for _, o := range r.s.orders {
			if status == "" || o.Status == status {
				out = append(out, o.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PONumber > out[j].PONumber })
	return paginate(out, limit, offset), nil
}

// ListNumbers números del año.
func (r *PurchaseOrderRepo) ListNumbers(_ context.Context, year int) ([]string, error) {
	out := make([]string, 0)
	r.s.read(func() {
		for _, o := range r.s.orders {
			if _, y, _, ok := inventory.ParseDocumentNumber(o.PONumber); ok && y == year {
				out = append(out, o.PONumber)
			}
		}
	})
	return out, nil
}
