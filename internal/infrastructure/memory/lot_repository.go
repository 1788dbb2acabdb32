package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes en memoria.
type LotRepo struct {
	s    *Store
	inTx bool
}

// Create persiste un lote nuevo.
func (r *LotRepo) Create(_ context.Context, lot *entity.Lot) error {
	return r.s.write(r.inTx, func() error {
		if _, ok := r.s.lots[lot.ID]; ok {
			return domain.ErrDuplicate
		}
		lot.Version = 1
		r.s.lots[lot.ID] = cloneLot(lot)
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *LotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	var out *entity.Lot
	r.s.read(func() {
		if l, ok := r.s.lots[id]; ok {
			out = cloneLot(l)
		}
	})
	return out, nil
}

// Update reemplaza el lote si la versión coincide.
func (r *LotRepo) Update(_ context.Context, lot *entity.Lot) error {
	return r.s.write(r.inTx, func() error {
		cur, ok := r.s.lots[lot.ID]
		if !ok {
			return fmt.Errorf("lote %s: %w", lot.ID, domain.ErrNotFound)
		}
		if cur.Version != lot.Version {
			return fmt.Errorf("lote %s: %w", lot.ID, domain.ErrConflict)
		}
		lot.Version++
		r.s.lots[lot.ID] = cloneLot(lot)
		return nil
	})
}

// ListByProduct lotes de un producto ordenados por vencimiento (sin fecha al final).
func (r *LotRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Lot, error) {
	return r.filter(func(l *entity.Lot) bool { return l.ProductID == productID }), nil
}

// ListAll todos los lotes.
func (r *LotRepo) ListAll(_ context.Context) ([]*entity.Lot, error) {
	return r.filter(func(*entity.Lot) bool { return true }), nil
}

func (r *LotRepo) filter(keep func(*entity.Lot) bool) []*entity.Lot {
	out := make([]*entity.Lot, 0)
	r.s.read(func() {
		for _, l := range r.s.lots {
			if keep(l) {
				out = append(out, cloneLot(l))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return out[i].LotNumber < out[j].LotNumber
	})
	return out
}
