package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.CountSessionRepository = (*CountSessionRepo)(nil)

// CountSessionRepo sesiones de conteo en memoria.
type CountSessionRepo struct {
	s    *Store
	inTx bool
}

// Create persiste la sesión.
func (r *CountSessionRepo) Create(_ context.Context, session *entity.CountSession) error {
	return r.s.write(r.inTx, func() error {
		if _, ok := r.s.counts[session.ID]; ok {
			return domain.ErrDuplicate
		}
		session.Version = 1
		r.s.counts[session.ID] = session.Clone()
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *CountSessionRepo) GetByID(_ context.Context, id string) (*entity.CountSession, error) {
	var out *entity.CountSession
	r.s.read(func() { out = r.s.counts[id].Clone() })
	return out, nil
}

// Update reemplaza la sesión si la versión coincide.
func (r *CountSessionRepo) Update(_ context.Context, session *entity.CountSession) error {
	return r.s.write(r.inTx, func() error {
		cur, ok := r.s.counts[session.ID]
		if !ok {
			return fmt.Errorf("sesión %s: %w", session.ID, domain.ErrNotFound)
		}
		if cur.Version != session.Version {
			return fmt.Errorf("sesión %s: %w", session.ID, domain.ErrConflict)
		}
		session.Version++
		r.s.counts[session.ID] = session.Clone()
		return nil
	})
}

// FindOpen sesión abierta de la bodega ("" = global).
func (r *CountSessionRepo) FindOpen(_ context.Context, warehouseID string) (*entity.CountSession, error) {
	var out *entity.CountSession
	r.s.read(func() {
		for _, c := range r.s.counts {
			if c.IsOpen() && c.WarehouseID == warehouseID {
				out = c.Clone()
				return
			}
		}
	})
	return out, nil
}
