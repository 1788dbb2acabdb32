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

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo traslados en memoria.
type StockTransferRepo struct {
	s    *Store
	inTx bool
}

// Create persiste el traslado. Número único.
func (r *StockTransferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	return r.s.write(r.inTx, func() error {
		for _, o := range r.s.transfers {
			if o.ID == t.ID || o.TransferNumber == t.TransferNumber {
				return fmt.Errorf("traslado %s: %w", t.TransferNumber, domain.ErrDuplicate)
			}
		}
		t.Version = 1
		r.s.transfers[t.ID] = t.Clone()
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *StockTransferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	r.s.read(func() { out = r.s.transfers[id].Clone() })
	return out, nil
}

// Update reemplaza el traslado si la versión coincide.
func (r *StockTransferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	return r.s.write(r.inTx, func() error {
		cur, ok := r.s.transfers[t.ID]
		if !ok {
			return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
		}
		if cur.Version != t.Version {
			return fmt.Errorf("traslado %s: %w", t.TransferNumber, domain.ErrConflict)
		}
		t.Version++
		r.s.transfers[t.ID] = t.Clone()
		return nil
	})
}

// List traslados más recientes primero.
func (r *StockTransferRepo) List(_ context.Context, status entity.TransferStatus, limit, offset int) ([]*entity.StockTransfer, error) {
	out := make([]*entity.StockTransfer, 0)
	r.s.read(func() {
		for _, t := range r.s.transfers {
			if status == "" || t.Status == status {
				out = append(out, t.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].TransferNumber > out[j].TransferNumber })
	return paginate(out, limit, offset), nil
}

// ListNumbers números del año.
func (r *StockTransferRepo) ListNumbers(_ context.Context, year int) ([]string, error) {
	out := make([]string, 0)
	r.s.read(func() {
		for _, t := range r.s.transfers {
			if _, y, _, ok := inventory.ParseDocumentNumber(t.TransferNumber); ok && y == year {
				out = append(out, t.TransferNumber)
			}
		}
	})
	return out, nil
}
