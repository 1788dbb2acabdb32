package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/report"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// CountUseCase conteo físico: abrir sesión, registrar cantidades y conciliar contra el sistema.
type CountUseCase struct {
	d Deps
}

// NewCountUseCase construye el caso de uso.
func NewCountUseCase(d Deps) *CountUseCase {
	return &CountUseCase{d: d}
}

// systemStock stock contra el que se concilia: el de la bodega si la sesión es por bodega
// y el producto lleva stock por bodega; si no, el agregado.
func systemStock(p *entity.Product, warehouseID string) decimal.Decimal {
	if warehouseID != "" && p.TracksLocations() {
		return p.LocationStock(warehouseID)
	}
	return p.Stock
}

type correction struct {
	warehouseID string
	quantity    decimal.Decimal
}

// correctionTargets reparte la diferencia de un conteo global entre las bodegas de un producto
// que lleva stock por bodega: las entradas van a la bodega con más stock y las salidas se
// descuentan de mayor a menor stock. En los demás casos es un solo movimiento.
func correctionTargets(p *entity.Product, warehouseID string, diff decimal.Decimal) []correction {
	if warehouseID != "" || !p.TracksLocations() {
		return []correction{{warehouseID: warehouseID, quantity: diff}}
	}
	keys := make([]string, 0, len(p.StockByLocation))
	for w := range p.StockByLocation {
		keys = append(keys, w)
	}
	sort.Slice(keys, func(i, j int) bool {
		qi, qj := p.StockByLocation[keys[i]], p.StockByLocation[keys[j]]
		if !qi.Equal(qj) {
			return qi.GreaterThan(qj)
		}
		return keys[i] < keys[j]
	})
	if diff.GreaterThan(decimal.Zero) {
		return []correction{{warehouseID: keys[0], quantity: diff}}
	}
	pending := diff.Neg()
	var out []correction
	for _, w := range keys {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(pending, p.StockByLocation[w])
		if !take.GreaterThan(decimal.Zero) {
			continue
		}
		out = append(out, correction{warehouseID: w, quantity: take.Neg()})
		pending = pending.Sub(take)
	}
	return out
}

// Start abre una sesión tomando la foto del stock de todos los productos, ordenados por SKU.
// Solo puede haber una sesión abierta por bodega (o global).
func (uc *CountUseCase) Start(ctx context.Context, warehouseID, actor string) (*entity.CountSession, error) {
	if warehouseID != "" {
		if err := uc.d.requireWarehouse(ctx, warehouseID); err != nil {
			return nil, err
		}
	}
	session := &entity.CountSession{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Status:      entity.CountStatusOpen,
		StartedBy:   actor,
	}
	err := uc.d.Locker.WithLock(ctx, countScopeLockKey(session.Scope()), func(ctx context.Context) error {
		open, err := uc.d.Counts.FindOpen(ctx, warehouseID)
		if err != nil {
			return err
		}
		if open != nil {
			return fmt.Errorf("%w: ya hay una sesión de conteo abierta (%s)", domain.ErrConflict, open.ID)
		}
		products, err := uc.d.Products.List(ctx, 0, 0)
		if err != nil {
			return err
		}
		sort.Slice(products, func(i, j int) bool { return products[i].SKU < products[j].SKU })
		lines := make([]entity.CountLine, 0, len(products))
		for _, p := range products {
			lines = append(lines, entity.CountLine{
				ProductID:    p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				InitialStock: systemStock(p, warehouseID),
				CountedStock: decimal.Zero,
			})
		}
		now := uc.d.now()
		session.Lines = lines
		session.StartedAt = now
		session.UpdatedAt = now
		return uc.d.Counts.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Get obtiene una sesión por ID.
func (uc *CountUseCase) Get(ctx context.Context, id string) (*entity.CountSession, error) {
	return loadCountSession(ctx, uc.d.Counts, id)
}

// RecordCount registra la cantidad contada de un producto; volver a contarlo sobrescribe.
func (uc *CountUseCase) RecordCount(ctx context.Context, sessionID, productID string, counted decimal.Decimal) (*entity.CountSession, error) {
	return uc.mutate(ctx, sessionID, "count.record", func(s *entity.CountSession) error {
		return s.Record(productID, counted, uc.d.now())
	})
}

// Cancel cancela la sesión sin tocar stock.
func (uc *CountUseCase) Cancel(ctx context.Context, sessionID string) (*entity.CountSession, error) {
	return uc.mutate(ctx, sessionID, "count.cancel", func(s *entity.CountSession) error {
		return s.Cancel(uc.d.now())
	})
}

// Report arma el reporte de la sesión en su estado actual.
func (uc *CountUseCase) Report(ctx context.Context, sessionID string) (*report.CountReport, error) {
	s, err := loadCountSession(ctx, uc.d.Counts, sessionID)
	if err != nil {
		return nil, err
	}
	r := report.BuildCountReport(s)
	return &r, nil
}

// Finish concilia la sesión. Por cada línea contada con diferencia se verifica que el stock
// actual siga igual a la foto inicial: si cambió durante el conteo se marca como deriva y no
// se corrige; si no, se aplica un COUNT_CORRECTION por la diferencia (una tx por línea).
// Las líneas ya corregidas en un intento anterior no se vuelven a aplicar.
func (uc *CountUseCase) Finish(ctx context.Context, sessionID, actor string) (*report.CountReport, error) {
	var out *report.CountReport
	err := uc.d.Locker.WithLock(ctx, countLockKey(sessionID), func(ctx context.Context) error {
		s, err := loadCountSession(ctx, uc.d.Counts, sessionID)
		if err != nil {
			return err
		}
		if !s.IsOpen() {
			return fmt.Errorf("%w: sesión de conteo %s -> %s", domain.ErrInvalidTransition, s.Status, entity.CountStatusFinished)
		}

		var changes []*stockChange
		for _, line := range s.Lines {
			if !line.Counted || line.Adjusted || line.Drifted || line.Diff().IsZero() {
				continue
			}
			productID := line.ProductID
			var change *stockChange
			err := uc.d.stockTx(ctx, "count.finish", productID, func(tx repository.TxRepositories) error {
				change = nil
				cur, err := loadCountSession(ctx, tx.Counts, sessionID)
				if err != nil {
					return err
				}
				l := cur.Line(productID)
				if l.Adjusted || l.Drifted {
					return nil
				}
				p, err := lockedProduct(ctx, tx.Products, productID)
				if err != nil {
					return err
				}
				if !systemStock(p, cur.WarehouseID).Equal(l.InitialStock) {
					l.Drifted = true
					uc.d.Logger.Warn().
						Str("session_id", sessionID).
						Str("product_id", productID).
						Str("initial", l.InitialStock.String()).
						Str("current", systemStock(p, cur.WarehouseID).String()).
						Msg("stock cambió durante el conteo; no se corrige")
					return tx.Counts.Update(ctx, cur)
				}
				before := p.Stock
				for _, target := range correctionTargets(p, cur.WarehouseID, l.Diff()) {
					change, err = uc.d.applyStock(ctx, tx.Products, p, inventory.MovementInput{
						Type:        entity.MovementTypeCountCorrection,
						Quantity:    target.quantity,
						WarehouseID: target.warehouseID,
						Reference:   "COUNT-" + sessionID,
						Actor:       actor,
						Date:        uc.d.now(),
					}, nil)
					if err != nil {
						return err
					}
				}
				if change != nil {
					change.before = before
				}
				l.Adjusted = true
				return tx.Counts.Update(ctx, cur)
			})
			if err != nil {
				uc.d.Logger.Error().Err(err).
					Str("session_id", sessionID).
					Str("product_id", productID).
					Msg("conciliación de conteo interrumpida")
				uc.d.afterCommit(ctx, changes...)
				return err
			}
			changes = append(changes, change)
		}
		uc.d.afterCommit(ctx, changes...)

		return uc.d.retry(ctx, "count.finish", func() error {
			cur, err := loadCountSession(ctx, uc.d.Counts, sessionID)
			if err != nil {
				return err
			}
			if err := cur.Finish(actor, uc.d.now()); err != nil {
				return err
			}
			if err := uc.d.Counts.Update(ctx, cur); err != nil {
				return err
			}
			r := report.BuildCountReport(cur)
			out = &r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *CountUseCase) mutate(ctx context.Context, id, op string, fn func(s *entity.CountSession) error) (*entity.CountSession, error) {
	var out *entity.CountSession
	err := uc.d.Locker.WithLock(ctx, countLockKey(id), func(ctx context.Context) error {
		return uc.d.retry(ctx, op, func() error {
			s, err := loadCountSession(ctx, uc.d.Counts, id)
			if err != nil {
				return err
			}
			if err := fn(s); err != nil {
				return err
			}
			if err := uc.d.Counts.Update(ctx, s); err != nil {
				return err
			}
			out = s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadCountSession(ctx context.Context, repo repository.CountSessionRepository, id string) (*entity.CountSession, error) {
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("sesión de conteo %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}
