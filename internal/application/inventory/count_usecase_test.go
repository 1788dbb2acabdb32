package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/report"
)

func TestCount_ConciliaDiferencia(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "50", "0", nil)
	f.product(t, "p2", "7", "0", nil)
	uc := inventory.NewCountUseCase(f.deps)

	s, err := uc.Start(f.ctx, "", "u1")
	require.NoError(t, err)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, "SKU-p1", s.Lines[0].SKU, "líneas ordenadas por SKU")

	_, err = uc.RecordCount(f.ctx, s.ID, "p1", dec("45"))
	require.NoError(t, err)
	_, err = uc.RecordCount(f.ctx, s.ID, "p2", dec("7"))
	require.NoError(t, err)

	r, err := uc.Finish(f.ctx, s.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusFinished, r.Status)
	assert.Equal(t, 1, r.Applied)
	assert.True(t, r.Lines[0].Diff.Equal(dec("-5")))
	assert.Equal(t, report.CountLineMatched, r.Lines[1].Status)

	p := f.get(t, "p1")
	assert.True(t, p.Stock.Equal(dec("45")))
	corrections := movementsOf(p, entity.MovementTypeCountCorrection)
	require.Len(t, corrections, 1)
	assert.True(t, corrections[0].QuantityChange.Equal(dec("-5")))
	assert.Empty(t, f.get(t, "p2").History)
}

func TestCount_DerivaNoSeCorrige(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "50", "0", nil)
	uc := inventory.NewCountUseCase(f.deps)

	s, err := uc.Start(f.ctx, "", "u1")
	require.NoError(t, err)
	_, err = uc.RecordCount(f.ctx, s.ID, "p1", dec("45"))
	require.NoError(t, err)

	// Venta mientras la sesión sigue abierta.
	_, err = inventory.NewRegisterMovementUseCase(f.deps).RegisterMovement(f.ctx, inventory.MovementInputDTO{
		ProductID: "p1", Type: entity.MovementTypeSale, Quantity: dec("2"),
	})
	require.NoError(t, err)

	r, err := uc.Finish(f.ctx, s.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Drifted)
	assert.Equal(t, report.CountLineDrifted, r.Lines[0].Status)
	assert.True(t, f.get(t, "p1").Stock.Equal(dec("48")), "el stock queda con la venta, sin corrección")
}

func TestCount_UnaSesionAbiertaPorAlcance(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "5", "0", map[string]string{"w1": "5"})
	uc := inventory.NewCountUseCase(f.deps)

	s, err := uc.Start(f.ctx, "w1", "u1")
	require.NoError(t, err)
	_, err = uc.Start(f.ctx, "w1", "u2")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Start(f.ctx, "w2", "u2")
	assert.NoError(t, err, "otra bodega puede contar en paralelo")

	_, err = uc.Cancel(f.ctx, s.ID)
	require.NoError(t, err)
	_, err = uc.Start(f.ctx, "w1", "u1")
	assert.NoError(t, err, "cancelada libera el alcance")

	_, err = uc.Finish(f.ctx, s.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCount_PorBodegaCorrigeLaBodega(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "12", "0", map[string]string{"w1": "8", "w2": "4"})
	uc := inventory.NewCountUseCase(f.deps)

	s, err := uc.Start(f.ctx, "w2", "u1")
	require.NoError(t, err)
	assert.True(t, s.Lines[0].InitialStock.Equal(dec("4")))
	_, err = uc.RecordCount(f.ctx, s.ID, "p1", dec("6"))
	require.NoError(t, err)
	_, err = uc.Finish(f.ctx, s.ID, "u1")
	require.NoError(t, err)

	p := f.get(t, "p1")
	assert.True(t, p.LocationStock("w2").Equal(dec("6")))
	assert.True(t, p.LocationStock("w1").Equal(dec("8")))
	assert.True(t, p.Stock.Equal(dec("14")))
	assert.NoError(t, domaininv.VerifyLedger(p))
}

func TestCount_GlobalRepartePorBodegas(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "12", "0", map[string]string{"w1": "8", "w2": "4"})
	uc := inventory.NewCountUseCase(f.deps)

	s, err := uc.Start(f.ctx, "", "u1")
	require.NoError(t, err)
	_, err = uc.RecordCount(f.ctx, s.ID, "p1", dec("2"))
	require.NoError(t, err)
	_, err = uc.Finish(f.ctx, s.ID, "u1")
	require.NoError(t, err)

	p := f.get(t, "p1")
	assert.True(t, p.Stock.Equal(dec("2")))
	assert.True(t, p.LocationStock("w1").IsZero(), "se descuenta primero de la bodega con más stock")
	assert.True(t, p.LocationStock("w2").Equal(dec("2")))
	assert.Len(t, movementsOf(p, entity.MovementTypeCountCorrection), 2)
	assert.NoError(t, domaininv.VerifyLedger(p))
}

func TestCount_ReporteDeSesionAbierta(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "3", "0", nil)
	uc := inventory.NewCountUseCase(f.deps)

	s, err := uc.Start(f.ctx, "", "u1")
	require.NoError(t, err)
	r, err := uc.Report(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Uncounted)

	_, err = uc.RecordCount(f.ctx, s.ID, "otro", dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// keyRecorder Locker que anota cada clave pedida antes de delegar.
type keyRecorder struct {
	inner inventory.Locker
	mu    sync.Mutex
	keys  []string
}

func (r *keyRecorder) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
	return r.inner.WithLock(ctx, key, fn)
}

func TestCount_ClavesDeBloqueoSeparanAlcanceYSesion(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "5", "0", map[string]string{"w1": "5"})
	rec := &keyRecorder{inner: f.deps.Locker}
	d := f.deps
	d.Locker = rec
	uc := inventory.NewCountUseCase(d)

	s, err := uc.Start(f.ctx, "w1", "u1")
	require.NoError(t, err)
	_, err = uc.Cancel(f.ctx, s.ID)
	require.NoError(t, err)

	require.NotEmpty(t, rec.keys)
	assert.Equal(t, "count-scope:w1", rec.keys[0])
	assert.Contains(t, rec.keys, "count:"+s.ID)
	assert.NotContains(t, rec.keys, "count:w1")
}
