package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// recorder Notifier que guarda los eventos recibidos.
type recorder struct {
	mu        sync.Mutex
	lowStock  []string
	expiring  []string
	completed []string
}

func (r *recorder) LowStockCrossed(_ context.Context, p *entity.Product, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lowStock = append(r.lowStock, p.ID)
	return nil
}

func (r *recorder) LotExpiring(_ context.Context, l *entity.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expiring = append(r.expiring, l.ID)
	return nil
}

func (r *recorder) TransferCompleted(_ context.Context, t *entity.StockTransfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, t.ID)
	return nil
}

var errTxFallida = errors.New("tx fallida")

// failingTx envuelve un TxRunner y revierte la transacción número failOn (desde 1):
// ejecuta fn y luego devuelve errTxFallida, así el rollback deshace lo aplicado.
type failingTx struct {
	inner  inventory.TxRunner
	failOn int

	mu    sync.Mutex
	calls int
}

func (f *failingTx) Run(ctx context.Context, fn func(tx repository.TxRepositories) error) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls == f.failOn
	f.mu.Unlock()
	return f.inner.Run(ctx, func(tx repository.TxRepositories) error {
		if err := fn(tx); err != nil {
			return err
		}
		if fail {
			return errTxFallida
		}
		return nil
	})
}

// failingOn devuelve una copia de las dependencias cuya transacción número n falla.
func (f *fixture) failingOn(n int) inventory.Deps {
	d := f.deps
	d.Tx = &failingTx{inner: f.deps.Tx, failOn: n}
	return d
}

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	deps   inventory.Deps
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	events := &recorder{}
	f := &fixture{
		ctx:    context.Background(),
		store:  store,
		events: events,
		deps: inventory.Deps{
			Tx:             memory.NewTxRunner(store),
			Products:       repos.Products,
			Lots:           repos.Lots,
			PurchaseOrders: repos.PurchaseOrders,
			Transfers:      repos.Transfers,
			Counts:         repos.Counts,
			Warehouses:     store.Warehouses(),
			Locker:         lock.NewKeyedMutex(),
			Notifier:       events,
			Clock:          func() time.Time { return fixedNow },
			Logger:         zerolog.Nop(),
		},
	}
	f.warehouse(t, "w1")
	f.warehouse(t, "w2")
	return f
}

func (f *fixture) warehouse(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.store.Warehouses().Create(f.ctx, &entity.Warehouse{ID: id, Code: "COD-" + id, Name: id}))
}

// product crea un producto; locations vacío = sin stock por bodega.
func (f *fixture) product(t *testing.T, id, stock, minStock string, locations map[string]string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:       id,
		SKU:      "SKU-" + id,
		Name:     "Producto " + id,
		Category: "General",
		Stock:    dec(stock),
		MinStock: dec(minStock),
		Price:    dec("10"),
		Cost:     dec("4"),
	}
	if len(locations) > 0 {
		p.StockByLocation = make(map[string]decimal.Decimal, len(locations))
		for w, q := range locations {
			p.StockByLocation[w] = dec(q)
		}
	}
	require.NoError(t, f.deps.Products.Create(f.ctx, p))
	return p
}

func (f *fixture) get(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.deps.Products.GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func movementsOf(p *entity.Product, typ entity.MovementType) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range p.History {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}
