package notify_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/notify"
)

// failing Notifier que siempre falla.
type failing struct{ err error }

func (f failing) LowStockCrossed(context.Context, *entity.Product, string) error { return f.err }
func (f failing) LotExpiring(context.Context, *entity.Lot) error                 { return f.err }
func (f failing) TransferCompleted(context.Context, *entity.StockTransfer) error { return f.err }

func TestLogNotifier_RegistraCampos(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(zerolog.New(&buf))
	ctx := context.Background()

	p := &entity.Product{ID: "p1", SKU: "A-1", Stock: decimal.NewFromInt(2), MinStock: decimal.NewFromInt(5)}
	require.NoError(t, n.LowStockCrossed(ctx, p, "w1"))
	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"component":"notifier"`)
	assert.Contains(t, out, `"product_id":"p1"`)
	assert.Contains(t, out, `"warehouse_id":"w1"`)

	buf.Reset()
	exp := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, n.LotExpiring(ctx, &entity.Lot{ID: "l1", LotNumber: "L-9", ExpiryDate: &exp}))
	assert.Contains(t, buf.String(), `"lot_number":"L-9"`)
	assert.Contains(t, buf.String(), "expiry_date")

	buf.Reset()
	require.NoError(t, n.TransferCompleted(ctx, &entity.StockTransfer{ID: "t1", TransferNumber: "TR-2026-0003"}))
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), "TR-2026-0003")
}

func TestFanout_EntregaATodosYUneErrores(t *testing.T) {
	var buf bytes.Buffer
	errA := errors.New("a")
	errB := errors.New("b")
	f := notify.Fanout{failing{errA}, notify.NewLogNotifier(zerolog.New(&buf)), failing{errB}}

	err := f.TransferCompleted(context.Background(), &entity.StockTransfer{ID: "t1"})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, buf.String(), "traslado completado", "un fallo no corta la entrega al resto")

	assert.NoError(t, notify.Fanout{}.LotExpiring(context.Background(), &entity.Lot{}))
}
