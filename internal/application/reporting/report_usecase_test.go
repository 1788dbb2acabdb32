package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/reporting"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/report"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

// stubPDF renderer que devuelve bytes fijos.
type stubPDF struct{ calls int }

func (s *stubPDF) RenderValuation(context.Context, report.ValuationReport, time.Time) ([]byte, error) {
	s.calls++
	return []byte("%PDF-valuation"), nil
}

func (s *stubPDF) RenderCountReport(context.Context, report.CountReport, time.Time) ([]byte, error) {
	s.calls++
	return []byte("%PDF-count"), nil
}

var day = time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: "p1", SKU: "A-1", Category: "Granos", Stock: decimal.NewFromInt(17), MinStock: decimal.NewFromInt(20),
		Price: decimal.NewFromInt(2),
		History: []entity.StockMovement{
			{ID: "m1", ProductID: "p1", Type: entity.MovementTypeInbound, QuantityChange: decimal.NewFromInt(10), NewStock: decimal.NewFromInt(10), Date: day},
			{ID: "m2", ProductID: "p1", Type: entity.MovementTypeInbound, QuantityChange: decimal.NewFromInt(15), NewStock: decimal.NewFromInt(25), Date: day.Add(time.Hour)},
			{ID: "m3", ProductID: "p1", Type: entity.MovementTypeSale, QuantityChange: decimal.NewFromInt(-8), NewStock: decimal.NewFromInt(17), Date: day.Add(2 * time.Hour)},
		},
	}))
	soon := day.AddDate(0, 0, 2)
	require.NoError(t, repos.Lots.Create(ctx, &entity.Lot{ID: "l1", ProductID: "p1", WarehouseID: "w1", LotNumber: "L-1",
		Quantity: decimal.NewFromInt(5), ExpiryDate: &soon}))
	require.NoError(t, repos.Counts.Create(ctx, &entity.CountSession{ID: "c1", Status: entity.CountStatusOpen}))
	return s
}

func newUseCase(s *memory.Store, pdf reporting.PDFRenderer) *reporting.ReportUseCase {
	repos := s.Repositories()
	return reporting.NewReportUseCase(repos.Products, repos.Lots, repos.Counts, pdf, 7*24*time.Hour)
}

func TestMovements_RangoValidado(t *testing.T) {
	uc := newUseCase(seed(t), &stubPDF{})
	ctx := context.Background()

	r, err := uc.Movements(ctx, day.Add(-time.Hour), day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.True(t, r.TotalIn.Equal(decimal.NewFromInt(25)))
	assert.True(t, r.TotalOut.Equal(decimal.NewFromInt(8)))
	assert.True(t, r.NetChange.Equal(decimal.NewFromInt(17)))

	_, err = uc.Movements(ctx, day, day.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummary_ReuneIndicadores(t *testing.T) {
	uc := newUseCase(seed(t), &stubPDF{})

	// El resumen mide vencimientos contra la hora real; el lote vence en 2026-01-22.
	sum, err := uc.Summary(context.Background(), time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.True(t, sum.Valuation.TotalValue.Equal(decimal.NewFromInt(34)))
	assert.Len(t, sum.Categories, 1)
	assert.Equal(t, 1, sum.LowStockItems)
	assert.Equal(t, 1, sum.ExpiringLots, "lote vencido cuenta como por vencer")
	assert.Equal(t, 3, sum.Movements.Lines[0].Movements)
}

func TestPDFs_NombreYErrores(t *testing.T) {
	stub := &stubPDF{}
	uc := newUseCase(seed(t), stub)
	ctx := context.Background()

	b, name, err := uc.ValuationPDF(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-valuation", string(b))
	assert.Regexp(t, `^valorizacion-\d{8}\.pdf$`, name)

	b, name, err = uc.CountReportPDF(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-count", string(b))
	assert.Equal(t, "conteo-c1.pdf", name)

	_, _, err = uc.CountReportPDF(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, stub.calls)
}
