package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/report"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/pdf"
)

var generatedAt = time.Date(2026, 4, 2, 15, 30, 0, 0, time.UTC)

func TestRenderValuation_GeneraPDF(t *testing.T) {
	products := []*entity.Product{
		{ID: "p1", SKU: "A-1", Name: "Leche entera", Category: "Lácteos", Stock: decimal.NewFromInt(12), Price: decimal.NewFromInt(4200)},
		{ID: "p2", SKU: "B-7", Name: "Arroz", Stock: decimal.NewFromInt(0), Price: decimal.NewFromInt(3100)},
	}
	r := report.BuildValuationReport(products, "")

	out, err := pdf.NewMarotoPDFGenerator("Distribuidora Andina").RenderValuation(context.Background(), r, generatedAt)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestRenderCountReport_GeneraPDF(t *testing.T) {
	finished := generatedAt
	s := &entity.CountSession{
		ID: "c1", WarehouseID: "w1", Status: entity.CountStatusFinished, StartedBy: "u1",
		StartedAt: generatedAt.Add(-time.Hour), FinishedAt: &finished,
		Lines: []entity.CountLine{
			{ProductID: "p1", SKU: "A-1", Name: "Leche", InitialStock: decimal.NewFromInt(50), CountedStock: decimal.NewFromInt(45), Counted: true, Adjusted: true},
			{ProductID: "p2", SKU: "B-7", Name: "Arroz", InitialStock: decimal.NewFromInt(3)},
		},
	}

	out, err := pdf.NewMarotoPDFGenerator("Distribuidora Andina").RenderCountReport(context.Background(), report.BuildCountReport(s), generatedAt)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
