// Package pdf genera los reportes imprimibles del inventario con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Bodega + Fecha de generación │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por producto (agrupada por categoría)       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES / RESUMEN                                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reporting.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
}

// NewMarotoPDFGenerator construye el generador. company va en el encabezado y como autor.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{company: company}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.company, true).
		Build()
	return maroto.New(cfg)
}

// RenderValuation genera la valorización agrupada por categoría.
func (g *MarotoPDFGenerator) RenderValuation(_ context.Context, r report.ValuationReport, generatedAt time.Time) ([]byte, error) {
	m := g.newDocument("Valorización de inventario")

	scope := "Todas las bodegas"
	if r.WarehouseID != "" {
		scope = "Bodega: " + r.WarehouseID
	}
	m.AddRows(headerRow(g.company, "VALORIZACIÓN DE INVENTARIO", scope, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow([]column{
		{"SKU", 2, align.Left},
		{"Producto", 4, align.Left},
		{"Cantidad", 2, align.Right},
		{"Precio", 2, align.Right},
		{"Valor", 2, align.Right},
	}))

	for _, c := range r.Categories {
		m.AddRows(row.New(7).Add(col.New(12).Add(text.New(c.Category, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1.5,
		}))))
		for _, l := range c.Lines {
			m.AddRows(row.New(6).Add(
				cell(l.SKU, 2, align.Left),
				cell(l.Name, 4, align.Left),
				cell(formatQty(l.Quantity), 2, align.Right),
				cell("$"+formatMoney(l.Price), 2, align.Right),
				cell("$"+formatMoney(l.Value), 2, align.Right),
			))
		}
		m.AddRows(row.New(6).Add(
			col.New(6).Add(text.New("Subtotal "+c.Category, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 2,
			})),
			cell(formatQty(c.Quantity), 2, align.Right),
			col.New(2),
			col.New(2).Add(text.New("$"+formatMoney(c.Value), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([][2]string{
		{"Unidades:", formatQty(r.TotalQuantity)},
		{"VALOR TOTAL:", "$" + formatMoney(r.TotalValue)},
	}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar valorización: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderCountReport genera el acta de un conteo físico con la conciliación por producto.
func (g *MarotoPDFGenerator) RenderCountReport(_ context.Context, r report.CountReport, generatedAt time.Time) ([]byte, error) {
	m := g.newDocument("Conteo físico " + r.SessionID)

	scope := "Conteo global"
	if r.WarehouseID != "" {
		scope = "Bodega: " + r.WarehouseID
	}
	m.AddRows(headerRow(g.company, "CONTEO FÍSICO DE INVENTARIO", scope, generatedAt))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Sesión: %s   |   Estado: %s   |   Inició: %s (%s)",
			r.SessionID, r.Status, nonEmpty(r.StartedBy, "—"), r.StartedAt.Format("02/01/2006 15:04")),
			props.Text{Size: 8, Top: 2, Color: colorGray}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow([]column{
		{"SKU", 2, align.Left},
		{"Producto", 4, align.Left},
		{"Sistema", 2, align.Right},
		{"Contado", 2, align.Right},
		{"Dif.", 1, align.Right},
		{"Estado", 1, align.Center},
	}))

	for _, l := range r.Lines {
		counted := "—"
		if l.Status != report.CountLineUncounted {
			counted = formatQty(l.CountedStock)
		}
		statusProps := props.Text{Size: 7, Align: align.Center, Top: 1}
		if l.Status == report.CountLineDrifted {
			statusProps.Color = colorAlert
			statusProps.Style = fontstyle.Bold
		}
		m.AddRows(row.New(6).Add(
			cell(l.SKU, 2, align.Left),
			cell(l.Name, 4, align.Left),
			cell(formatQty(l.InitialStock), 2, align.Right),
			cell(counted, 2, align.Right),
			cell(formatQty(l.Diff), 1, align.Right),
			col.New(1).Add(text.New(countStatusLabel(l.Status), statusProps)),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	result := "CON DIFERENCIAS"
	if r.Matched {
		result = "SIN DIFERENCIAS"
	}
	m.AddRows(totalsRow([][2]string{
		{"Corregidos:", fmt.Sprint(r.Applied)},
		{"Con deriva:", fmt.Sprint(r.Drifted)},
		{"Sin contar:", fmt.Sprint(r.Uncounted)},
		{"RESULTADO:", result},
	}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar conteo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

type column struct {
	label string
	size  int
	align align.Type
}

// headerRow: empresa + título (izq) y alcance + fecha (der).
func headerRow(company, title, scope string, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(scope, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(out...)
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

// totalsRow: pares etiqueta/valor alineados a la derecha.
func totalsRow(pairs [][2]string) core.Row {
	labels := make([]core.Component, 0, len(pairs))
	values := make([]core.Component, 0, len(pairs))
	for i, p := range pairs {
		top := float64(i) * 5
		labels = append(labels, text.New(p[0], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		values = append(values, text.New(p[1], props.Text{
			Size: 9, Align: align.Right, Right: 1, Top: top,
		}))
	}
	return row.New(float64(len(pairs))*5+4).Add(
		col.New(6),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func countStatusLabel(status string) string {
	switch status {
	case report.CountLineApplied:
		return "Ajustado"
	case report.CountLineMatched:
		return "OK"
	case report.CountLineDrifted:
		return "Deriva"
	default:
		return "Pendiente"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty cantidades con hasta dos decimales, sin ceros sobrantes.
func formatQty(d decimal.Decimal) string {
	return d.Round(2).String()
}

// formatMoney redondea a pesos e inserta puntos de miles.
// Ej: 25000 → "25.000", -1000000 → "-1.000.000"
func formatMoney(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
