// Package report agrupa los reportes derivados del kardex y del stock actual.
// Son funciones puras: leen productos y su historial, nunca los modifican.
package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// UncategorizedLabel nombre del grupo para productos sin categoría.
const UncategorizedLabel = "Sin categoría"

var hundred = decimal.NewFromInt(100)

// categoryKey normaliza la categoría (NFC + case folding) para que "Lácteos" y "LÁCTEOS"
// caigan en el mismo grupo. label es el texto a mostrar.
func categoryKey(category string) (key, label string) {
	label = strings.TrimSpace(norm.NFC.String(category))
	if label == "" {
		return "", UncategorizedLabel
	}
	return cases.Fold().String(label), label
}

// CategoryHealth salud de inventario de una categoría.
type CategoryHealth struct {
	Category     string
	ItemCount    int
	TotalStock   decimal.Decimal
	AverageStock decimal.Decimal
	OutOfStock   int // stock = 0
	LowStock     int // 0 < stock <= MinStock
	HealthPct    decimal.Decimal
}

// BuildCategoryAnalysis agrupa por categoría: conteo de ítems, stock total y promedio,
// agotados, bajo mínimo y % de salud = (ítems - bajos - agotados) / ítems * 100.
func BuildCategoryAnalysis(products []*entity.Product) []CategoryHealth {
	byKey := make(map[string]*CategoryHealth)
	var order []string
	for _, p := range products {
		key, label := categoryKey(p.Category)
		h, ok := byKey[key]
		if !ok {
			h = &CategoryHealth{Category: label, TotalStock: decimal.Zero}
			byKey[key] = h
			order = append(order, key)
		}
		h.ItemCount++
		h.TotalStock = h.TotalStock.Add(p.Stock)
		switch {
		case p.IsOutOfStock():
			h.OutOfStock++
		case p.IsLowStock():
			h.LowStock++
		}
	}

	out := make([]CategoryHealth, 0, len(order))
	for _, key := range order {
		h := byKey[key]
		items := decimal.NewFromInt(int64(h.ItemCount))
		h.AverageStock = h.TotalStock.Div(items).Round(2)
		healthy := decimal.NewFromInt(int64(h.ItemCount - h.LowStock - h.OutOfStock))
		h.HealthPct = healthy.Div(items).Mul(hundred).Round(2)
		out = append(out, *h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
