package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ValuationLine valor de un producto: cantidad × precio.
type ValuationLine struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Value     decimal.Decimal
}

// CategoryValuation subtotal por categoría.
type CategoryValuation struct {
	Category string
	Quantity decimal.Decimal
	Value    decimal.Decimal
	Lines    []ValuationLine
}

// ValuationReport valorización del inventario, global o de una bodega.
type ValuationReport struct {
	WarehouseID   string
	Categories    []CategoryValuation
	TotalQuantity decimal.Decimal
	TotalValue    decimal.Decimal
}

// BuildValuationReport valoriza a precio de venta. Con warehouseID usa el stock de esa bodega;
// sin él, el stock agregado.
func BuildValuationReport(products []*entity.Product, warehouseID string) ValuationReport {
	rep := ValuationReport{WarehouseID: warehouseID, TotalQuantity: decimal.Zero, TotalValue: decimal.Zero}
	byKey := make(map[string]*CategoryValuation)
	var order []string

	for _, p := range products {
		qty := p.Stock
		if warehouseID != "" {
			qty = p.LocationStock(warehouseID)
		}
		value := qty.Mul(p.Price)

		key, label := categoryKey(p.Category)
		cv, ok := byKey[key]
		if !ok {
			cv = &CategoryValuation{Category: label, Quantity: decimal.Zero, Value: decimal.Zero}
			byKey[key] = cv
			order = append(order, key)
		}
		cv.Lines = append(cv.Lines, ValuationLine{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Quantity:  qty,
			Price:     p.Price,
			Value:     value,
		})
		cv.Quantity = cv.Quantity.Add(qty)
		cv.Value = cv.Value.Add(value)
		rep.TotalQuantity = rep.TotalQuantity.Add(qty)
		rep.TotalValue = rep.TotalValue.Add(value)
	}

	rep.Categories = make([]CategoryValuation, 0, len(order))
	for _, key := range order {
		rep.Categories = append(rep.Categories, *byKey[key])
	}
	sort.SliceStable(rep.Categories, func(i, j int) bool {
		return rep.Categories[i].Category < rep.Categories[j].Category
	})
	return rep
}
