package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// AvailableStock stock disponible de un producto en una bodega: stock en la bodega
// (o el agregado si el producto no lleva stock por bodega) menos lo reservado en lotes de esa bodega.
func AvailableStock(p *entity.Product, lots []*entity.Lot, warehouseID string) decimal.Decimal {
	base := p.Stock
	if p.TracksLocations() {
		base = p.LocationStock(warehouseID)
	}
	reserved := decimal.Zero
	for _, l := range lots {
		if l.ProductID == p.ID && l.WarehouseID == warehouseID {
			reserved = reserved.Add(l.ReservedQuantity)
		}
	}
	avail := base.Sub(reserved)
	if avail.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return avail
}

// CrossedLowStock indica si el producto pasó de estar sobre MinStock a estar en o bajo MinStock.
func CrossedLowStock(before, after decimal.Decimal, minStock decimal.Decimal) bool {
	return before.GreaterThan(minStock) && after.LessThanOrEqual(minStock)
}
