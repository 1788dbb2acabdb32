package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// Stock es el agregado; StockByLocation lleva el detalle por bodega cuando está activo
// y en ese caso su suma debe ser igual a Stock. Cost es promedio ponderado de las entradas.
type Product struct {
	ID              string
	SKU             string // código único
	Name            string
	Category        string
	Stock           decimal.Decimal
	StockByLocation map[string]decimal.Decimal // warehouseID -> cantidad
	MinStock        decimal.Decimal
	Price           decimal.Decimal // precio de venta
	Cost            decimal.Decimal // costo promedio ponderado (inicia en 0)
	History         []StockMovement // orden cronológico (más antiguo primero)
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TracksLocations indica si el producto lleva stock por bodega.
func (p *Product) TracksLocations() bool {
	return len(p.StockByLocation) > 0
}

// LocationStock devuelve el stock en una bodega (cero si no hay registro).
func (p *Product) LocationStock(warehouseID string) decimal.Decimal {
	if p.StockByLocation == nil {
		return decimal.Zero
	}
	return p.StockByLocation[warehouseID]
}

// IsLowStock indica 0 < Stock <= MinStock.
func (p *Product) IsLowStock() bool {
	return p.Stock.GreaterThan(decimal.Zero) && p.Stock.LessThanOrEqual(p.MinStock)
}

// IsOutOfStock indica Stock == 0.
func (p *Product) IsOutOfStock() bool {
	return p.Stock.IsZero()
}

// RecentHistory devuelve el kardex del más reciente al más antiguo (para mostrar).
func (p *Product) RecentHistory() []StockMovement {
	out := make([]StockMovement, len(p.History))
	for i, m := range p.History {
		out[len(p.History)-1-i] = m
	}
	return out
}

// Clone copia profunda (mapa de ubicaciones e historial) para no compartir estado entre lecturas.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.StockByLocation != nil {
		c.StockByLocation = make(map[string]decimal.Decimal, len(p.StockByLocation))
		for k, v := range p.StockByLocation {
			c.StockByLocation[k] = v
		}
	}
	c.History = append([]StockMovement(nil), p.History...)
	return &c
}
