package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Su ID es la llave de Product.StockByLocation y de los traslados.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
