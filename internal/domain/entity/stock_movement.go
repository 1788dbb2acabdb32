package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del kardex (enum cerrado).
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeInbound         MovementType = "INBOUND"          // recepción de orden de compra o entrada manual
	MovementTypeSale            MovementType = "SALE"             // salida por venta
	MovementTypeReturn          MovementType = "RETURN"           // devolución / reverso de traslado cancelado
	MovementTypeCountCorrection MovementType = "COUNT_CORRECTION" // ajuste por conteo físico
	MovementTypeTransferOut     MovementType = "TRANSFER_OUT"     // despacho de traslado (sale de bodega origen)
	MovementTypeTransferIn      MovementType = "TRANSFER_IN"      // recepción de traslado (entra a bodega destino)
)

// Valid indica si el tipo pertenece al enum.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeInbound, MovementTypeSale, MovementTypeReturn,
		MovementTypeCountCorrection, MovementTypeTransferOut, MovementTypeTransferIn:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del kardex de un producto.
// NewStock es el stock total del producto después de aplicar QuantityChange.
type StockMovement struct {
	ID             string
	ProductID      string
	WarehouseID    string // vacío si el producto no lleva stock por bodega
	Date           time.Time
	Type           MovementType
	QuantityChange decimal.Decimal // con signo
	NewStock       decimal.Decimal
	Reference      string // número de OC, traslado o sesión de conteo
	Notes          string
	Actor          string // UserID
}

// PreviousStock devuelve el stock previo al movimiento.
func (m StockMovement) PreviousStock() decimal.Decimal {
	return m.NewStock.Sub(m.QuantityChange)
}
