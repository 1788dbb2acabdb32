package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot es un lote de un producto en una bodega, con cantidad reservada y vencimiento opcional.
type Lot struct {
	ID               string
	ProductID        string
	WarehouseID      string
	LotNumber        string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	ManufactureDate  *time.Time
	ExpiryDate       *time.Time
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity = Quantity - ReservedQuantity.
func (l *Lot) AvailableQuantity() decimal.Decimal {
	return l.Quantity.Sub(l.ReservedQuantity)
}

// Reserve aparta cantidad del lote. Falla si supera lo disponible.
func (l *Lot) Reserve(qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return errInvalidQuantity
	}
	if qty.GreaterThan(l.AvailableQuantity()) {
		return errLotInsufficient
	}
	l.ReservedQuantity = l.ReservedQuantity.Add(qty)
	return nil
}

// Release libera cantidad reservada (sin bajar de cero).
func (l *Lot) Release(qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return errInvalidQuantity
	}
	if qty.GreaterThan(l.ReservedQuantity) {
		qty = l.ReservedQuantity
	}
	l.ReservedQuantity = l.ReservedQuantity.Sub(qty)
	return nil
}

// ExpiresWithin indica si el lote vence en o antes de now+window (incluye lotes ya vencidos).
func (l *Lot) ExpiresWithin(now time.Time, window time.Duration) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return !l.ExpiryDate.After(now.Add(window))
}
