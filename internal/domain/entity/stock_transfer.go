package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado de un traslado entre bodegas (enum cerrado).
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// Valid indica si el estado pertenece al enum.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo PENDING -> IN_TRANSIT -> COMPLETED; PENDING o IN_TRANSIT -> CANCELLED.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return next == TransferStatusInTransit || next == TransferStatusCancelled
	case TransferStatusInTransit:
		return next == TransferStatusCompleted || next == TransferStatusCancelled
	case TransferStatusCompleted, TransferStatusCancelled:
		return false
	}
	return false
}

// TransferItem línea de traslado. ReceivedQuantity <= ShippedQuantity <= RequestedQuantity.
// ReturnedQuantity es lo devuelto a origen al cancelar (despachado y no recibido).
type TransferItem struct {
	ID                string
	ProductID         string
	RequestedQuantity decimal.Decimal
	ShippedQuantity   decimal.Decimal
	ReceivedQuantity  decimal.Decimal
	ReturnedQuantity  decimal.Decimal
}

// Shipped indica si la línea ya salió de la bodega origen.
func (i *TransferItem) Shipped() bool {
	return i.ShippedQuantity.GreaterThan(decimal.Zero)
}

// InTransit cantidad despachada que aún no llega a destino ni se devolvió.
func (i *TransferItem) InTransit() decimal.Decimal {
	return i.ShippedQuantity.Sub(i.ReceivedQuantity).Sub(i.ReturnedQuantity)
}

// ReturnInTransit marca como devuelto todo lo que sigue en tránsito y lo devuelve.
func (i *TransferItem) ReturnInTransit() decimal.Decimal {
	rem := i.InTransit()
	if !rem.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	i.ReturnedQuantity = i.ReturnedQuantity.Add(rem)
	return rem
}

// Ship despacha la cantidad solicitada completa y la devuelve.
func (i *TransferItem) Ship() decimal.Decimal {
	i.ShippedQuantity = i.RequestedQuantity
	return i.ShippedQuantity
}

// Receive suma min(qty, en tránsito) a ReceivedQuantity y devuelve lo aplicado.
func (i *TransferItem) Receive(qty decimal.Decimal) decimal.Decimal {
	if !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	clamped := decimal.Min(qty, i.InTransit())
	if !clamped.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(clamped)
	return clamped
}

// StockTransfer traslado de mercancía entre dos bodegas.
type StockTransfer struct {
	ID              string
	TransferNumber  string // TR-AAAA-NNNN
	FromWarehouseID string
	ToWarehouseID   string
	Items           []TransferItem
	Status          TransferStatus
	RequestedBy     string
	Notes           string
	ShippedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *StockTransfer) transition(next TransferStatus, now time.Time) error {
	if !t.Status.CanTransitionTo(next) {
		return transitionError("traslado", string(t.Status), string(next))
	}
	t.Status = next
	t.UpdatedAt = now
	return nil
}

// CheckShippable solo PENDING puede despacharse.
func (t *StockTransfer) CheckShippable() error {
	if !t.Status.CanTransitionTo(TransferStatusInTransit) {
		return transitionError("traslado", string(t.Status), string(TransferStatusInTransit))
	}
	return nil
}

// MarkInTransit PENDING -> IN_TRANSIT cuando todas las líneas están despachadas.
func (t *StockTransfer) MarkInTransit(now time.Time) error {
	if err := t.transition(TransferStatusInTransit, now); err != nil {
		return err
	}
	t.ShippedAt = &now
	return nil
}

// CheckReceivable se recibe en IN_TRANSIT; en COMPLETED es no-op idempotente.
func (t *StockTransfer) CheckReceivable() error {
	switch t.Status {
	case TransferStatusInTransit, TransferStatusCompleted:
		return nil
	default:
		return transitionError("traslado", string(t.Status), string(TransferStatusCompleted))
	}
}

// FullyReceived todas las líneas recibieron lo despachado.
func (t *StockTransfer) FullyReceived() bool {
	for _, it := range t.Items {
		if !it.ReceivedQuantity.Equal(it.ShippedQuantity) {
			return false
		}
	}
	return len(t.Items) > 0
}

// RefreshReceiptStatus IN_TRANSIT -> COMPLETED cuando todo llegó. Devuelve true si completó.
func (t *StockTransfer) RefreshReceiptStatus(now time.Time) bool {
	if t.Status != TransferStatusInTransit || !t.FullyReceived() {
		return false
	}
	t.Status = TransferStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return true
}

// CheckCancellable solo PENDING o IN_TRANSIT.
func (t *StockTransfer) CheckCancellable() error {
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return transitionError("traslado", string(t.Status), string(TransferStatusCancelled))
	}
	return nil
}

// Cancel marca el traslado cancelado. El reverso de stock lo hace el caso de uso.
func (t *StockTransfer) Cancel(now time.Time) error {
	if err := t.transition(TransferStatusCancelled, now); err != nil {
		return err
	}
	t.CancelledAt = &now
	return nil
}

// Item busca una línea por ID.
func (t *StockTransfer) Item(itemID string) *TransferItem {
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			return &t.Items[i]
		}
	}
	return nil
}

// AllShipped indica si todas las líneas salieron de origen.
func (t *StockTransfer) AllShipped() bool {
	for _, it := range t.Items {
		if !it.Shipped() {
			return false
		}
	}
	return len(t.Items) > 0
}

// Clone copia el traslado y sus líneas.
func (t *StockTransfer) Clone() *StockTransfer {
	if t == nil {
		return nil
	}
	c := *t
	c.Items = append([]TransferItem(nil), t.Items...)
	return &c
}
