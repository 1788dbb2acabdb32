package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus estado de una orden de compra (enum cerrado).
type POStatus string

const (
	POStatusDraft             POStatus = "DRAFT"
	POStatusSent              POStatus = "SENT"
	POStatusConfirmed         POStatus = "CONFIRMED"
	POStatusPartiallyReceived POStatus = "PARTIALLY_RECEIVED"
	POStatusReceived          POStatus = "RECEIVED"
	POStatusCancelled         POStatus = "CANCELLED"
)

// Valid indica si el estado pertenece al enum.
func (s POStatus) Valid() bool {
	switch s {
	case POStatusDraft, POStatusSent, POStatusConfirmed,
		POStatusPartiallyReceived, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo aplica el grafo de estados:
// DRAFT -> SENT -> CONFIRMED -> PARTIALLY_RECEIVED (⇄) -> RECEIVED; cualquier estado no final -> CANCELLED.
func (s POStatus) CanTransitionTo(next POStatus) bool {
	switch s {
	case POStatusDraft:
		return next == POStatusSent || next == POStatusCancelled
	case POStatusSent:
		return next == POStatusConfirmed || next == POStatusCancelled
	case POStatusConfirmed, POStatusPartiallyReceived:
		return next == POStatusPartiallyReceived || next == POStatusReceived || next == POStatusCancelled
	case POStatusReceived, POStatusCancelled:
		return false
	}
	return false
}

// POItem línea de una orden de compra. 0 <= ReceivedQuantity <= Quantity, y solo crece.
type POItem struct {
	ID               string
	ProductID        string
	SKU              string
	Quantity         decimal.Decimal // ordenada
	ReceivedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
	// Receipts claves de recepción ya aplicadas a esta línea.
	Receipts []string
}

// HasReceipt indica si la clave de recepción ya se aplicó a la línea.
func (i *POItem) HasReceipt(key string) bool {
	for _, k := range i.Receipts {
		if k == key {
			return true
		}
	}
	return false
}

// ReceiveOnce como Receive, pero una clave ya aplicada no vuelve a sumar.
// Con clave vacía equivale a Receive. La clave solo se registra si hubo cantidad aplicada.
func (i *POItem) ReceiveOnce(key string, qty decimal.Decimal) decimal.Decimal {
	if key != "" && i.HasReceipt(key) {
		return decimal.Zero
	}
	clamped := i.Receive(qty)
	if key != "" && clamped.GreaterThan(decimal.Zero) {
		i.Receipts = append(i.Receipts, key)
	}
	return clamped
}

// Remaining cantidad pendiente por recibir.
func (i *POItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// Receive suma min(qty, pendiente) a ReceivedQuantity y devuelve lo aplicado.
// Cantidades cero o negativas no hacen nada.
func (i *POItem) Receive(qty decimal.Decimal) decimal.Decimal {
	if !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	clamped := decimal.Min(qty, i.Remaining())
	if !clamped.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(clamped)
	return clamped
}

// PurchaseOrder orden de compra a proveedor, recibida en una bodega.
type PurchaseOrder struct {
	ID           string
	PONumber     string // PO-AAAA-NNNN
	SupplierID   string
	WarehouseID  string
	Items        []POItem
	Status       POStatus
	Currency     string
	TaxRate      decimal.Decimal // 0.19 = 19%
	ShippingCost decimal.Decimal
	Notes        string
	CreatedBy    string
	ApprovedBy   string
	ApprovedAt   *time.Time
	SentAt       *time.Time
	ReceivedDate *time.Time
	CancelledAt  *time.Time
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (po *PurchaseOrder) transition(next POStatus, now time.Time) error {
	if !po.Status.CanTransitionTo(next) {
		return transitionError("orden de compra", string(po.Status), string(next))
	}
	po.Status = next
	po.UpdatedAt = now
	return nil
}

// Send DRAFT -> SENT.
func (po *PurchaseOrder) Send(now time.Time) error {
	if err := po.transition(POStatusSent, now); err != nil {
		return err
	}
	po.SentAt = &now
	return nil
}

// Confirm SENT -> CONFIRMED y registra quién aprobó.
func (po *PurchaseOrder) Confirm(approvedBy string, now time.Time) error {
	if approvedBy == "" {
		return errInvalidApprover
	}
	if err := po.transition(POStatusConfirmed, now); err != nil {
		return err
	}
	po.ApprovedBy = approvedBy
	po.ApprovedAt = &now
	return nil
}

// Cancel cierra la orden a recepciones futuras. No revierte lo ya recibido.
func (po *PurchaseOrder) Cancel(now time.Time) error {
	if err := po.transition(POStatusCancelled, now); err != nil {
		return err
	}
	po.CancelledAt = &now
	return nil
}

// CheckDeletable solo permite borrar órdenes en DRAFT.
func (po *PurchaseOrder) CheckDeletable() error {
	if po.Status != POStatusDraft {
		return transitionError("orden de compra", string(po.Status), "DELETED")
	}
	return nil
}

// CheckReceivable permite recibir en CONFIRMED y PARTIALLY_RECEIVED.
// En RECEIVED se acepta como no-op (repetir una recepción ya consumida es idempotente).
func (po *PurchaseOrder) CheckReceivable() error {
	switch po.Status {
	case POStatusConfirmed, POStatusPartiallyReceived, POStatusReceived:
		return nil
	default:
		return transitionError("orden de compra", string(po.Status), string(POStatusPartiallyReceived))
	}
}

// Item busca una línea por ID.
func (po *PurchaseOrder) Item(itemID string) *POItem {
	for i := range po.Items {
		if po.Items[i].ID == itemID {
			return &po.Items[i]
		}
	}
	return nil
}

// FullyReceived indica si todas las líneas están completas.
func (po *PurchaseOrder) FullyReceived() bool {
	for _, it := range po.Items {
		if it.ReceivedQuantity.LessThan(it.Quantity) {
			return false
		}
	}
	return len(po.Items) > 0
}

// RefreshReceiptStatus recalcula el estado tras una recepción:
// todo recibido -> RECEIVED (con fecha); algo recibido -> PARTIALLY_RECEIVED; si no, sin cambios.
func (po *PurchaseOrder) RefreshReceiptStatus(now time.Time) {
	if po.Status != POStatusConfirmed && po.Status != POStatusPartiallyReceived {
		return
	}
	if po.FullyReceived() {
		po.Status = POStatusReceived
		po.ReceivedDate = &now
		po.UpdatedAt = now
		return
	}
	for _, it := range po.Items {
		if it.ReceivedQuantity.GreaterThan(decimal.Zero) {
			po.Status = POStatusPartiallyReceived
			po.UpdatedAt = now
			return
		}
	}
}

// Subtotal = Σ cantidad × costo unitario.
func (po *PurchaseOrder) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range po.Items {
		total = total.Add(it.Quantity.Mul(it.UnitCost))
	}
	return total
}

// TaxAmount impuesto sobre el subtotal.
func (po *PurchaseOrder) TaxAmount() decimal.Decimal {
	return po.Subtotal().Mul(po.TaxRate).Round(2)
}

// Total = Subtotal + impuesto + flete.
func (po *PurchaseOrder) Total() decimal.Decimal {
	return po.Subtotal().Add(po.TaxAmount()).Add(po.ShippingCost)
}

// Clone copia la orden y sus líneas.
func (po *PurchaseOrder) Clone() *PurchaseOrder {
	if po == nil {
		return nil
	}
	c := *po
	c.Items = append([]POItem(nil), po.Items...)
	for i := range c.Items {
		c.Items[i].Receipts = append([]string(nil), po.Items[i].Receipts...)
	}
	return &c
}
