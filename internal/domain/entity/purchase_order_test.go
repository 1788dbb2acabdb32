package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newPO() *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:     "po-1",
		Status: entity.POStatusDraft,
		Items: []entity.POItem{
			{ID: "i1", ProductID: "p1", Quantity: dec("10"), UnitCost: dec("2.5")},
			{ID: "i2", ProductID: "p2", Quantity: dec("4"), UnitCost: dec("10")},
		},
		TaxRate:      dec("0.19"),
		ShippingCost: dec("5"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados de la orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestPOStatus_GrafoDeTransiciones(t *testing.T) {
	cases := []struct {
		from, to entity.POStatus
		ok       bool
	}{
		{entity.POStatusDraft, entity.POStatusSent, true},
		{entity.POStatusDraft, entity.POStatusConfirmed, false},
		{entity.POStatusSent, entity.POStatusConfirmed, true},
		{entity.POStatusConfirmed, entity.POStatusPartiallyReceived, true},
		{entity.POStatusPartiallyReceived, entity.POStatusPartiallyReceived, true},
		{entity.POStatusPartiallyReceived, entity.POStatusReceived, true},
		{entity.POStatusConfirmed, entity.POStatusCancelled, true},
		{entity.POStatusReceived, entity.POStatusCancelled, false},
		{entity.POStatusCancelled, entity.POStatusDraft, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestPurchaseOrder_FlujoCompleto(t *testing.T) {
	po := newPO()
	require.NoError(t, po.Send(now))
	require.NotNil(t, po.SentAt)

	err := po.Confirm("", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "confirmar exige aprobador")

	require.NoError(t, po.Confirm("admin-1", now))
	assert.Equal(t, entity.POStatusConfirmed, po.Status)
	assert.Equal(t, "admin-1", po.ApprovedBy)
	require.NoError(t, po.CheckReceivable())

	po.Item("i1").Receive(dec("10"))
	po.RefreshReceiptStatus(now)
	assert.Equal(t, entity.POStatusPartiallyReceived, po.Status)

	po.Item("i2").Receive(dec("4"))
	po.RefreshReceiptStatus(now)
	assert.Equal(t, entity.POStatusReceived, po.Status)
	require.NotNil(t, po.ReceivedDate)
	assert.NoError(t, po.CheckReceivable(), "RECEIVED acepta recepciones como no-op")
}

func TestPurchaseOrder_TransicionInvalida(t *testing.T) {
	po := newPO()
	err := po.Confirm("admin-1", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.POStatusDraft, po.Status, "el estado no cambia")

	assert.ErrorIs(t, po.CheckReceivable(), domain.ErrInvalidTransition)
	assert.NoError(t, po.CheckDeletable())

	require.NoError(t, po.Send(now))
	assert.ErrorIs(t, po.CheckDeletable(), domain.ErrInvalidTransition)

	require.NoError(t, po.Cancel(now))
	assert.ErrorIs(t, po.Cancel(now), domain.ErrInvalidTransition)
}

func TestPOItem_ReceiveAcotaAPendiente(t *testing.T) {
	it := entity.POItem{Quantity: dec("10"), ReceivedQuantity: dec("7")}
	applied := it.Receive(dec("5"))
	assert.True(t, applied.Equal(dec("3")))
	assert.True(t, it.ReceivedQuantity.Equal(dec("10")))

	assert.True(t, it.Receive(dec("1")).IsZero(), "línea completa no recibe más")
	assert.True(t, it.Receive(dec("-2")).IsZero())
}

func TestPOItem_ReceiveOnceIgnoraClaveRepetida(t *testing.T) {
	it := entity.POItem{Quantity: dec("10")}
	assert.True(t, it.ReceiveOnce("r1", dec("6")).Equal(dec("6")))
	assert.True(t, it.ReceiveOnce("r1", dec("6")).IsZero(), "misma clave no vuelve a sumar")
	assert.True(t, it.ReceivedQuantity.Equal(dec("6")))
	assert.True(t, it.HasReceipt("r1"))

	assert.True(t, it.ReceiveOnce("", dec("1")).Equal(dec("1")), "sin clave es Receive")
	assert.True(t, it.ReceiveOnce("r2", dec("9")).Equal(dec("3")))
	assert.True(t, it.ReceiveOnce("r3", dec("1")).IsZero())
	assert.False(t, it.HasReceipt("r3"), "sin cantidad aplicada la clave no se registra")
	assert.Equal(t, []string{"r1", "r2"}, it.Receipts)
}

func TestPurchaseOrder_CloneCopiaRecepciones(t *testing.T) {
	po := newPO()
	po.Items[0].ReceiveOnce("r1", dec("1"))
	c := po.Clone()
	c.Items[0].Receipts[0] = "otra"
	assert.Equal(t, []string{"r1"}, po.Items[0].Receipts)
}

func TestPurchaseOrder_Totales(t *testing.T) {
	po := newPO()
	// 10*2.5 + 4*10 = 65; impuesto 12.35; flete 5
	assert.True(t, po.Subtotal().Equal(dec("65")))
	assert.True(t, po.TaxAmount().Equal(dec("12.35")))
	assert.True(t, po.Total().Equal(dec("82.35")))
}
