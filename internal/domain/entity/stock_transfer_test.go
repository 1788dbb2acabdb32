package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func newTransfer() *entity.StockTransfer {
	return &entity.StockTransfer{
		ID:              "tr-1",
		FromWarehouseID: "w1",
		ToWarehouseID:   "w2",
		Status:          entity.TransferStatusPending,
		Items: []entity.TransferItem{
			{ID: "t1", ProductID: "p1", RequestedQuantity: dec("6")},
		},
	}
}

func TestStockTransfer_DespachoYRecepcion(t *testing.T) {
	tr := newTransfer()
	require.NoError(t, tr.CheckShippable())
	assert.False(t, tr.AllShipped())

	shipped := tr.Item("t1").Ship()
	assert.True(t, shipped.Equal(dec("6")))
	require.True(t, tr.AllShipped())
	require.NoError(t, tr.MarkInTransit(now))
	assert.Equal(t, entity.TransferStatusInTransit, tr.Status)
	assert.ErrorIs(t, tr.CheckShippable(), domain.ErrInvalidTransition)

	got := tr.Item("t1").Receive(dec("4"))
	assert.True(t, got.Equal(dec("4")))
	assert.False(t, tr.RefreshReceiptStatus(now))

	got = tr.Item("t1").Receive(dec("10"))
	assert.True(t, got.Equal(dec("2")), "se acota a lo que sigue en tránsito")
	assert.True(t, tr.RefreshReceiptStatus(now))
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	assert.NoError(t, tr.CheckReceivable(), "COMPLETED acepta recepciones como no-op")
	assert.ErrorIs(t, tr.CheckCancellable(), domain.ErrInvalidTransition)
}

func TestStockTransfer_CancelarDevuelveTransito(t *testing.T) {
	tr := newTransfer()
	it := tr.Item("t1")
	it.Ship()
	require.NoError(t, tr.MarkInTransit(now))
	it.Receive(dec("1"))

	require.NoError(t, tr.CheckCancellable())
	returned := it.ReturnInTransit()
	assert.True(t, returned.Equal(dec("5")))
	assert.True(t, it.InTransit().IsZero())
	assert.True(t, it.ReturnInTransit().IsZero(), "devolver dos veces no duplica")

	require.NoError(t, tr.Cancel(now))
	assert.ErrorIs(t, tr.CheckReceivable(), domain.ErrInvalidTransition)
}

func TestTransferStatus_Grafo(t *testing.T) {
	assert.True(t, entity.TransferStatusPending.CanTransitionTo(entity.TransferStatusCancelled))
	assert.False(t, entity.TransferStatusPending.CanTransitionTo(entity.TransferStatusCompleted))
	assert.False(t, entity.TransferStatusCancelled.CanTransitionTo(entity.TransferStatusPending))
	assert.False(t, entity.TransferStatus("OTRO").Valid())
}
