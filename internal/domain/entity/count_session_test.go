package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func newSession() *entity.CountSession {
	return &entity.CountSession{
		ID:     "c1",
		Status: entity.CountStatusOpen,
		Lines: []entity.CountLine{
			{ProductID: "p1", InitialStock: dec("10")},
			{ProductID: "p2", InitialStock: dec("3")},
		},
	}
}

func TestCountSession_RecordYDiff(t *testing.T) {
	s := newSession()
	assert.Equal(t, "global", s.Scope())
	assert.Equal(t, "p1", s.NextPending().ProductID)

	require.NoError(t, s.Record("p1", dec("8"), now))
	assert.True(t, s.Line("p1").Diff().Equal(dec("-2")))
	assert.Equal(t, "p2", s.NextPending().ProductID)

	require.NoError(t, s.Record("p1", dec("11"), now), "volver a contar sobrescribe")
	assert.True(t, s.Line("p1").Diff().Equal(dec("1")))
	assert.True(t, s.Line("p2").Diff().IsZero(), "línea sin contar no tiene diferencia")

	assert.ErrorIs(t, s.Record("p9", dec("1"), now), domain.ErrNotFound)
	assert.ErrorIs(t, s.Record("p2", dec("-1"), now), domain.ErrInvalidInput)
}

func TestCountSession_CerradaNoAdmiteCambios(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Finish("u1", now))
	assert.Equal(t, entity.CountStatusFinished, s.Status)
	require.NotNil(t, s.FinishedAt)

	assert.ErrorIs(t, s.Record("p1", dec("1"), now), domain.ErrInvalidTransition)
	assert.ErrorIs(t, s.Finish("u1", now), domain.ErrInvalidTransition)
	assert.ErrorIs(t, s.Cancel(now), domain.ErrInvalidTransition)
}

func TestLot_ReservaYLiberacion(t *testing.T) {
	l := &entity.Lot{Quantity: dec("10")}
	require.NoError(t, l.Reserve(dec("7")))
	assert.ErrorIs(t, l.Reserve(dec("4")), domain.ErrInsufficientStock)
	assert.True(t, l.AvailableQuantity().Equal(dec("3")))

	require.NoError(t, l.Release(dec("20")), "liberar de más se acota a lo reservado")
	assert.True(t, l.ReservedQuantity.IsZero())
	assert.ErrorIs(t, l.Release(dec("0")), domain.ErrInvalidInput)
}

func TestLot_ExpiresWithin(t *testing.T) {
	l := &entity.Lot{}
	assert.False(t, l.ExpiresWithin(now, 0), "sin vencimiento nunca vence")

	exp := now.AddDate(0, 0, 5)
	l.ExpiryDate = &exp
	assert.True(t, l.ExpiresWithin(now, 5*24*time.Hour))
	assert.False(t, l.ExpiresWithin(now, 24*time.Hour))

	past := now.AddDate(0, 0, -1)
	l.ExpiryDate = &past
	assert.True(t, l.ExpiresWithin(now, 0), "ya vencido cuenta")
}
