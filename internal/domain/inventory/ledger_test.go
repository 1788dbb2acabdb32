package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var day = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement / VerifyLedger
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SumaAcumulada(t *testing.T) {
	p := &entity.Product{ID: "p1", Stock: dec("0")}

	steps := []inventory.MovementInput{
		{Type: entity.MovementTypeInbound, Quantity: dec("10"), Date: day},
		{Type: entity.MovementTypeSale, Quantity: dec("-3"), Date: day.Add(time.Hour)},
		{Type: entity.MovementTypeReturn, Quantity: dec("1"), Date: day.Add(2 * time.Hour)},
	}
	for _, in := range steps {
		_, err := inventory.ApplyMovement(p, in)
		require.NoError(t, err)
	}

	assert.True(t, p.Stock.Equal(dec("8")))
	require.Len(t, p.History, 3)
	assert.True(t, p.History[1].NewStock.Equal(dec("7")))
	assert.True(t, p.History[1].PreviousStock().Equal(dec("10")))
	assert.NoError(t, inventory.VerifyLedger(p))

	recent := p.RecentHistory()
	assert.Equal(t, entity.MovementTypeReturn, recent[0].Type, "más reciente primero")
}

func TestApplyMovement_StockNegativoEsInvariante(t *testing.T) {
	p := &entity.Product{ID: "p1", Stock: dec("2")}
	_, err := inventory.ApplyMovement(p, inventory.MovementInput{Type: entity.MovementTypeSale, Quantity: dec("-3")})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.True(t, p.Stock.Equal(dec("2")), "el producto no cambia")
	assert.Empty(t, p.History)
}

func TestApplyMovement_EntradaInvalida(t *testing.T) {
	p := &entity.Product{ID: "p1", Stock: dec("2")}
	_, err := inventory.ApplyMovement(p, inventory.MovementInput{Type: "AJUSTE", Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ApplyMovement(p, inventory.MovementInput{Type: entity.MovementTypeInbound, Quantity: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.ApplyMovement(nil, inventory.MovementInput{Type: entity.MovementTypeInbound, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyMovement_StockPorBodega(t *testing.T) {
	p := &entity.Product{ID: "p1", Stock: dec("0")}
	_, err := inventory.ApplyMovement(p, inventory.MovementInput{
		Type: entity.MovementTypeInbound, Quantity: dec("5"), WarehouseID: "w1",
	})
	require.NoError(t, err)
	require.True(t, p.TracksLocations(), "el primer movimiento con bodega activa el detalle")

	_, err = inventory.ApplyMovement(p, inventory.MovementInput{
		Type: entity.MovementTypeInbound, Quantity: dec("3"), WarehouseID: "w2",
	})
	require.NoError(t, err)
	assert.True(t, p.LocationStock("w2").Equal(dec("3")))
	assert.True(t, p.Stock.Equal(dec("8")))

	_, err = inventory.ApplyMovement(p, inventory.MovementInput{Type: entity.MovementTypeSale, Quantity: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto por bodega exige bodega")

	_, err = inventory.ApplyMovement(p, inventory.MovementInput{
		Type: entity.MovementTypeSale, Quantity: dec("-4"), WarehouseID: "w2",
	})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation, "la bodega no puede quedar negativa")
	assert.NoError(t, inventory.VerifyLedger(p))
}

func TestVerifyLedger_DetectaInconsistencias(t *testing.T) {
	p := &entity.Product{ID: "p1", Stock: dec("5"), History: []entity.StockMovement{
		{ID: "m1", QuantityChange: dec("5"), NewStock: dec("5")},
		{ID: "m2", QuantityChange: dec("-2"), NewStock: dec("4")},
	}}
	assert.ErrorIs(t, inventory.VerifyLedger(p), domain.ErrInvariantViolation)

	p = &entity.Product{ID: "p1", Stock: dec("9"), History: []entity.StockMovement{
		{ID: "m1", QuantityChange: dec("5"), NewStock: dec("5")},
	}}
	assert.ErrorIs(t, inventory.VerifyLedger(p), domain.ErrInvariantViolation, "stock final distinto del kardex")

	p = &entity.Product{ID: "p1", Stock: dec("5"), StockByLocation: map[string]decimal.Decimal{"w1": dec("2")}}
	assert.ErrorIs(t, inventory.VerifyLedger(p), domain.ErrInvariantViolation, "suma por bodega distinta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio y disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverageCost(t *testing.T) {
	// (10*100 + 10*120) / 20 = 110
	got := inventory.WeightedAverageCost(dec("10"), dec("100"), dec("10"), dec("120"))
	assert.True(t, got.Equal(dec("110")), got.String())

	got = inventory.WeightedAverageCost(dec("0"), dec("0"), dec("4"), dec("7.5"))
	assert.True(t, got.Equal(dec("7.5")), "sin stock previo el costo es el de entrada")
}

func TestAvailableStock_DescuentaReservas(t *testing.T) {
	p := &entity.Product{ID: "p1", Stock: dec("10"), StockByLocation: map[string]decimal.Decimal{
		"w1": dec("6"), "w2": dec("4"),
	}}
	lots := []*entity.Lot{
		{ProductID: "p1", WarehouseID: "w1", ReservedQuantity: dec("2")},
		{ProductID: "p1", WarehouseID: "w2", ReservedQuantity: dec("9")},
		{ProductID: "otro", WarehouseID: "w1", ReservedQuantity: dec("5")},
	}
	assert.True(t, inventory.AvailableStock(p, lots, "w1").Equal(dec("4")))
	assert.True(t, inventory.AvailableStock(p, lots, "w2").IsZero(), "nunca negativo")
}

func TestCrossedLowStock(t *testing.T) {
	assert.True(t, inventory.CrossedLowStock(dec("6"), dec("5"), dec("5")))
	assert.False(t, inventory.CrossedLowStock(dec("5"), dec("4"), dec("5")), "ya estaba bajo")
	assert.False(t, inventory.CrossedLowStock(dec("9"), dec("6"), dec("5")))
}
