package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func TestRegisterMovement_VentaYStockBajo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "10", "5", nil)
	uc := inventory.NewRegisterMovementUseCase(f.deps)

	m, err := uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{
		ProductID: "p1", Type: entity.MovementTypeSale, Quantity: dec("4"), Actor: "u1",
	})
	require.NoError(t, err)
	assert.True(t, m.QuantityChange.Equal(dec("-4")))
	assert.True(t, m.NewStock.Equal(dec("6")))
	assert.Empty(t, f.events.lowStock)

	_, err = uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{
		ProductID: "p1", Type: entity.MovementTypeSale, Quantity: dec("2"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, f.events.lowStock, "aviso al cruzar el mínimo")

	_, err = uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{
		ProductID: "p1", Type: entity.MovementTypeSale, Quantity: dec("1"),
	})
	require.NoError(t, err)
	assert.Len(t, f.events.lowStock, 1, "ya estaba bajo: no se repite")
}

func TestRegisterMovement_VentaMayorAlStock(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "3", "0", nil)
	uc := inventory.NewRegisterMovementUseCase(f.deps)

	_, err := uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{
		ProductID: "p1", Type: entity.MovementTypeSale, Quantity: dec("4"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	p := f.get(t, "p1")
	assert.True(t, p.Stock.Equal(dec("3")))
	assert.Empty(t, p.History, "el rechazo no deja movimiento")
}

func TestRegisterMovement_TiposNoManuales(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "3", "0", nil)
	uc := inventory.NewRegisterMovementUseCase(f.deps)

	for _, typ := range []entity.MovementType{entity.MovementTypeCountCorrection, entity.MovementTypeTransferIn, "OTRO"} {
		_, err := uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{ProductID: "p1", Type: typ, Quantity: dec("1")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, string(typ))
	}
	_, err := uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{ProductID: "p1", Type: entity.MovementTypeInbound})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad requerida")

	_, err = uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{ProductID: "nada", Type: entity.MovementTypeInbound, Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterMovement_EntradaConCosto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "10", "0", nil) // costo 4
	uc := inventory.NewRegisterMovementUseCase(f.deps)

	cost := dec("10")
	_, err := uc.RegisterMovement(f.ctx, inventory.MovementInputDTO{
		ProductID: "p1", Type: entity.MovementTypeInbound, Quantity: dec("10"), UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.True(t, f.get(t, "p1").Cost.Equal(dec("7")), "(10*4 + 10*10) / 20")
}

func TestReplenishment_OrdenaPorUrgencia(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "4", "10", nil)
	f.product(t, "b", "0", "4", nil)
	f.product(t, "c", "20", "10", nil)
	f.product(t, "d", "5", "0", nil)

	list, err := inventory.NewReplenishmentUseCase(f.deps.Products).GenerateReplenishmentList(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedOrderQty.Equal(dec("6")))
	assert.Equal(t, "a", list[1].ProductID)
	assert.True(t, list[1].SuggestedOrderQty.Equal(dec("11")))
	assert.True(t, list[1].EstimatedOrderCost.Equal(dec("44")))
}
