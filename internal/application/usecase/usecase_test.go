package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUseCase_CreateYUpdate(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Repositories().Products)
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: "  CAF-500 ", Name: "Café 500g", Category: "Bebidas",
		MinStock: decimal.NewFromInt(5), Price: decimal.NewFromInt(18000),
	})
	require.NoError(t, err)
	assert.Equal(t, "CAF-500", created.SKU)
	assert.True(t, created.Stock.IsZero())
	assert.True(t, created.Cost.IsZero())
	assert.Equal(t, int64(1), created.Version)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "CAF-500", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	name := "Café molido 500g"
	price := decimal.NewFromInt(19500)
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, "Bebidas", updated.Category, "campos omitidos no cambian")
	assert.Equal(t, int64(2), updated.Version)

	negative := decimal.NewFromInt(-1)
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{MinStock: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "nada", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ValidacionesYLedger(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(store.Repositories().Products)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "x", Price: decimal.NewFromInt(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "x"})
	require.NoError(t, err)
	check, err := uc.VerifyLedger(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, check.Valid)
	assert.Equal(t, 0, check.Movements)

	list, err := uc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 10, list.Page.Limit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseUseCase(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewWarehouseUseCase(store.Warehouses())
	ctx := context.Background()

	w, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "BOG", Name: "Bogotá"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "BOG", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "MED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bogotá", got.Name)

	_, err = uc.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "CAL", Name: "Cali"})
	require.NoError(t, err)
	list, err := uc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "BOG", list.Items[0].Code, "ordenadas por código")
}
