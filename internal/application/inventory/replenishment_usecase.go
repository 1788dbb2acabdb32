package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// ReplenishmentSuggestion sugerencia de compra para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestion struct {
	ProductID          string
	SKU                string
	Name               string
	CurrentStock       decimal.Decimal
	MinStock           decimal.Decimal
	IdealStock         decimal.Decimal // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal // IdealStock - CurrentStock
	UnitCost           decimal.Decimal
	EstimatedOrderCost decimal.Decimal
	Priority           int // 1 = más urgente
}

var idealFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición a partir del stock mínimo.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// GenerateReplenishmentList devuelve los productos en o bajo MinStock con la cantidad sugerida,
// ordenados por urgencia (stock / mínimo ascendente). warehouseID vacío = stock agregado.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, warehouseID string) ([]ReplenishmentSuggestion, error) {
	products, err := uc.products.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]ReplenishmentSuggestion, 0)
	ratios := make(map[string]decimal.Decimal)
	for _, p := range products {
		if !p.MinStock.GreaterThan(decimal.Zero) {
			continue
		}
		current := systemStock(p, warehouseID)
		if current.GreaterThan(p.MinStock) {
			continue
		}
		ideal := p.MinStock.Mul(idealFactor)
		qty := ideal.Sub(current)
		if qty.LessThan(decimal.Zero) {
			qty = decimal.Zero
		}
		ratios[p.ID] = current.Div(p.MinStock)
		out = append(out, ReplenishmentSuggestion{
			ProductID:          p.ID,
			SKU:                p.SKU,
			Name:               p.Name,
			CurrentStock:       current,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.Cost,
			EstimatedOrderCost: qty.Mul(p.Cost).Round(2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := ratios[out[i].ProductID], ratios[out[j].ProductID]
		if !ri.Equal(rj) {
			return ri.LessThan(rj)
		}
		return out[i].SKU < out[j].SKU
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
