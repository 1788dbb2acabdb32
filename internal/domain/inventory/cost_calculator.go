package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost recalcula el costo promedio ponderado al recibir mercancía (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Se usa el stock previo a la entrada; si el resultado no tiene base positiva devuelve el costo de entrada.
func WeightedAverageCost(currentStock, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	if currentStock.LessThan(decimal.Zero) {
		currentStock = decimal.Zero
	}
	sum := currentStock.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return inCost
	}
	num := currentStock.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum).Round(4)
}
