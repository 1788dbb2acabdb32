package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MovementLine resumen de entradas/salidas de un producto en el período.
type MovementLine struct {
	ProductID    string
	SKU          string
	Name         string
	OpeningStock decimal.Decimal
	TotalIn      decimal.Decimal
	TotalOut     decimal.Decimal
	NetChange    decimal.Decimal
	ClosingStock decimal.Decimal
	Movements    int
}

// MovementReport reporte de movimientos por producto en [From, To].
type MovementReport struct {
	From      time.Time
	To        time.Time
	Lines     []MovementLine
	TotalIn   decimal.Decimal
	TotalOut  decimal.Decimal
	NetChange decimal.Decimal
}

// inRange fechas cero = sin límite.
func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// BuildMovementReport para cada producto filtra el kardex al rango:
//   - OpeningStock: NewStock - QuantityChange del movimiento más antiguo del rango (o stock actual si no hay).
//   - TotalIn / TotalOut: suma de cambios positivos / valor absoluto de negativos.
//   - ClosingStock: stock actual.
//   - NetChange = TotalIn - TotalOut.
func BuildMovementReport(products []*entity.Product, from, to time.Time) MovementReport {
	rep := MovementReport{
		From:      from,
		To:        to,
		Lines:     make([]MovementLine, 0, len(products)),
		TotalIn:   decimal.Zero,
		TotalOut:  decimal.Zero,
		NetChange: decimal.Zero,
	}
	for _, p := range products {
		line := MovementLine{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			OpeningStock: p.Stock,
			TotalIn:      decimal.Zero,
			TotalOut:     decimal.Zero,
			ClosingStock: p.Stock,
		}
		var oldest *entity.StockMovement
		for i := range p.History {
			m := &p.History[i]
			if !inRange(m.Date, from, to) {
				continue
			}
			if oldest == nil || m.Date.Before(oldest.Date) {
				oldest = m
			}
			line.Movements++
			if m.QuantityChange.GreaterThan(decimal.Zero) {
				line.TotalIn = line.TotalIn.Add(m.QuantityChange)
			} else {
				line.TotalOut = line.TotalOut.Add(m.QuantityChange.Abs())
			}
		}
		if oldest != nil {
			line.OpeningStock = oldest.PreviousStock()
		}
		line.NetChange = line.TotalIn.Sub(line.TotalOut)

		rep.TotalIn = rep.TotalIn.Add(line.TotalIn)
		rep.TotalOut = rep.TotalOut.Add(line.TotalOut)
		rep.Lines = append(rep.Lines, line)
	}
	rep.NetChange = rep.TotalIn.Sub(rep.TotalOut)
	return rep
}
