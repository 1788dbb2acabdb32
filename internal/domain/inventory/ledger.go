// Package inventory contiene la lógica de dominio del kardex: aplicación de movimientos,
// verificación de la ley de suma acumulada, disponibilidad y numeración de documentos.
package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MovementInput datos para registrar un movimiento. Quantity va con signo.
type MovementInput struct {
	Type        entity.MovementType
	Quantity    decimal.Decimal
	WarehouseID string
	Reference   string
	Notes       string
	Actor       string
	Date        time.Time
}

// ApplyMovement calcula NewStock = Stock + Quantity, valida que ni el agregado ni la bodega
// queden negativos, agrega el movimiento al kardex y actualiza Stock/StockByLocation.
// El producto y su movimiento deben persistirse juntos (ProductRepository.Save).
//
// Un producto que lleva stock por bodega exige WarehouseID. Un producto sin stock por bodega
// y con stock cero empieza a llevarlo con el primer movimiento que indique bodega; si ya tiene
// stock agregado, la bodega solo queda como referencia en el movimiento.
func ApplyMovement(p *entity.Product, in MovementInput) (*entity.StockMovement, error) {
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: cantidad cero", domain.ErrInvalidInput)
	}
	if p.TracksLocations() && in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: el producto %s lleva stock por bodega", domain.ErrInvalidInput, p.ID)
	}

	newStock := p.Stock.Add(in.Quantity)
	if newStock.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: producto %s stock %s cambio %s", domain.ErrInvariantViolation, p.ID, p.Stock, in.Quantity)
	}

	trackLocation := in.WarehouseID != "" && (p.TracksLocations() || p.Stock.IsZero())
	var newLocation decimal.Decimal
	if trackLocation {
		newLocation = p.LocationStock(in.WarehouseID).Add(in.Quantity)
		if newLocation.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: producto %s bodega %s stock %s cambio %s",
				domain.ErrInvariantViolation, p.ID, in.WarehouseID, p.LocationStock(in.WarehouseID), in.Quantity)
		}
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	mov := entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		WarehouseID:    in.WarehouseID,
		Date:           date,
		Type:           in.Type,
		QuantityChange: in.Quantity,
		NewStock:       newStock,
		Reference:      in.Reference,
		Notes:          in.Notes,
		Actor:          in.Actor,
	}

	p.Stock = newStock
	if trackLocation {
		if p.StockByLocation == nil {
			p.StockByLocation = make(map[string]decimal.Decimal)
		}
		p.StockByLocation[in.WarehouseID] = newLocation
	}
	p.History = append(p.History, mov)
	p.UpdatedAt = date
	return &mov, nil
}

// VerifyLedger reproduce el kardex del más antiguo al más reciente desde el stock previo al
// primer movimiento y comprueba cada NewStock y el stock final. También valida que la suma
// por bodega coincida con el agregado.
func VerifyLedger(p *entity.Product) error {
	if len(p.History) > 0 {
		running := p.History[0].PreviousStock()
		for i, m := range p.History {
			running = running.Add(m.QuantityChange)
			if !running.Equal(m.NewStock) {
				return fmt.Errorf("%w: movimiento %d (%s) esperado %s registrado %s",
					domain.ErrInvariantViolation, i, m.ID, running, m.NewStock)
			}
		}
		if !running.Equal(p.Stock) {
			return fmt.Errorf("%w: stock final %s, kardex %s", domain.ErrInvariantViolation, p.Stock, running)
		}
	}
	if p.Stock.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: stock negativo %s", domain.ErrInvariantViolation, p.Stock)
	}
	if p.TracksLocations() {
		sum := decimal.Zero
		for w, q := range p.StockByLocation {
			if q.LessThan(decimal.Zero) {
				return fmt.Errorf("%w: bodega %s negativa %s", domain.ErrInvariantViolation, w, q)
			}
			sum = sum.Add(q)
		}
		if !sum.Equal(p.Stock) {
			return fmt.Errorf("%w: suma por bodega %s distinta de stock %s", domain.ErrInvariantViolation, sum, p.Stock)
		}
	}
	return nil
}
