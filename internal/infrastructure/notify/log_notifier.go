// Package notify adaptadores de Notifier que no dependen de infraestructura externa.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

var (
	_ inventory.Notifier = (*LogNotifier)(nil)
	_ inventory.Notifier = Fanout(nil)
)

// LogNotifier registra los eventos en el log estructurado (notificador por defecto).
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

// LowStockCrossed avisa que el producto bajó a su stock mínimo.
func (n *LogNotifier) LowStockCrossed(_ context.Context, p *entity.Product, warehouseID string) error {
	n.log.Warn().
		Str("product_id", p.ID).
		Str("sku", p.SKU).
		Str("warehouse_id", warehouseID).
		Str("stock", p.Stock.String()).
		Str("min_stock", p.MinStock.String()).
		Msg("stock bajo el mínimo")
	return nil
}

// LotExpiring avisa de un lote por vencer.
func (n *LogNotifier) LotExpiring(_ context.Context, l *entity.Lot) error {
	ev := n.log.Warn().
		Str("lot_id", l.ID).
		Str("lot_number", l.LotNumber).
		Str("product_id", l.ProductID).
		Str("warehouse_id", l.WarehouseID).
		Str("quantity", l.Quantity.String())
	if l.ExpiryDate != nil {
		ev = ev.Time("expiry_date", *l.ExpiryDate)
	}
	ev.Msg("lote próximo a vencer")
	return nil
}

// TransferCompleted avisa que un traslado llegó completo.
func (n *LogNotifier) TransferCompleted(_ context.Context, t *entity.StockTransfer) error {
	n.log.Info().
		Str("transfer_id", t.ID).
		Str("transfer_number", t.TransferNumber).
		Str("from", t.FromWarehouseID).
		Str("to", t.ToWarehouseID).
		Msg("traslado completado")
	return nil
}

// Fanout reparte cada evento a todos los notificadores y une los errores.
type Fanout []inventory.Notifier

// LowStockCrossed reparte el evento.
func (f Fanout) LowStockCrossed(ctx context.Context, p *entity.Product, warehouseID string) error {
	return f.each(func(n inventory.Notifier) error { return n.LowStockCrossed(ctx, p, warehouseID) })
}

// LotExpiring reparte el evento.
func (f Fanout) LotExpiring(ctx context.Context, l *entity.Lot) error {
	return f.each(func(n inventory.Notifier) error { return n.LotExpiring(ctx, l) })
}

// TransferCompleted reparte el evento.
func (f Fanout) TransferCompleted(ctx context.Context, t *entity.StockTransfer) error {
	return f.each(func(n inventory.Notifier) error { return n.TransferCompleted(ctx, t) })
}

func (f Fanout) each(fn func(n inventory.Notifier) error) error {
	var errs []error
	for _, n := range f {
		if err := fn(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
