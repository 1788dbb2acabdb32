package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredislib "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

var _ inventory.Notifier = (*EventPublisher)(nil)

// DefaultEventsChannel canal de pub/sub de eventos del inventario.
const DefaultEventsChannel = "inventory.events"

// Tipos de evento publicados.
const (
	EventLowStock          = "low_stock"
	EventLotExpiring       = "lot_expiring"
	EventTransferCompleted = "transfer_completed"
)

// Event mensaje publicado. Payload depende del tipo.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// EventPublisher publica los eventos del motor en un canal Redis para consumidores externos
// (correo, push, tableros).
type EventPublisher struct {
	client  goredislib.UniversalClient
	channel string
	now     func() time.Time
}

// NewEventPublisher construye el publicador. channel vacío usa DefaultEventsChannel.
func NewEventPublisher(client goredislib.UniversalClient, channel string) *EventPublisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &EventPublisher{client: client, channel: channel, now: time.Now}
}

type lowStockPayload struct {
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Stock       string `json:"stock"`
	MinStock    string `json:"min_stock"`
}

type lotPayload struct {
	LotID       string     `json:"lot_id"`
	ProductID   string     `json:"product_id"`
	WarehouseID string     `json:"warehouse_id"`
	LotNumber   string     `json:"lot_number"`
	Quantity    string     `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

type transferPayload struct {
	TransferID      string `json:"transfer_id"`
	TransferNumber  string `json:"transfer_number"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Items           int    `json:"items"`
}

// LowStockCrossed publica low_stock.
func (p *EventPublisher) LowStockCrossed(ctx context.Context, product *entity.Product, warehouseID string) error {
	return p.publish(ctx, EventLowStock, lowStockPayload{
		ProductID:   product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		WarehouseID: warehouseID,
		Stock:       product.Stock.String(),
		MinStock:    product.MinStock.String(),
	})
}

// LotExpiring publica lot_expiring.
func (p *EventPublisher) LotExpiring(ctx context.Context, lot *entity.Lot) error {
	return p.publish(ctx, EventLotExpiring, lotPayload{
		LotID:       lot.ID,
		ProductID:   lot.ProductID,
		WarehouseID: lot.WarehouseID,
		LotNumber:   lot.LotNumber,
		Quantity:    lot.Quantity.String(),
		ExpiryDate:  lot.ExpiryDate,
	})
}

// TransferCompleted publica transfer_completed.
func (p *EventPublisher) TransferCompleted(ctx context.Context, t *entity.StockTransfer) error {
	return p.publish(ctx, EventTransferCompleted, transferPayload{
		TransferID:      t.ID,
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Items:           len(t.Items),
	})
}

func (p *EventPublisher) publish(ctx context.Context, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", eventType, err)
	}
	msg, err := json.Marshal(Event{Type: eventType, OccurredAt: p.now(), Payload: raw})
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", eventType, err)
	}
	if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
		return fmt.Errorf("publicar %s en %s: %w", eventType, p.channel, err)
	}
	return nil
}
