package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/products/:id/movements.
// Type: INBOUND, SALE o RETURN. Quantity es la magnitud (> 0).
type RegisterMovementRequest struct {
	WarehouseID string           `json:"warehouse_id,omitempty"`
	Type        string           `json:"type" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// ReceiveLineRequest cantidad recibida de una línea.
type ReceiveLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReceiveItemsRequest body para recibir órdenes de compra y traslados.
// ReceiptID es opcional: la misma clave reenviada no vuelve a sumar las líneas ya aplicadas
// (solo órdenes de compra; también se acepta en el header Idempotency-Key).
type ReceiveItemsRequest struct {
	ReceiptID string               `json:"receipt_id,omitempty" validate:"max=100"`
	Items     []ReceiveLineRequest `json:"items" validate:"dive"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStock           decimal.Decimal `json:"min_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // MinStock * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
