package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// CreatePOItemRequest línea de la orden.
type CreatePOItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID   string                `json:"supplier_id" validate:"required"`
	WarehouseID  string                `json:"warehouse_id" validate:"required"`
	Currency     string                `json:"currency" validate:"omitempty,len=3"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	ShippingCost decimal.Decimal       `json:"shipping_cost"`
	Notes        string                `json:"notes"`
	Items        []CreatePOItemRequest `json:"items" validate:"required,min=1,dive"`
}

// POItemResponse salida de una línea.
type POItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse salida de una orden con sus totales derivados.
type PurchaseOrderResponse struct {
	ID           string           `json:"id"`
	PONumber     string           `json:"po_number"`
	SupplierID   string           `json:"supplier_id"`
	WarehouseID  string           `json:"warehouse_id"`
	Status       string           `json:"status"`
	Currency     string           `json:"currency"`
	Items        []POItemResponse `json:"items"`
	Subtotal     decimal.Decimal  `json:"subtotal"`
	TaxRate      decimal.Decimal  `json:"tax_rate"`
	Tax          decimal.Decimal  `json:"tax"`
	ShippingCost decimal.Decimal  `json:"shipping_cost"`
	Total        decimal.Decimal  `json:"total"`
	Notes        string           `json:"notes,omitempty"`
	CreatedBy    string           `json:"created_by,omitempty"`
	ApprovedBy   string           `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time       `json:"approved_at,omitempty"`
	SentAt       *time.Time       `json:"sent_at,omitempty"`
	ReceivedDate *time.Time       `json:"received_date,omitempty"`
	CancelledAt  *time.Time       `json:"cancelled_at,omitempty"`
	Version      int64            `json:"version"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// NewPurchaseOrderResponse mapea la entidad.
func NewPurchaseOrderResponse(po *entity.PurchaseOrder) *PurchaseOrderResponse {
	if po == nil {
		return nil
	}
	items := make([]POItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, POItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			SKU:              it.SKU,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitCost:         it.UnitCost,
		})
	}
	return &PurchaseOrderResponse{
		ID:           po.ID,
		PONumber:     po.PONumber,
		SupplierID:   po.SupplierID,
		WarehouseID:  po.WarehouseID,
		Status:       string(po.Status),
		Currency:     po.Currency,
		Items:        items,
		Subtotal:     po.Subtotal(),
		TaxRate:      po.TaxRate,
		Tax:          po.TaxAmount(),
		ShippingCost: po.ShippingCost,
		Total:        po.Total(),
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		ApprovedBy:   po.ApprovedBy,
		ApprovedAt:   po.ApprovedAt,
		SentAt:       po.SentAt,
		ReceivedDate: po.ReceivedDate,
		CancelledAt:  po.CancelledAt,
		Version:      po.Version,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
	}
}
