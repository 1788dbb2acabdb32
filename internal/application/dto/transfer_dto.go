package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// CreateTransferItemRequest línea del traslado.
type CreateTransferItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromWarehouseID string                      `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string                      `json:"to_warehouse_id" validate:"required,nefield=FromWarehouseID"`
	Notes           string                      `json:"notes"`
	Items           []CreateTransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransferItemResponse salida de una línea.
type TransferItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ShippedQuantity   decimal.Decimal `json:"shipped_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	ReturnedQuantity  decimal.Decimal `json:"returned_quantity"`
	InTransit         decimal.Decimal `json:"in_transit"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID              string                 `json:"id"`
	TransferNumber  string                 `json:"transfer_number"`
	FromWarehouseID string                 `json:"from_warehouse_id"`
	ToWarehouseID   string                 `json:"to_warehouse_id"`
	Status          string                 `json:"status"`
	Items           []TransferItemResponse `json:"items"`
	RequestedBy     string                 `json:"requested_by,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	ShippedAt       *time.Time             `json:"shipped_at,omitempty"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	Version         int64                  `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewTransferResponse mapea la entidad.
func NewTransferResponse(t *entity.StockTransfer) *TransferResponse {
	if t == nil {
		return nil
	}
	items := make([]TransferItemResponse, 0, len(t.Items))
	for i := range t.Items {
		it := &t.Items[i]
		items = append(items, TransferItemResponse{
			ID:                it.ID,
			ProductID:         it.ProductID,
			RequestedQuantity: it.RequestedQuantity,
			ShippedQuantity:   it.ShippedQuantity,
			ReceivedQuantity:  it.ReceivedQuantity,
			ReturnedQuantity:  it.ReturnedQuantity,
			InTransit:         it.InTransit(),
		})
	}
	return &TransferResponse{
		ID:              t.ID,
		TransferNumber:  t.TransferNumber,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Status:          string(t.Status),
		Items:           items,
		RequestedBy:     t.RequestedBy,
		Notes:           t.Notes,
		ShippedAt:       t.ShippedAt,
		CompletedAt:     t.CompletedAt,
		CancelledAt:     t.CancelledAt,
		Version:         t.Version,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
