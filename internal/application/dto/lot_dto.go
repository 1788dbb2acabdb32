package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// CreateLotRequest body para POST /api/lots.
type CreateLotRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	WarehouseID     string          `json:"warehouse_id" validate:"required"`
	LotNumber       string          `json:"lot_number" validate:"required,max=100"`
	Quantity        decimal.Decimal `json:"quantity"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
}

// LotQuantityRequest body para reservar o liberar.
type LotQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// LotResponse salida de un lote.
type LotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	LotNumber         string          `json:"lot_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ManufactureDate   *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
}

// NewLotResponse mapea la entidad.
func NewLotResponse(l *entity.Lot) *LotResponse {
	if l == nil {
		return nil
	}
	return &LotResponse{
		ID:                l.ID,
		ProductID:         l.ProductID,
		WarehouseID:       l.WarehouseID,
		LotNumber:         l.LotNumber,
		Quantity:          l.Quantity,
		ReservedQuantity:  l.ReservedQuantity,
		AvailableQuantity: l.AvailableQuantity(),
		ManufactureDate:   l.ManufactureDate,
		ExpiryDate:        l.ExpiryDate,
	}
}
