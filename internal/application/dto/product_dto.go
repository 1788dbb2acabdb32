package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. Stock y costo nacen en cero.
type CreateProductRequest struct {
	SKU      string          `json:"sku" validate:"required,max=100"`
	Name     string          `json:"name" validate:"required,max=200"`
	Category string          `json:"category" validate:"max=100"`
	MinStock decimal.Decimal `json:"min_stock"`
	Price    decimal.Decimal `json:"price"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Stock).
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category *string          `json:"category" validate:"omitempty,max=100"`
	MinStock *decimal.Decimal `json:"min_stock"`
	Price    *decimal.Decimal `json:"price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string                     `json:"id"`
	SKU             string                     `json:"sku"`
	Name            string                     `json:"name"`
	Category        string                     `json:"category"`
	Stock           decimal.Decimal            `json:"stock"`
	StockByLocation map[string]decimal.Decimal `json:"stock_by_location,omitempty"`
	MinStock        decimal.Decimal            `json:"min_stock"`
	Price           decimal.Decimal            `json:"price"`
	Cost            decimal.Decimal            `json:"cost"`
	LowStock        bool                       `json:"low_stock"`
	Version         int64                      `json:"version"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ProductDetailResponse producto con su kardex (más reciente primero).
type ProductDetailResponse struct {
	ProductResponse
	History []MovementResponse `json:"history"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// MovementResponse salida de un movimiento del kardex.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id,omitempty"`
	Date           time.Time       `json:"date"`
	Type           string          `json:"type"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	NewStock       decimal.Decimal `json:"new_stock"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Actor          string          `json:"actor,omitempty"`
}

// LedgerCheckResponse resultado de verificar la suma acumulada del kardex.
type LedgerCheckResponse struct {
	ProductID string `json:"product_id"`
	Movements int    `json:"movements"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
}

// NewProductResponse mapea la entidad sin historial.
func NewProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Category:        p.Category,
		Stock:           p.Stock,
		StockByLocation: p.StockByLocation,
		MinStock:        p.MinStock,
		Price:           p.Price,
		Cost:            p.Cost,
		LowStock:        p.IsLowStock(),
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// NewProductDetailResponse mapea el producto con su kardex para mostrar.
func NewProductDetailResponse(p *entity.Product) *ProductDetailResponse {
	if p == nil {
		return nil
	}
	recent := p.RecentHistory()
	history := make([]MovementResponse, 0, len(recent))
	for i := range recent {
		history = append(history, *NewMovementResponse(&recent[i]))
	}
	return &ProductDetailResponse{ProductResponse: *NewProductResponse(p), History: history}
}

// NewMovementResponse mapea un movimiento.
func NewMovementResponse(m *entity.StockMovement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		Date:           m.Date,
		Type:           string(m.Type),
		QuantityChange: m.QuantityChange,
		NewStock:       m.NewStock,
		Reference:      m.Reference,
		Notes:          m.Notes,
		Actor:          m.Actor,
	}
}
