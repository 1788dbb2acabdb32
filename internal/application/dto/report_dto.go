package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/report"
)

// MovementLineResponse entradas/salidas de un producto en el período.
type MovementLineResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	OpeningStock decimal.Decimal `json:"opening_stock"`
	TotalIn      decimal.Decimal `json:"total_in"`
	TotalOut     decimal.Decimal `json:"total_out"`
	NetChange    decimal.Decimal `json:"net_change"`
	ClosingStock decimal.Decimal `json:"closing_stock"`
	Movements    int             `json:"movements"`
}

// MovementReportResponse GET /api/reports/movements.
type MovementReportResponse struct {
	From      *time.Time             `json:"from,omitempty"`
	To        *time.Time             `json:"to,omitempty"`
	Lines     []MovementLineResponse `json:"lines"`
	TotalIn   decimal.Decimal        `json:"total_in"`
	TotalOut  decimal.Decimal        `json:"total_out"`
	NetChange decimal.Decimal        `json:"net_change"`
}

// ValuationLineResponse valor de un producto.
type ValuationLineResponse struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
}

// CategoryValuationResponse subtotal por categoría.
type CategoryValuationResponse struct {
	Category string                  `json:"category"`
	Quantity decimal.Decimal         `json:"quantity"`
	Value    decimal.Decimal         `json:"value"`
	Lines    []ValuationLineResponse `json:"lines"`
}

// ValuationReportResponse GET /api/reports/valuation.
type ValuationReportResponse struct {
	WarehouseID   string                      `json:"warehouse_id,omitempty"`
	Categories    []CategoryValuationResponse `json:"categories"`
	TotalQuantity decimal.Decimal             `json:"total_quantity"`
	TotalValue    decimal.Decimal             `json:"total_value"`
}

// CategoryHealthResponse salud de una categoría.
type CategoryHealthResponse struct {
	Category     string          `json:"category"`
	ItemCount    int             `json:"item_count"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	AverageStock decimal.Decimal `json:"average_stock"`
	OutOfStock   int             `json:"out_of_stock"`
	LowStock     int             `json:"low_stock"`
	HealthPct    decimal.Decimal `json:"health_pct"`
}

// SummaryResponse GET /api/reports/summary.
type SummaryResponse struct {
	GeneratedAt   time.Time                `json:"generated_at"`
	Movements     MovementReportResponse   `json:"movements"`
	Valuation     ValuationReportResponse  `json:"valuation"`
	Categories    []CategoryHealthResponse `json:"categories"`
	ExpiringLots  int                      `json:"expiring_lots"`
	LowStockItems int                      `json:"low_stock_items"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// NewMovementReportResponse mapea el reporte de movimientos.
func NewMovementReportResponse(r report.MovementReport) MovementReportResponse {
	lines := make([]MovementLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, MovementLineResponse{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Name:         l.Name,
			OpeningStock: l.OpeningStock,
			TotalIn:      l.TotalIn,
			TotalOut:     l.TotalOut,
			NetChange:    l.NetChange,
			ClosingStock: l.ClosingStock,
			Movements:    l.Movements,
		})
	}
	return MovementReportResponse{
		From:      optionalTime(r.From),
		To:        optionalTime(r.To),
		Lines:     lines,
		TotalIn:   r.TotalIn,
		TotalOut:  r.TotalOut,
		NetChange: r.NetChange,
	}
}

// NewValuationReportResponse mapea la valorización.
func NewValuationReportResponse(r report.ValuationReport) ValuationReportResponse {
	cats := make([]CategoryValuationResponse, 0, len(r.Categories))
	for _, c := range r.Categories {
		lines := make([]ValuationLineResponse, 0, len(c.Lines))
		for _, l := range c.Lines {
			lines = append(lines, ValuationLineResponse(l))
		}
		cats = append(cats, CategoryValuationResponse{
			Category: c.Category,
			Quantity: c.Quantity,
			Value:    c.Value,
			Lines:    lines,
		})
	}
	return ValuationReportResponse{
		WarehouseID:   r.WarehouseID,
		Categories:    cats,
		TotalQuantity: r.TotalQuantity,
		TotalValue:    r.TotalValue,
	}
}

// NewCategoryHealthResponse mapea el análisis por categoría.
func NewCategoryHealthResponse(in []report.CategoryHealth) []CategoryHealthResponse {
	out := make([]CategoryHealthResponse, 0, len(in))
	for _, c := range in {
		out = append(out, CategoryHealthResponse(c))
	}
	return out
}
