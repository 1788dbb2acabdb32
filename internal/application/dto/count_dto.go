package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/report"
)

// StartCountRequest body para POST /api/counts. Sin warehouse_id el conteo es global.
type StartCountRequest struct {
	WarehouseID string `json:"warehouse_id"`
}

// RecordCountRequest body para POST /api/counts/:id/lines.
type RecordCountRequest struct {
	ProductID    string          `json:"product_id" validate:"required"`
	CountedStock decimal.Decimal `json:"counted_stock"`
}

// CountLineResponse salida de una línea de conteo.
type CountLineResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	CountedStock decimal.Decimal `json:"counted_stock"`
	Counted      bool            `json:"counted"`
}

// CountSessionResponse salida de una sesión.
type CountSessionResponse struct {
	ID          string              `json:"id"`
	WarehouseID string              `json:"warehouse_id,omitempty"`
	Status      string              `json:"status"`
	StartedBy   string              `json:"started_by,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedBy  string              `json:"finished_by,omitempty"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty"`
	NextPending *CountLineResponse  `json:"next_pending,omitempty"`
	Lines       []CountLineResponse `json:"lines"`
}

// CountReportLineResponse línea conciliada.
type CountReportLineResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	CountedStock decimal.Decimal `json:"counted_stock"`
	Diff         decimal.Decimal `json:"diff"`
	Status       string          `json:"status"`
}

// CountReportResponse resultado de cerrar la sesión.
type CountReportResponse struct {
	SessionID string                    `json:"session_id"`
	Status    string                    `json:"status"`
	Matched   bool                      `json:"matched"`
	Applied   int                       `json:"applied"`
	Drifted   int                       `json:"drifted"`
	Uncounted int                       `json:"uncounted"`
	Lines     []CountReportLineResponse `json:"lines"`
}

func newCountLineResponse(l *entity.CountLine) CountLineResponse {
	return CountLineResponse{
		ProductID:    l.ProductID,
		SKU:          l.SKU,
		Name:         l.Name,
		InitialStock: l.InitialStock,
		CountedStock: l.CountedStock,
		Counted:      l.Counted,
	}
}

// NewCountSessionResponse mapea la sesión.
func NewCountSessionResponse(s *entity.CountSession) *CountSessionResponse {
	if s == nil {
		return nil
	}
	lines := make([]CountLineResponse, 0, len(s.Lines))
	for i := range s.Lines {
		lines = append(lines, newCountLineResponse(&s.Lines[i]))
	}
	out := &CountSessionResponse{
		ID:          s.ID,
		WarehouseID: s.WarehouseID,
		Status:      string(s.Status),
		StartedBy:   s.StartedBy,
		StartedAt:   s.StartedAt,
		FinishedBy:  s.FinishedBy,
		FinishedAt:  s.FinishedAt,
		Lines:       lines,
	}
	if s.IsOpen() {
		if next := s.NextPending(); next != nil {
			l := newCountLineResponse(next)
			out.NextPending = &l
		}
	}
	return out
}

// NewCountReportResponse mapea el reporte de conciliación.
func NewCountReportResponse(r *report.CountReport) *CountReportResponse {
	if r == nil {
		return nil
	}
	lines := make([]CountReportLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, CountReportLineResponse{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Name:         l.Name,
			InitialStock: l.InitialStock,
			CountedStock: l.CountedStock,
			Diff:         l.Diff,
			Status:       l.Status,
		})
	}
	return &CountReportResponse{
		SessionID: r.SessionID,
		Status:    string(r.Status),
		Matched:   r.Matched,
		Applied:   r.Applied,
		Drifted:   r.Drifted,
		Uncounted: r.Uncounted,
		Lines:     lines,
	}
}
