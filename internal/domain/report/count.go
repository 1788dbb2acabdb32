package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// Estados de una línea del reporte de conteo.
const (
	CountLineApplied   = "applied"
	CountLineMatched   = "matched"
	CountLineDrifted   = "drifted"
	CountLineUncounted = "uncounted"
)

// CountReportLine resultado de conciliar una línea.
type CountReportLine struct {
	ProductID    string
	SKU          string
	Name         string
	InitialStock decimal.Decimal
	CountedStock decimal.Decimal
	Diff         decimal.Decimal
	Status       string
}

// CountReport resultado de cerrar una sesión de conteo.
// Matched es true cuando no hubo correcciones ni productos con deriva.
type CountReport struct {
	SessionID   string
	WarehouseID string
	Status      entity.CountStatus
	StartedBy   string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Lines       []CountReportLine
	Applied     int
	Drifted     int
	Uncounted   int
	Matched     bool
}

// BuildCountReport arma el reporte a partir del estado persistido de la sesión.
func BuildCountReport(s *entity.CountSession) CountReport {
	r := CountReport{
		SessionID:   s.ID,
		WarehouseID: s.WarehouseID,
		Status:      s.Status,
		StartedBy:   s.StartedBy,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		Lines:       make([]CountReportLine, 0, len(s.Lines)),
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		line := CountReportLine{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Name:         l.Name,
			InitialStock: l.InitialStock,
			CountedStock: l.CountedStock,
			Diff:         l.Diff(),
		}
		switch {
		case !l.Counted:
			line.Status = CountLineUncounted
			r.Uncounted++
		case l.Drifted:
			line.Status = CountLineDrifted
			r.Drifted++
		case l.Adjusted:
			line.Status = CountLineApplied
			r.Applied++
		default:
			line.Status = CountLineMatched
		}
		r.Lines = append(r.Lines, line)
	}
	r.Matched = r.Applied == 0 && r.Drifted == 0
	return r
}
