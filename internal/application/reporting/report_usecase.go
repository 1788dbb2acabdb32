// Package reporting carga productos y kardex y arma los reportes (JSON o PDF).
// Los cálculos viven en domain/report; aquí solo se coordina la lectura.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/report"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// ReportUseCase reportes de movimientos, valorización, categorías y resumen.
type ReportUseCase struct {
	products     repository.ProductRepository
	lots         repository.LotRepository
	counts       repository.CountSessionRepository
	pdf          PDFRenderer
	expiryWindow time.Duration
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. expiryWindow define qué lotes cuentan como
// próximos a vencer en el resumen.
func NewReportUseCase(
	products repository.ProductRepository,
	lots repository.LotRepository,
	counts repository.CountSessionRepository,
	pdf PDFRenderer,
	expiryWindow time.Duration,
) *ReportUseCase {
	return &ReportUseCase{
		products:     products,
		lots:         lots,
		counts:       counts,
		pdf:          pdf,
		expiryWindow: expiryWindow,
		now:          time.Now,
	}
}

// Summary reúne los tres reportes y los indicadores de lotes y stock bajo.
type Summary struct {
	GeneratedAt   time.Time
	Movements     report.MovementReport
	Valuation     report.ValuationReport
	Categories    []report.CategoryHealth
	ExpiringLots  int
	LowStockItems int
}

// Movements reporte de movimientos en [from, to]; fechas cero = sin límite.
func (uc *ReportUseCase) Movements(ctx context.Context, from, to time.Time) (report.MovementReport, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return report.MovementReport{}, fmt.Errorf("%w: to anterior a from", domain.ErrInvalidInput)
	}
	products, err := uc.products.List(ctx, 0, 0)
	if err != nil {
		return report.MovementReport{}, err
	}
	return report.BuildMovementReport(products, from, to), nil
}

// Valuation valorización global o de una bodega.
func (uc *ReportUseCase) Valuation(ctx context.Context, warehouseID string) (report.ValuationReport, error) {
	products, err := uc.products.List(ctx, 0, 0)
	if err != nil {
		return report.ValuationReport{}, err
	}
	return report.BuildValuationReport(products, warehouseID), nil
}

// Categories análisis de salud por categoría.
func (uc *ReportUseCase) Categories(ctx context.Context) ([]report.CategoryHealth, error) {
	products, err := uc.products.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return report.BuildCategoryAnalysis(products), nil
}

// Summary carga productos y lotes en paralelo y calcula los reportes concurrentemente
// sobre la misma foto de datos.
func (uc *ReportUseCase) Summary(ctx context.Context, from, to time.Time, warehouseID string) (*Summary, error) {
	var (
		products []*entity.Product
		lots     []*entity.Lot
	)
	load, lctx := errgroup.WithContext(ctx)
	load.Go(func() error {
		var err error
		products, err = uc.products.List(lctx, 0, 0)
		return err
	})
	load.Go(func() error {
		var err error
		lots, err = uc.lots.ListAll(lctx)
		return err
	})
	if err := load.Wait(); err != nil {
		return nil, err
	}

	now := uc.now()
	out := &Summary{GeneratedAt: now}
	var g errgroup.Group
	g.Go(func() error {
		out.Movements = report.BuildMovementReport(products, from, to)
		return nil
	})
	g.Go(func() error {
		out.Valuation = report.BuildValuationReport(products, warehouseID)
		return nil
	})
	g.Go(func() error {
		out.Categories = report.BuildCategoryAnalysis(products)
		return nil
	})
	g.Go(func() error {
		for _, l := range lots {
			if l.Quantity.GreaterThan(decimal.Zero) && l.ExpiresWithin(now, uc.expiryWindow) {
				out.ExpiringLots++
			}
		}
		for _, p := range products {
			if p.IsLowStock() {
				out.LowStockItems++
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValuationPDF valorización en PDF. Devuelve los bytes y el nombre sugerido del archivo.
func (uc *ReportUseCase) ValuationPDF(ctx context.Context, warehouseID string) ([]byte, string, error) {
	r, err := uc.Valuation(ctx, warehouseID)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	b, err := uc.pdf.RenderValuation(ctx, r, now)
	if err != nil {
		return nil, "", fmt.Errorf("reporting: pdf valorización: %w", err)
	}
	return b, fmt.Sprintf("valorizacion-%s.pdf", now.Format("20060102")), nil
}

// CountReportPDF reporte de una sesión de conteo en PDF.
func (uc *ReportUseCase) CountReportPDF(ctx context.Context, sessionID string) ([]byte, string, error) {
	s, err := uc.counts.GetByID(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if s == nil {
		return nil, "", fmt.Errorf("sesión de conteo %s: %w", sessionID, domain.ErrNotFound)
	}
	b, err := uc.pdf.RenderCountReport(ctx, report.BuildCountReport(s), uc.now())
	if err != nil {
		return nil, "", fmt.Errorf("reporting: pdf conteo: %w", err)
	}
	return b, fmt.Sprintf("conteo-%s.pdf", s.ID), nil
}
