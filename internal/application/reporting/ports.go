package reporting

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/report"
)

// PDFRenderer genera la representación en PDF de los reportes.
type PDFRenderer interface {
	RenderValuation(ctx context.Context, r report.ValuationReport, generatedAt time.Time) ([]byte, error)
	RenderCountReport(ctx context.Context, r report.CountReport, generatedAt time.Time) ([]byte, error)
}
