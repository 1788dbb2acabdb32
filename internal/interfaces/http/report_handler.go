package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/reporting"
)

// ReportHandler reportes de inventario y lista de reposición.
type ReportHandler struct {
	uc            *reporting.ReportUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase, replenishment *inventory.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{uc: uc, replenishment: replenishment}
}

// Movements godoc
// @Summary      Reporte de movimientos por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD o RFC3339, incluye el día)"
// @Success      200   {object}  dto.MovementReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	from, to, ok := dateRange(c)
	if !ok {
		return validation(c, "from/to deben tener formato YYYY-MM-DD o RFC3339")
	}
	rep, err := h.uc.Movements(c.UserContext(), from, to)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewMovementReportResponse(rep))
}

// Valuation godoc
// @Summary      Valorización del inventario por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Success      200  {object}  dto.ValuationReportResponse
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	rep, err := h.uc.Valuation(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewValuationReportResponse(rep))
}

// ValuationPDF godoc
// @Summary      Valorización en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Success      200  {file}  binary
// @Router       /api/reports/valuation.pdf [get]
func (h *ReportHandler) ValuationPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.ValuationPDF(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return handleError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

// Categories godoc
// @Summary      Salud del inventario por categoría
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryHealthResponse
// @Router       /api/reports/categories [get]
func (h *ReportHandler) Categories(c *fiber.Ctx) error {
	rep, err := h.uc.Categories(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewCategoryHealthResponse(rep))
}

// Summary godoc
// @Summary      Resumen (movimientos, valorización, categorías, lotes por vencer, stock bajo)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from          query  string  false  "Desde"
// @Param        to            query  string  false  "Hasta"
// @Param        warehouse_id  query  string  false  "Bodega para la valorización"
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	from, to, ok := dateRange(c)
	if !ok {
		return validation(c, "from/to deben tener formato YYYY-MM-DD o RFC3339")
	}
	s, err := h.uc.Summary(c.UserContext(), from, to, c.Query("warehouse_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.SummaryResponse{
		GeneratedAt:   s.GeneratedAt,
		Movements:     dto.NewMovementReportResponse(s.Movements),
		Valuation:     dto.NewValuationReportResponse(s.Valuation),
		Categories:    dto.NewCategoryHealthResponse(s.Categories),
		ExpiringLots:  s.ExpiringLots,
		LowStockItems: s.LowStockItems,
	})
}

// Replenishment godoc
// @Summary      Lista de reposición (productos en o bajo su stock mínimo)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega (vacío = stock agregado)"
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return handleError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ProductID:          s.ProductID,
			SKU:                s.SKU,
			ProductName:        s.Name,
			CurrentStock:       s.CurrentStock,
			MinStock:           s.MinStock,
			IdealStock:         s.IdealStock,
			SuggestedOrderQty:  s.SuggestedOrderQty,
			UnitCost:           s.UnitCost,
			EstimatedOrderCost: s.EstimatedOrderCost,
			Priority:           s.Priority,
		})
	}
	return c.JSON(out)
}

// dateRange lee from/to. Una fecha sin hora en "to" cubre el día completo.
func dateRange(c *fiber.Ctx) (from, to time.Time, ok bool) {
	from, ok = parseDate(c.Query("from"), false)
	if !ok {
		return
	}
	to, ok = parseDate(c.Query("to"), true)
	return
}

func parseDate(s string, endOfDay bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

func daysToDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
