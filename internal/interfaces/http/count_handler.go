package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/reporting"
)

// CountHandler sesiones de conteo físico.
type CountHandler struct {
	uc      *inventory.CountUseCase
	reports *reporting.ReportUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(uc *inventory.CountUseCase, reports *reporting.ReportUseCase) *CountHandler {
	return &CountHandler{uc: uc, reports: reports}
}

// Start godoc
// @Summary      Abrir sesión de conteo (snapshot del stock)
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartCountRequest  false  "Bodega (vacío = global)"
// @Success      201   {object}  dto.CountSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *CountHandler) Start(c *fiber.Ctx) error {
	var in dto.StartCountRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return bodyError(c, err)
		}
	}
	s, err := h.uc.Start(c.UserContext(), in.WarehouseID, GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCountSessionResponse(s))
}

// GetByID godoc
// @Summary      Obtener sesión de conteo (incluye el siguiente producto pendiente)
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewCountSessionResponse(s))
}

// Record godoc
// @Summary      Registrar cantidad contada de un producto
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.RecordCountRequest  true  "Conteo"
// @Success      200   {object}  dto.CountSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/lines [post]
func (h *CountHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := bindBody(c, &in); err != nil {
		return bodyError(c, err)
	}
	s, err := h.uc.RecordCount(c.UserContext(), c.Params("id"), in.ProductID, in.CountedStock)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewCountSessionResponse(s))
}

// Finish godoc
// @Summary      Cerrar conteo y aplicar correcciones
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountReportResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/finish [post]
func (h *CountHandler) Finish(c *fiber.Ctx) error {
	rep, err := h.uc.Finish(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewCountReportResponse(rep))
}

// Cancel godoc
// @Summary      Cancelar conteo sin tocar stock
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/cancel [post]
func (h *CountHandler) Cancel(c *fiber.Ctx) error {
	s, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewCountSessionResponse(s))
}

// Report godoc
// @Summary      Reporte de conciliación de una sesión
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/report [get]
func (h *CountHandler) Report(c *fiber.Ctx) error {
	rep, err := h.uc.Report(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewCountReportResponse(rep))
}

// ReportPDF godoc
// @Summary      Reporte de conciliación en PDF
// @Tags         counts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/report.pdf [get]
func (h *CountHandler) ReportPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.reports.CountReportPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
