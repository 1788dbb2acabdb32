package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// LotHandler lotes y reservas.
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Lote"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := bindBody(c, &in); err != nil {
		return bodyError(c, err)
	}
	l, err := h.uc.Create(c.UserContext(), inventory.CreateLotInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		LotNumber:       in.LotNumber,
		Quantity:        in.Quantity,
		ManufactureDate: in.ManufactureDate,
		ExpiryDate:      in.ExpiryDate,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLotResponse(l))
}

// ListByProduct godoc
// @Summary      Lotes de un producto
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots [get]
func (h *LotHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return validation(c, "product_id es requerido")
	}
	lots, err := h.uc.ListByProduct(c.UserContext(), productID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(lotResponses(lots))
}

// Reserve godoc
// @Summary      Reservar cantidad del lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.LotQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.LotResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/reserve [post]
func (h *LotHandler) Reserve(c *fiber.Ctx) error {
	var in dto.LotQuantityRequest
	if err := bindBody(c, &in); err != nil {
		return bodyError(c, err)
	}
	l, err := h.uc.Reserve(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewLotResponse(l))
}

// Release godoc
// @Summary      Liberar reserva del lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.LotQuantityRequest  true  "Cantidad"
// @Success      200   {object}  dto.LotResponse
// @Router       /api/lots/{id}/release [post]
func (h *LotHandler) Release(c *fiber.Ctx) error {
	var in dto.LotQuantityRequest
	if err := bindBody(c, &in); err != nil {
		return bodyError(c, err)
	}
	l, err := h.uc.Release(c.UserContext(), c.Params("id"), in.Quantity)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewLotResponse(l))
}

// Expiring godoc
// @Summary      Lotes por vencer (dispara avisos)
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (0 = configurada)"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots/expiring [get]
func (h *LotHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	if days < 0 {
		return validation(c, "days no puede ser negativo")
	}
	lots, err := h.uc.CheckExpiring(c.UserContext(), daysToDuration(days))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(lotResponses(lots))
}

func lotResponses(lots []*entity.Lot) []dto.LotResponse {
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, *dto.NewLotResponse(l))
	}
	return out
}
