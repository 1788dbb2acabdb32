package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// PurchaseOrderHandler ciclo de vida de órdenes de compra.
type PurchaseOrderHandler struct {
	uc *inventory.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *inventory.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Orden"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindBody(c, &in); err != nil {
		return bodyError(c, err)
	}
	items := make([]inventory.CreatePOItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.CreatePOItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		})
	}
	po, err := h.uc.Create(c.UserContext(), inventory.CreatePOInput{
		SupplierID:   in.SupplierID,
		WarehouseID:  in.WarehouseID,
		Currency:     in.Currency,
		TaxRate:      in.TaxRate,
		ShippingCost: in.ShippingCost,
		Notes:        in.Notes,
		CreatedBy:    GetUserID(c),
		Items:        items,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPurchaseOrderResponse(po))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.PurchaseOrderListResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	status := entity.POStatus(strings.ToUpper(c.Query("status")))
	if status != "" && !status.Valid() {
		return validation(c, "status inválido")
	}
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.UserContext(), status, limit, offset)
	if err != nil {
		return handleError(c, err)
	}
	out := dto.PurchaseOrderListResponse{
		Items: make([]dto.PurchaseOrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, po := range list {
		out.Items = append(out.Items, *dto.NewPurchaseOrderResponse(po))
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar orden al proveedor (DRAFT -> SENT)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	po, err := h.uc.Send(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Confirm godoc
// @Summary      Confirmar orden (SENT -> CONFIRMED); el usuario del token queda como aprobador
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *fiber.Ctx) error {
	po, err := h.uc.Confirm(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Receive godoc
// @Summary      Recibir mercancía (parcial o total)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        Idempotency-Key  header  string  false  "Clave de recepción (alternativa a receipt_id)"
// @Param        body  body  dto.ReceiveItemsRequest  true  "Cantidades recibidas"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveItemsRequest
	if err := bindBody(c, &in); err != nil {
		return bodyError(c, err)
	}
	key := in.ReceiptID
	if key == "" {
		key = c.Get("Idempotency-Key")
	}
	po, err := h.uc.ReceiveItemsOnce(c.UserContext(), c.Params("id"), GetUserID(c), key, receiveLines(in))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Cancel godoc
// @Summary      Cancelar orden (no revierte lo recibido)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	po, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Delete godoc
// @Summary      Eliminar orden en DRAFT
// @Tags         purchase-orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func receiveLines(in dto.ReceiveItemsRequest) []inventory.ReceiveLine {
	lines := make([]inventory.ReceiveLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, inventory.ReceiveLine{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return lines
}
