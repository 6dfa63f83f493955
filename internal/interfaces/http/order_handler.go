package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// OrderHandler pedidos de compra (con recepción) y pedidos de venta.
type OrderHandler struct {
	uc       *usecase.OrderUseCase
	receipts *inventory.ReceiptService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, receipts *inventory.ReceiptService) *OrderHandler {
	return &OrderHandler{uc: uc, receipts: receipts}
}

// CreatePurchaseOrder godoc
// @Summary      Crear pedido de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *OrderHandler) CreatePurchaseOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreatePurchaseOrder(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPurchaseOrders godoc
// @Summary      Listar pedidos de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        order_number     query  string  false  "Coincidencia parcial"
// @Param        supplier_number  query  string  false  "Coincidencia parcial"
// @Param        part_number      query  string  false  "Coincidencia parcial"
// @Param        status           query  string  false  "pending | partially_received | fully_received | canceled"
// @Param        warehouse        query  string  false  "Bodega"
// @Param        limit            query  int     false  "Límite"
// @Param        offset           query  int     false  "Offset"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *OrderHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListPurchaseOrders(c.UserContext(), entity.PurchaseOrderFilter{
		OrderNumber:    c.Query("order_number"),
		SupplierNumber: c.Query("supplier_number"),
		PartNumber:     c.Query("part_number"),
		Status:         c.Query("status"),
		Warehouse:      c.Query("warehouse"),
	}, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPurchaseOrder godoc
// @Summary      Obtener pedido de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *OrderHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetPurchaseOrder(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Registrar recepción
// @Description  Suma la cantidad recibida al pedido y al inventario de la bodega/ubicación y asienta un movimiento incoming.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Purchase order ID"
// @Param        body  body  dto.ReceiveRequest  true  "received_quantity, warehouse, location"
// @Success      200   {object}  dto.ReceiveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ReceiveRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.receipts.Receive(c.UserContext(), inventory.ReceiveInput{
		PurchaseOrderID: id,
		Quantity:        in.ReceivedQuantity,
		Warehouse:       in.Warehouse,
		Location:        in.Location,
		Operator:        operator(c),
		Remarks:         in.Remarks,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReceiveResponse{
		Message:          "recepción registrada",
		OrderNumber:      res.OrderNumber,
		ReceiptID:        res.ReceiptID,
		ReceivedQuantity: res.ReceivedQuantity,
		Status:           res.Status,
	})
}

// Receipts godoc
// @Summary      Recepciones de un pedido de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {array}   dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receipts [get]
func (h *OrderHandler) Receipts(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Receipts(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListSalesOrders godoc
// @Summary      Listar pedidos de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        order_number  query  string  false  "Coincidencia parcial"
// @Param        item          query  string  false  "Coincidencia parcial"
// @Param        status        query  string  false  "Estado"
// @Param        warehouse     query  string  false  "Bodega"
// @Param        limit         query  int     false  "Límite"
// @Param        offset        query  int     false  "Offset"
// @Success      200  {object}  dto.SalesOrderListResponse
// @Router       /api/sales-orders [get]
func (h *OrderHandler) ListSalesOrders(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListSalesOrders(c.UserContext(), entity.SalesOrderFilter{
		OrderNumber: c.Query("order_number"),
		Item:        c.Query("item"),
		Status:      c.Query("status"),
		Warehouse:   c.Query("warehouse"),
	}, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSalesOrder godoc
// @Summary      Obtener pedido de venta
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Sales order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *OrderHandler) GetSalesOrder(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSalesOrder(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
