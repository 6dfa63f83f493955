package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// InventoryHandler consultas de inventario, libro de movimientos y traslados.
type InventoryHandler struct {
	uc         *inventory.InventoryUseCase
	relocation *inventory.RelocationService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase, relocation *inventory.RelocationService) *InventoryHandler {
	return &InventoryHandler{uc: uc, relocation: relocation}
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        part_number      query  string  false  "Coincidencia parcial"
// @Param        warehouse        query  string  false  "Coincidencia parcial"
// @Param        location         query  string  false  "Coincidencia parcial"
// @Param        hide_zero_stock  query  bool    false  "Ocultar existencia cero"
// @Param        limit            query  int     false  "Límite (default 25)"
// @Param        offset           query  int     false  "Offset"
// @Success      200  {object}  dto.InventoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	f := entity.InventoryFilter{
		PartNumber:    c.Query("part_number"),
		Warehouse:     c.Query("warehouse"),
		Location:      c.Query("location"),
		HideZeroStock: c.QueryBool("hide_zero_stock", false),
	}
	out, err := h.uc.List(c.UserContext(), f, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener registro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Inventory ID"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByLocation godoc
// @Summary      Inventario de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse  query  string  true   "Bodega"
// @Param        location   query  string  false  "Ubicación (vacía = sin ubicación)"
// @Success      200  {array}   dto.InventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/by-location [get]
func (h *InventoryHandler) ByLocation(c *fiber.Ctx) error {
	out, err := h.uc.ByLocation(c.UserContext(), c.Query("warehouse"), c.Query("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ShelfLabels godoc
// @Summary      Etiquetas QR de estantería
// @Description  PDF con un QR por ubicación de la bodega.
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse  query  string  true  "Bodega"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/shelf-labels.pdf [get]
func (h *InventoryHandler) ShelfLabels(c *fiber.Ctx) error {
	warehouse := c.Query("warehouse")
	pdf, err := h.uc.ShelfLabels(c.UserContext(), warehouse)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="etiquetas-%s.pdf"`, warehouse))
	return c.Send(pdf)
}

// Move godoc
// @Summary      Trasladar existencias
// @Description  Mueve cantidad de un registro a otra bodega/ubicación con asientos outgoing e incoming.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Inventory ID origen"
// @Param        body  body  dto.MoveInventoryRequest  true  "quantity, target_warehouse, target_location"
// @Success      200   {object}  dto.MoveInventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/move [post]
func (h *InventoryHandler) Move(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MoveInventoryRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.relocation.Move(c.UserContext(), inventory.MoveInput{
		InventoryID:     id,
		Quantity:        in.Quantity,
		TargetWarehouse: in.TargetWarehouse,
		TargetLocation:  in.TargetLocation,
		Operator:        operator(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MoveInventoryResponse{
		Message:           "traslado registrado",
		SourceInventoryID: res.Source.ID,
		SourceQuantity:    res.Source.Quantity,
		TargetInventoryID: res.Destination.ID,
		TargetQuantity:    res.Destination.Quantity,
		MovedQuantity:     in.Quantity,
	})
}

// Movements godoc
// @Summary      Libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        part_number         query  string  false  "Coincidencia parcial"
// @Param        warehouse           query  string  false  "Coincidencia parcial"
// @Param        movement_type       query  string  false  "incoming | outgoing | used | PRODUCTION_OUTPUT | PRODUCTION_REVERSAL | adjustment"
// @Param        reference_document  query  string  false  "Coincidencia parcial"
// @Param        from                query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to                  query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit               query  int     false  "Límite"
// @Param        offset              query  int     false  "Offset"
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	f := entity.StockMovementFilter{
		PartNumber:        c.Query("part_number"),
		Warehouse:         c.Query("warehouse"),
		MovementType:      c.Query("movement_type"),
		ReferenceDocument: c.Query("reference_document"),
	}
	if f.From, err = queryTime(c, "from", false); err != nil {
		return writeError(c, err)
	}
	if f.To, err = queryTime(c, "to", true); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Movements(c.UserContext(), f, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// queryTime acepta fecha o fecha-hora. Con endOfDay una fecha sola cubre el día completo.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "%s: fecha inválida %q", key, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
