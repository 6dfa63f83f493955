package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
)

// WarehouseHandler maestro de bodegas.
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Número, nombre y ubicación"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	created, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetByID godoc
// @Summary      Bodega por ID
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	return h.respond(c, func() (*dto.WarehouseResponse, error) {
		id, err := pathID(c, "id")
		if err != nil {
			return nil, err
		}
		return h.uc.GetByID(c.UserContext(), id)
	})
}

// GetByNumber godoc
// @Summary      Bodega por número (ej. FG-MAIN)
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de bodega"
// @Success      200     {object}  dto.WarehouseResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/warehouses/by-number/{number} [get]
func (h *WarehouseHandler) GetByNumber(c *fiber.Ctx) error {
	return h.respond(c, func() (*dto.WarehouseResponse, error) {
		return h.uc.GetByNumber(c.UserContext(), c.Params("number"))
	})
}

// List godoc
// @Summary      Listar bodegas
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(25)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.WarehouseListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func (h *WarehouseHandler) respond(c *fiber.Ctx, get func() (*dto.WarehouseResponse, error)) error {
	w, err := get()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(w)
}
