package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/displayconfig"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
)

// SettingsHandler configuración de pantallas y reglas de acción QR.
type SettingsHandler struct {
	display *displayconfig.Table
	qr      *usecase.QrActionUseCase
}

// NewSettingsHandler construye el handler. display es la tabla cargada al arrancar.
func NewSettingsHandler(display *displayconfig.Table, qr *usecase.QrActionUseCase) *SettingsHandler {
	return &SettingsHandler{display: display, qr: qr}
}

// Display godoc
// @Summary      Configuración de presentación de un modelo
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        model  path  string  true  "Modelo (p. ej. inventory)"
// @Success      200  {object}  dto.DisplayConfigResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/display/{model} [get]
func (h *SettingsHandler) Display(c *fiber.Ctx) error {
	name := c.Params("model")
	m, ok := h.display.Get(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay configuración para el modelo " + name})
	}
	out := dto.DisplayConfigResponse{
		Model:        m.Name,
		ListDisplay:  make([]dto.DisplayFieldResponse, len(m.ListDisplay)),
		SearchFields: m.SearchFields,
		ListFilter:   m.ListFilter,
	}
	for i, f := range m.ListDisplay {
		out.ListDisplay[i] = dto.DisplayFieldResponse{FieldName: f.Name, DisplayName: f.DisplayName, Order: f.Order}
	}
	return c.JSON(out)
}

// CreateQrAction godoc
// @Summary      Registrar regla de acción QR
// @Description  La regla se compila al guardar; claves, acciones o referencias desconocidas se rechazan.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQrActionRequest  true  "Regla"
// @Success      201   {object}  dto.QrActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settings/qr-actions [post]
func (h *SettingsHandler) CreateQrAction(c *fiber.Ctx) error {
	var in dto.CreateQrActionRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.qr.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListQrActions godoc
// @Summary      Listar reglas de acción QR
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.QrActionResponse
// @Router       /api/settings/qr-actions [get]
func (h *SettingsHandler) ListQrActions(c *fiber.Ctx) error {
	out, err := h.qr.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MatchQr godoc
// @Summary      Resolver un código QR escaneado
// @Description  Primera regla activa (por prioridad) cuyo patrón coincide, con sus parámetros resueltos.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QrMatchRequest  true  "qr_data"
// @Success      200   {object}  qrrule.Result
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/settings/qr-actions/match [post]
func (h *SettingsHandler) MatchQr(c *fiber.Ctx) error {
	var in dto.QrMatchRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.qr.Match(c.UserContext(), in.Data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
