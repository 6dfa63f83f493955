package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errorStatus código HTTP y código de error por tipo de dominio.
var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrLockContended, fiber.StatusServiceUnavailable, "LOCK_CONTENDED"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrNotAllocatable, fiber.StatusBadRequest, "NOT_ALLOCATABLE"},
	{domain.ErrTaskNotCancelable, fiber.StatusBadRequest, "TASK_NOT_CANCELABLE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrReservedExceedsQuantity, fiber.StatusConflict, "RESERVED_EXCEEDS_QUANTITY"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

const internalErrorMessage = "error interno del servidor"

// writeError traduce un error de aplicación a la respuesta HTTP.
// El orden de errorStatus importa: un lote rechazado por contención responde 503.
func writeError(c *fiber.Ctx, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: re.code, Message: re.msg, Details: re.details})
	}
	var ae *inventory.AllocationError
	if errors.As(err, &ae) && !errors.Is(err, domain.ErrLockContended) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "ALLOCATION_REJECTED",
			Message: "asignación rechazada; no se reservó ninguna línea",
			Details: ae.Details(),
		})
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.kind) {
			if e.status == fiber.StatusServiceUnavailable {
				c.Set(fiber.HeaderRetryAfter, "1")
			}
			return c.Status(e.status).JSON(dto.ErrorResponse{Code: e.code, Message: domain.Message(err)})
		}
	}
	// el detalle (texto del driver incluido) sólo va al log
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalErrorMessage})
}

// pathID lee un ID de ruta. Todas las claves son UUID: uno mal formado no puede
// existir y se responde 404 sin consultar la base.
func pathID(c *fiber.Ctx, key string) (string, error) {
	id := c.Params(key)
	if len(id) != 36 || uuid.Validate(id) != nil {
		return "", domain.Errorf(domain.ErrNotFound, "%s %q no existe", key, id)
	}
	return id, nil
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// requestError cuerpo ilegible o que no pasa las etiquetas validate.
type requestError struct {
	code    string
	msg     string
	details []string
}

func (e *requestError) Error() string { return e.msg }

// bindAndValidate parsea el body JSON en out y aplica las etiquetas validate.
func bindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &requestError{code: "INVALID_BODY", msg: "cuerpo inválido"}
	}
	if err := validate.Struct(out); err != nil {
		return &requestError{code: "VALIDATION", msg: "datos inválidos", details: validationDetails(err)}
	}
	return nil
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out = append(out, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), rule))
	}
	return out
}

// pageFromQuery lee limit/offset de la query con los valores por defecto.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 25), Offset: c.QueryInt("offset", 0)}
	if page.Limit < 1 || page.Offset < 0 {
		return page, domain.Errorf(domain.ErrInvalidInput, "limit debe ser >= 1 y offset >= 0")
	}
	page.DefaultPage()
	return page, nil
}
