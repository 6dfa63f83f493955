package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrNotAllocatable          = errors.New("inventario inactivo o no asignable")
	ErrLockContended           = errors.New("recurso bloqueado por otra operación, reintente")
	ErrReservedExceedsQuantity = errors.New("la cantidad reservada excede la existencia")
	ErrTaskNotCancelable       = errors.New("la tarea ya finalizó y no puede cancelarse")
)

// Error asocia un mensaje legible a uno de los errores de dominio.
// errors.Is(err, domain.ErrX) sigue funcionando sobre el valor envuelto.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf construye un *Error del tipo kind con mensaje formateado.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Message devuelve el mensaje legible de err si es un *Error; si no, el del error base.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
