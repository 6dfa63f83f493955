package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// Códigos SQLSTATE usados.
const (
	codeUniqueViolation   = "23505"
	codeCheckViolation    = "23514"
	codeLockNotAvailable  = "55P03"
	codeDeadlockDetected  = "40P01"
	codeInvalidText       = "22P02"
	constraintReservedMax = "inventory_reserved_le_quantity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isLockError indica timeout de bloqueo o interbloqueo detectado por el servidor.
func isLockError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeLockNotAvailable || pgErr.Code == codeDeadlockDetected
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapError traduce errores de PostgreSQL a errores de dominio; el resto se envuelve con op.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return domain.Errorf(domain.ErrDuplicate, "%s: ya existe un registro con esa clave", op)
		case codeCheckViolation:
			if pgErr.ConstraintName == constraintReservedMax {
				return domain.Errorf(domain.ErrReservedExceedsQuantity, "%s: %s", op, domain.ErrReservedExceedsQuantity.Error())
			}
			return domain.Errorf(domain.ErrInvalidInput, "%s: restricción %s violada", op, pgErr.ConstraintName)
		case codeLockNotAvailable, codeDeadlockDetected:
			return domain.Errorf(domain.ErrLockContended, "%s: %s", op, domain.ErrLockContended.Error())
		case codeInvalidText:
			return domain.Errorf(domain.ErrInvalidInput, "%s: valor con formato inválido", op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// likePattern arma un patrón ILIKE de coincidencia parcial escapando comodines.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// where acumula condiciones con placeholders numerados.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET al final de los argumentos.
func (w *where) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)+1, len(w.args)+2), args
}

// newUUID ID para filas creadas por el propio repositorio (UUIDv7, ordenable por tiempo).
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
