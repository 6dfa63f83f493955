package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: codeUniqueViolation}, domain.ErrDuplicate},
		{"reserved check", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: constraintReservedMax}, domain.ErrReservedExceedsQuantity},
		{"other check", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "inventory_quantity_check"}, domain.ErrInvalidInput},
		{"lock timeout", &pgconn.PgError{Code: codeLockNotAvailable}, domain.ErrLockContended},
		{"deadlock", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: codeDeadlockDetected}), domain.ErrLockContended},
		{"uuid mal formado", &pgconn.PgError{Code: codeInvalidText}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.want)
		})
	}

	assert.NoError(t, mapError("op", nil))
	plain := errors.New("boom")
	got := mapError("op", plain)
	assert.ErrorIs(t, got, plain)
	assert.Equal(t, "op: boom", got.Error())
}

func TestContendedOnlyTranslatesLockErrors(t *testing.T) {
	assert.ErrorIs(t, contended(&pgconn.PgError{Code: codeLockNotAvailable}), domain.ErrLockContended)
	other := errors.New("otro")
	assert.Equal(t, other, contended(other))
}

func TestWhereBuilder(t *testing.T) {
	var w where
	assert.Equal(t, "", w.sql())
	w.add("part_number ILIKE $%d", likePattern("A_1%"))
	w.add("status = $%d", "pending")
	assert.Equal(t, " WHERE part_number ILIKE $1 AND status = $2", w.sql())
	assert.Equal(t, []any{`%A\_1\%%`, "pending"}, w.args)

	limit, args := w.page(20, 40)
	assert.Equal(t, " LIMIT $3 OFFSET $4", limit)
	assert.Equal(t, []any{`%A\_1\%%`, "pending", 20, 40}, args)
	assert.Len(t, w.args, 2, "page no modifica los argumentos del filtro")
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", migrateURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://x", migrateURL("pgx5://x"))
}

func TestColumnsOfRejectsUnknownColumns(t *testing.T) {
	target := entity.ImportTargets["item"]
	cols, err := columnsOf(target, map[string]any{"name": "a", "code": "b"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"code", "name"}, cols)

	_, err = columnsOf(target, map[string]any{"quantity; DROP TABLE items": 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
