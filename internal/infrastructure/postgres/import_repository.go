package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.ImportRepository = (*ImportRepo)(nil)

// ImportRepo escritura de filas importadas. Tabla y columnas salen solo de entity.ImportTargets;
// los valores van siempre como parámetros.
type ImportRepo struct {
	pool *pgxpool.Pool
}

// NewImportRepository construye el adaptador.
func NewImportRepository(pool *pgxpool.Pool) *ImportRepo {
	return &ImportRepo{pool: pool}
}

// UpsertRow busca la fila por keys (bloqueándola) y la actualiza, o la inserta si no existe.
func (r *ImportRepo) UpsertRow(ctx context.Context, target *entity.ImportTarget, keys, values map[string]any) (bool, error) {
	if len(keys) == 0 {
		return false, domain.Errorf(domain.ErrInvalidInput, "upsert %s: sin clave de actualización", target.Table)
	}
	keyCols, err := columnsOf(target, keys)
	if err != nil {
		return false, err
	}
	valCols, err := columnsOf(target, values)
	if err != nil {
		return false, err
	}
	table := pgx.Identifier{target.Table}.Sanitize()

	created := false
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		conds := make([]string, len(keyCols))
		args := make([]any, len(keyCols))
		for i, c := range keyCols {
			conds[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), i+1)
			args[i] = keys[c]
		}
		rows, err := tx.Query(ctx, `SELECT id::TEXT FROM `+table+` WHERE `+strings.Join(conds, " AND ")+` LIMIT 2 FOR UPDATE`, args...)
		if err != nil {
			return mapError("find import row", err)
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return mapError("find import row", err)
		}

		switch len(ids) {
		case 0:
			created = true
			cols := append([]string{"id"}, keyCols...)
			cols = append(cols, valCols...)
			vals := []any{newUUID()}
			for _, c := range keyCols {
				vals = append(vals, keys[c])
			}
			for _, c := range valCols {
				vals = append(vals, values[c])
			}
			_, err := tx.Exec(ctx, `INSERT INTO `+table+` (`+quoteAll(cols)+`) VALUES (`+placeholders(len(vals))+`)`, vals...)
			return mapError("insert import row", err)
		case 1:
			if len(valCols) == 0 {
				return nil
			}
			sets := make([]string, len(valCols))
			vals := make([]any, 0, len(valCols)+1)
			for i, c := range valCols {
				sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), i+1)
				vals = append(vals, values[c])
			}
			vals = append(vals, ids[0])
			_, err := tx.Exec(ctx, `UPDATE `+table+` SET `+strings.Join(sets, ", ")+fmt.Sprintf(` WHERE id = $%d`, len(vals)), vals...)
			return mapError("update import row", err)
		default:
			return domain.Errorf(domain.ErrConflict, "la clave coincide con varias filas de %s", target.Table)
		}
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// columnsOf valida las columnas contra la lista blanca y las devuelve ordenadas.
func columnsOf(target *entity.ImportTarget, m map[string]any) ([]string, error) {
	cols := make([]string, 0, len(m))
	for c := range m {
		if _, ok := target.Columns[c]; !ok {
			return nil, domain.Errorf(domain.ErrInvalidInput, "columna %q no importable en %s", c, target.Table)
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols, nil
}

func quoteAll(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(out, ", ")
}

func placeholders(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(out, ", ")
}
