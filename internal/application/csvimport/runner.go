package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

var (
	errRevoked     = errors.New("tarea cancelada")
	errInterrupted = errors.New("importación interrumpida por apagado del servicio")
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// Metrics contadores de la importación.
type Metrics interface {
	ImportFinished(dataType string, status entity.TaskStatus)
}

// Runner procesa un trabajo: cada fila se escribe por separado y se reporta el avance.
type Runner struct {
	tasks    repository.AsyncTaskRepository
	mappings repository.CsvMappingRepository
	imports  repository.ImportRepository
	metrics  Metrics
	log      *logger.Logger
}

// NewRunner construye el procesador. metrics puede ser nil.
func NewRunner(tasks repository.AsyncTaskRepository, mappings repository.CsvMappingRepository, imports repository.ImportRepository, metrics Metrics, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{tasks: tasks, mappings: mappings, imports: imports, metrics: metrics, log: log}
}

type columnPlan struct {
	header string
	field  string
	kind   entity.FieldKind
	index  int
	isKey  bool
}

// Run ejecuta el trabajo. ctx se cancela al apagar el servicio: la fila en curso termina
// y la tarea queda en FAILURE.
func (r *Runner) Run(ctx context.Context, job Job) {
	// las escrituras no deben abortar a mitad de fila
	dbCtx := context.WithoutCancel(ctx)
	log := r.log.WithComponent("csvimport")

	ok, err := r.tasks.Transition(dbCtx, job.TaskID, []entity.TaskStatus{entity.TaskPending}, entity.TaskStarted)
	if err != nil {
		log.Error().Err(err).Str("task_id", job.TaskID).Msg("no se pudo iniciar la tarea")
		return
	}
	if !ok {
		log.Info().Str("task_id", job.TaskID).Msg("tarea no pendiente; se descarta el trabajo")
		return
	}

	res, total, err := r.process(ctx, dbCtx, job)
	status := entity.TaskSuccess
	switch {
	case errors.Is(err, errRevoked):
		log.Info().Str("task_id", job.TaskID).Int("created", res.Created).Int("updated", res.Updated).
			Msg("importación cancelada; las filas procesadas se conservan")
		r.finished(job.DataType, entity.TaskRevoked)
		return
	case err != nil:
		status = entity.TaskFailure
		res.Error = err.Error()
	case len(res.Errors) > 0:
		status = entity.TaskFailure
	}
	applied, ferr := r.tasks.Finish(dbCtx, job.TaskID, status, total, res)
	if ferr != nil {
		log.Error().Err(ferr).Str("task_id", job.TaskID).Msg("no se pudo guardar el resultado de la tarea")
		return
	}
	if !applied {
		log.Info().Str("task_id", job.TaskID).Msg("la tarea fue cancelada antes de finalizar")
		r.finished(job.DataType, entity.TaskRevoked)
		return
	}
	r.finished(job.DataType, status)
	log.Info().Str("task_id", job.TaskID).Str("status", string(status)).
		Int("created", res.Created).Int("updated", res.Updated).Int("errors", len(res.Errors)).
		Msg("importación finalizada")
}

func (r *Runner) finished(dataType string, status entity.TaskStatus) {
	if r.metrics != nil {
		r.metrics.ImportFinished(dataType, status)
	}
}

func (r *Runner) process(ctx, dbCtx context.Context, job Job) (*entity.ImportResult, int, error) {
	res := &entity.ImportResult{Errors: []string{}}
	target, ok := entity.ImportTargets[job.DataType]
	if !ok {
		return res, 0, fmt.Errorf("tipo de dato no importable: %q", job.DataType)
	}
	mappings, err := r.mappings.ListActive(dbCtx, job.DataType)
	if err != nil {
		return res, 0, fmt.Errorf("leer mapeos CSV: %w", err)
	}
	if len(mappings) == 0 {
		return res, 0, fmt.Errorf("no hay mapeos CSV activos para %q", job.DataType)
	}
	sort.SliceStable(mappings, func(i, j int) bool { return mappings[i].Order < mappings[j].Order })

	reader, err := decoder(job.Content, job.Encoding)
	if err != nil {
		return res, 0, err
	}
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return res, 0, fmt.Errorf("archivo CSV ilegible: %w", err)
	}
	if len(records) == 0 {
		return res, 0, fmt.Errorf("el archivo no tiene encabezados")
	}

	headerIdx := map[string]int{}
	for i, h := range records[0] {
		headerIdx[strings.TrimSpace(h)] = i
	}
	var cols []columnPlan
	var keys []string
	for _, m := range mappings {
		kind, ok := target.Columns[m.ModelField]
		if !ok {
			return res, 0, fmt.Errorf("el campo %q no es importable para %q", m.ModelField, job.DataType)
		}
		idx, ok := headerIdx[m.CsvHeader]
		if !ok {
			idx = -1
		}
		cols = append(cols, columnPlan{header: m.CsvHeader, field: m.ModelField, kind: kind, index: idx, isKey: m.IsUpdateKey})
		if m.IsUpdateKey {
			keys = append(keys, m.ModelField)
		}
	}
	if len(keys) == 0 {
		return res, 0, fmt.Errorf("no hay clave de actualización configurada en los mapeos de %q", job.DataType)
	}

	rows := records[1:]
	total := len(rows)
	if err := r.tasks.SetTotal(dbCtx, job.TaskID, total); err != nil {
		return res, 0, fmt.Errorf("guardar total: %w", err)
	}

	for i, rec := range rows {
		line := i + 2 // el encabezado es la línea 1
		if ctx.Err() != nil {
			return res, total, errInterrupted
		}
		t, err := r.tasks.GetByID(dbCtx, job.TaskID)
		if err != nil {
			return res, total, fmt.Errorf("leer estado de la tarea: %w", err)
		}
		if t == nil || t.Status == entity.TaskRevoked {
			return res, total, errRevoked
		}

		keyVals, values, rowErrs := convertRow(cols, rec)
		switch {
		case len(rowErrs) > 0:
			res.Errors = append(res.Errors, fmt.Sprintf("行 %d: %s", line, strings.Join(rowErrs, "; ")))
		case len(keyVals) != len(keys):
			res.Errors = append(res.Errors, fmt.Sprintf("行 %d: la clave de actualización (%s) está vacía o no existe", line, strings.Join(keys, ", ")))
		default:
			created, err := r.imports.UpsertRow(dbCtx, target, keyVals, values)
			switch {
			case err != nil:
				res.Errors = append(res.Errors, fmt.Sprintf("行 %d (%s): error al guardar - %v", line, describeKeys(keys, keyVals), err))
			case created:
				res.Created++
			default:
				res.Updated++
			}
		}
		if err := r.tasks.UpdateProgress(dbCtx, job.TaskID, i+1); err != nil {
			r.log.Warn().Err(err).Str("task_id", job.TaskID).Msg("no se pudo actualizar el avance")
		}
	}
	return res, total, nil
}

// convertRow separa claves y valores no vacíos de una fila. Las celdas vacías se omiten.
func convertRow(cols []columnPlan, rec []string) (map[string]any, map[string]any, []string) {
	keyVals := map[string]any{}
	values := map[string]any{}
	var errs []string
	for _, c := range cols {
		if c.index < 0 || c.index >= len(rec) {
			continue
		}
		raw := strings.TrimSpace(rec[c.index])
		if raw == "" {
			continue
		}
		v, err := convertValue(c.kind, raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("campo '%s' valor '%s' con tipo inválido: %v", c.header, raw, err))
			continue
		}
		if c.isKey {
			keyVals[c.field] = v
		} else {
			values[c.field] = v
		}
	}
	return keyVals, values, errs
}

func describeKeys(keys []string, vals map[string]any) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, vals[k]))
	}
	return strings.Join(parts, ", ")
}
