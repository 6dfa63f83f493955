package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.AsyncTaskRepository = (*AsyncTaskRepo)(nil)

// AsyncTaskRepo estado de tareas asíncronas. Las transiciones son UPDATE condicionales sobre
// el estado actual, de modo que un worker y una cancelación concurrente no se pisan.
type AsyncTaskRepo struct {
	q Querier
}

// NewAsyncTaskRepository construye el adaptador.
func NewAsyncTaskRepository(q Querier) *AsyncTaskRepo {
	return &AsyncTaskRepo{q: q}
}

// Create persiste una tarea nueva.
func (r *AsyncTaskRepo) Create(ctx context.Context, t *entity.AsyncTask) error {
	result, err := marshalResult(t.Result)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO async_tasks (task_id, name, data_type, status, progress, total, result, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Name, t.DataType, string(t.Status), t.Progress, t.Total, result, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	return mapError("insert async task", err)
}

// GetByID obtiene una tarea.
func (r *AsyncTaskRepo) GetByID(ctx context.Context, id string) (*entity.AsyncTask, error) {
	var (
		t      entity.AsyncTask
		status string
		raw    []byte
	)
	err := r.q.QueryRow(ctx, `
		SELECT task_id::TEXT, name, data_type, status, progress, total, result, created_by::TEXT, created_at, updated_at
		FROM async_tasks WHERE task_id = $1`, id).Scan(
		&t.ID, &t.Name, &t.DataType, &status, &t.Progress, &t.Total, &raw, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError("get async task", err)
	}
	t.Status = entity.TaskStatus(status)
	if len(raw) > 0 {
		var res entity.ImportResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, fmt.Errorf("decode async task result: %w", err)
		}
		t.Result = &res
	}
	return &t, nil
}

// Transition cambia a to solo si el estado actual está en from.
func (r *AsyncTaskRepo) Transition(ctx context.Context, id string, from []entity.TaskStatus, to entity.TaskStatus) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE async_tasks SET status = $2, updated_at = $3
		WHERE task_id = $1 AND status = ANY($4)`,
		id, string(to), time.Now().UTC(), statusStrings(from))
	if err != nil {
		return false, mapError("transition async task", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// SetTotal fija el total de filas a procesar.
func (r *AsyncTaskRepo) SetTotal(ctx context.Context, id string, total int) error {
	_, err := r.q.Exec(ctx, `UPDATE async_tasks SET total = $2, updated_at = $3 WHERE task_id = $1`,
		id, total, time.Now().UTC())
	return mapError("set async task total", err)
}

// UpdateProgress avanza el progreso de una tarea en ejecución.
func (r *AsyncTaskRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	_, err := r.q.Exec(ctx, `
		UPDATE async_tasks SET progress = $2, updated_at = $3
		WHERE task_id = $1 AND status = $4`,
		id, progress, time.Now().UTC(), string(entity.TaskStarted))
	return mapError("update async task progress", err)
}

// Finish cierra la tarea con su resultado si sigue en STARTED o PENDING.
func (r *AsyncTaskRepo) Finish(ctx context.Context, id string, status entity.TaskStatus, progress int, result *entity.ImportResult) (bool, error) {
	raw, err := marshalResult(result)
	if err != nil {
		return false, err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE async_tasks SET status = $2, progress = $3, result = $4, updated_at = $5
		WHERE task_id = $1 AND status = ANY($6)`,
		id, string(status), progress, raw, time.Now().UTC(),
		statusStrings([]entity.TaskStatus{entity.TaskStarted, entity.TaskPending}))
	if err != nil {
		return false, mapError("finish async task", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func marshalResult(res *entity.ImportResult) ([]byte, error) {
	if res == nil {
		return nil, nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode async task result: %w", err)
	}
	return raw, nil
}

func statusStrings(in []entity.TaskStatus) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
