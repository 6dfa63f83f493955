package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// AsyncTaskRepository estado persistido de tareas asíncronas.
// Las transiciones son condicionales: solo se aplican si el estado actual está en from.
type AsyncTaskRepository interface {
	Create(ctx context.Context, t *entity.AsyncTask) error
	GetByID(ctx context.Context, id string) (*entity.AsyncTask, error)
	Transition(ctx context.Context, id string, from []entity.TaskStatus, to entity.TaskStatus) (bool, error)
	SetTotal(ctx context.Context, id string, total int) error
	// UpdateProgress solo avanza tareas en STARTED.
	UpdateProgress(ctx context.Context, id string, progress int) error
	// Finish pasa de STARTED (o PENDING) al estado final con su resultado.
	Finish(ctx context.Context, id string, status entity.TaskStatus, progress int, result *entity.ImportResult) (bool, error)
}
