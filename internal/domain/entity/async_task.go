package entity

import (
	"fmt"
	"time"
)

// TaskStatus estado de una tarea asíncrona.
type TaskStatus string

// Estados de AsyncTask.
const (
	TaskPending TaskStatus = "PENDING"
	TaskStarted TaskStatus = "STARTED"
	TaskSuccess TaskStatus = "SUCCESS"
	TaskFailure TaskStatus = "FAILURE"
	TaskRevoked TaskStatus = "REVOKED"
)

// taskTransitions transiciones permitidas; los estados terminales no tienen salida.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending: {TaskStarted, TaskRevoked, TaskFailure},
	TaskStarted: {TaskSuccess, TaskFailure, TaskRevoked},
}

// CanTransitionTo indica si el paso s -> next es válido.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, t := range taskTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado no admite más transiciones.
func (s TaskStatus) IsTerminal() bool {
	return len(taskTransitions[s]) == 0
}

// SourcesOf devuelve los estados desde los que se puede llegar a next.
func SourcesOf(next TaskStatus) []TaskStatus {
	var out []TaskStatus
	for _, from := range []TaskStatus{TaskPending, TaskStarted} {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}

// ImportResult resultado de una importación CSV.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
	Error   string   `json:"error,omitempty"` // fallo global (sin mapeos, archivo ilegible...)
}

// AsyncTask estado observable de una tarea ejecutada fuera del hilo de la petición.
type AsyncTask struct {
	ID        string // task_id opaco
	Name      string
	DataType  string
	Status    TaskStatus
	Progress  int
	Total     int
	Result    *ImportResult
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transition aplica el cambio de estado en memoria si es válido.
func (t *AsyncTask) Transition(next TaskStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("transición inválida %s -> %s", t.Status, next)
	}
	t.Status = next
	return nil
}
