package csvimport

import (
	"context"
	"errors"
)

// Job trabajo de importación encolado. Content lleva el archivo completo tal como se subió.
type Job struct {
	TaskID   string `json:"task_id"`
	DataType string `json:"data_type"`
	Encoding string `json:"encoding"`
	Content  []byte `json:"content"`
}

// Queue cola de trabajos de importación. Dequeue bloquea hasta que haya un trabajo o ctx termine.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (Job, error)
}

// ErrQueueFull la cola en memoria no admite más trabajos.
var ErrQueueFull = errors.New("cola de importación llena")

// MemoryQueue cola dentro del proceso; se usa cuando no hay Redis configurado.
type MemoryQueue struct {
	ch chan Job
}

// NewMemoryQueue crea una cola con capacidad size.
func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{ch: make(chan Job, size)}
}

// Enqueue no bloquea: con la cola llena devuelve ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job := <-q.ch:
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}
