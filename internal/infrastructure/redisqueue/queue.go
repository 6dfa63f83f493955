package redisqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Manufactura-api/internal/application/csvimport"
	"github.com/jhoicas/Manufactura-api/pkg/config"
)

var _ csvimport.Queue = (*Queue)(nil)

// pollTimeout espera máxima de cada BRPOP antes de volver a revisar el contexto.
const pollTimeout = 2 * time.Second

// Queue cola de trabajos de importación sobre una lista Redis (LPUSH / BRPOP).
// Permite que los workers corran en otra instancia del servicio.
type Queue struct {
	client *redis.Client
	key    string
}

// New conecta con Redis y verifica la conexión.
func New(cfg config.RedisConfig) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return NewWithClient(client, cfg.QueueKey), nil
}

// NewWithClient usa un cliente existente.
func NewWithClient(client *redis.Client, key string) *Queue {
	if key == "" {
		key = "manufactura:csv-import"
	}
	return &Queue{client: client, key: key}
}

// Enqueue agrega el trabajo a la cola.
func (q *Queue) Enqueue(ctx context.Context, job csvimport.Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("serializar trabajo: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("encolar trabajo %s: %w", job.TaskID, err)
	}
	return nil
}

// Dequeue bloquea hasta obtener un trabajo o hasta que ctx termine.
func (q *Queue) Dequeue(ctx context.Context) (csvimport.Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return csvimport.Job{}, err
		}
		res, err := q.client.BRPop(ctx, pollTimeout, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return csvimport.Job{}, ctx.Err()
			}
			return csvimport.Job{}, fmt.Errorf("leer cola: %w", err)
		}
		// res = [key, valor]
		var job csvimport.Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return csvimport.Job{}, fmt.Errorf("trabajo ilegible en %s: %w", q.key, err)
		}
		return job, nil
	}
}

// Len trabajos pendientes.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Close cierra el cliente.
func (q *Queue) Close() error {
	return q.client.Close()
}
