package csvimport

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// Pool trabajadores que consumen la cola de importación.
type Pool struct {
	queue   Queue
	runner  *Runner
	workers int
	log     *logger.Logger
	wg      sync.WaitGroup
}

// NewPool construye el pool con n trabajadores (mínimo 1).
func NewPool(queue Queue, runner *Runner, n int, log *logger.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pool{queue: queue, runner: runner, workers: n, log: log}
}

// Start lanza los trabajadores; terminan cuando ctx se cancela.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.loop(ctx, i)
	}
	p.log.Info().Int("workers", p.workers).Msg("trabajadores de importación iniciados")
}

// Wait espera a que terminen los trabajos en curso.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) loop(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Error().Err(err).Int("worker", id).Msg("error leyendo la cola de importación")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		p.runner.Run(ctx, job)
	}
}
