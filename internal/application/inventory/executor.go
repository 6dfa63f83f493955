package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// Executor envuelve TxRunner: lleva el diario de asientos de la operación, registra métricas
// y publica los movimientos solo después del Commit.
type Executor struct {
	tx        TxRunner
	publisher MovementPublisher
	metrics   Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewExecutor construye el ejecutor. publisher y metrics pueden ser nil.
func NewExecutor(tx TxRunner, publisher MovementPublisher, metrics Metrics, log *logger.Logger) *Executor {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{tx: tx, publisher: publisher, metrics: metrics, log: log, now: time.Now}
}

// Now hora actual del ejecutor (reemplazable en tests).
func (e *Executor) Now() time.Time { return e.now() }

// SetClock fija el reloj; solo para tests.
func (e *Executor) SetClock(now func() time.Time) { e.now = now }

// Execute corre fn en una transacción. op nombra la operación en métricas y logs.
func (e *Executor) Execute(ctx context.Context, op string, fn func(r Repos, j *Journal) error) error {
	var j *Journal
	err := e.tx.Run(ctx, func(r Repos) error {
		// un reintento del runner empieza con diario vacío
		j = &Journal{now: e.now}
		return fn(r, j)
	})
	if err != nil {
		e.metrics.OperationFailed(op, err)
		return err
	}
	if j == nil || len(j.movs) == 0 {
		return nil
	}
	for _, m := range j.movs {
		e.metrics.MovementRecorded(m.MovementType, m.Quantity)
	}
	if e.publisher != nil {
		if perr := e.publisher.PublishMovements(ctx, j.movs); perr != nil {
			e.log.Warn().Err(perr).Str("operation", op).Int("movements", len(j.movs)).
				Msg("no se pudieron publicar los movimientos confirmados")
		}
	}
	return nil
}

// Journal acumula los asientos escritos durante una transacción.
type Journal struct {
	now  func() time.Time
	movs []*entity.StockMovement
}

// Record completa ID y fecha del asiento, lo inserta y lo anota en el diario.
func (j *Journal) Record(ctx context.Context, r Repos, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.MovementDate.IsZero() {
		m.MovementDate = j.now()
	}
	if err := r.Movements.Create(ctx, m); err != nil {
		return err
	}
	j.movs = append(j.movs, m)
	return nil
}

// Movements asientos registrados hasta el momento.
func (j *Journal) Movements() []*entity.StockMovement { return j.movs }

// NewID genera un identificador UUIDv7 (ordenable por tiempo).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// newAllocationID UUIDv4 para asignaciones: el número de pedido interno toma los
// primeros 15 hex del ID y en un v7 esos son casi todo marca de tiempo.
func newAllocationID() string { return uuid.NewString() }
