package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Manufactura-api/internal/application/csvimport"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

const namespace = "manufactura"

var (
	_ inventory.Metrics = (*Recorder)(nil)
	_ csvimport.Metrics = (*Recorder)(nil)
)

// Recorder métricas Prometheus del servicio sobre un registro propio.
type Recorder struct {
	registry *prometheus.Registry

	movementsTotal   *prometheus.CounterVec
	movementQuantity *prometheus.CounterVec
	operationErrors  *prometheus.CounterVec
	importsTotal     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewRecorder registra todas las métricas. withRuntime agrega los colectores de Go y del proceso.
func NewRecorder(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		movementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "inventory", Name: "movements_total",
			Help: "Asientos del libro de existencias confirmados, por tipo.",
		}, []string{"movement_type"}),
		movementQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "inventory", Name: "movement_quantity_total",
			Help: "Unidades movidas por tipo de movimiento.",
		}, []string{"movement_type"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "inventory", Name: "operation_errors_total",
			Help: "Operaciones de inventario rechazadas, por operación y tipo de error.",
		}, []string{"operation", "kind"}),
		importsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "csv_import", Name: "tasks_total",
			Help: "Importaciones CSV terminadas, por tipo de dato y estado final.",
		}, []string{"data_type", "status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(r.movementsTotal, r.movementQuantity, r.operationErrors,
		r.importsTotal, r.httpRequests, r.httpDuration)
	if withRuntime {
		r.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return r
}

// Registry registro subyacente (tests).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// MovementRecorded cuenta un asiento confirmado.
func (r *Recorder) MovementRecorded(movementType string, quantity int64) {
	r.movementsTotal.WithLabelValues(movementType).Inc()
	r.movementQuantity.WithLabelValues(movementType).Add(float64(quantity))
}

// OperationFailed cuenta una operación rechazada.
func (r *Recorder) OperationFailed(operation string, err error) {
	r.operationErrors.WithLabelValues(operation, ErrorKind(err)).Inc()
}

// ImportFinished cuenta una importación terminada.
func (r *Recorder) ImportFinished(dataType string, status entity.TaskStatus) {
	r.importsTotal.WithLabelValues(dataType, string(status)).Inc()
}

// ErrorKind etiqueta de baja cardinalidad para un error.
func ErrorKind(err error) string {
	var allocErr *inventory.AllocationError
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrLockContended):
		return "lock_contended"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotAllocatable):
		return "not_allocatable"
	case errors.As(err, &allocErr):
		return "allocation_rejected"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrReservedExceedsQuantity):
		return "conflict"
	default:
		return "internal"
	}
}

// Middleware mide cada petición por método, ruta registrada y código de estado.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		r.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registro en formato Prometheus.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
