package csvimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// SubmitInput archivo subido para importar.
type SubmitInput struct {
	DataType string
	Encoding string
	FileName string
	Content  []byte
	UserID   *string
}

// Service alta, consulta y cancelación de tareas de importación CSV.
type Service struct {
	tasks    repository.AsyncTaskRepository
	mappings repository.CsvMappingRepository
	queue    Queue
	maxBytes int
	log      *logger.Logger
}

// NewService construye el servicio. maxBytes <= 0 deshabilita el límite de tamaño.
func NewService(tasks repository.AsyncTaskRepository, mappings repository.CsvMappingRepository, queue Queue, maxBytes int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{tasks: tasks, mappings: mappings, queue: queue, maxBytes: maxBytes, log: log}
}

// Submit registra la tarea en PENDING y la encola. Devuelve la tarea creada.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*entity.AsyncTask, error) {
	if _, ok := entity.ImportTargets[in.DataType]; !ok {
		return nil, domain.Errorf(domain.ErrInvalidInput, "tipo de dato no importable: %q", in.DataType)
	}
	if len(in.Content) == 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, "el archivo está vacío")
	}
	if s.maxBytes > 0 && len(in.Content) > s.maxBytes {
		return nil, domain.Errorf(domain.ErrInvalidInput, "el archivo excede el tamaño máximo de %d bytes", s.maxBytes)
	}
	enc := NormalizeEncoding(in.Encoding)
	if enc == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "codificación no soportada: %q", in.Encoding)
	}

	now := nowUTC()
	task := &entity.AsyncTask{
		ID:        inventory.NewID(),
		Name:      fmt.Sprintf("Importación CSV de %s (%s)", in.DataType, in.FileName),
		DataType:  in.DataType,
		Status:    entity.TaskPending,
		CreatedBy: in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("crear tarea: %w", err)
	}
	if err := s.queue.Enqueue(ctx, Job{TaskID: task.ID, DataType: in.DataType, Encoding: enc, Content: in.Content}); err != nil {
		res := &entity.ImportResult{Error: "no se pudo encolar la importación: " + err.Error()}
		if _, ferr := s.tasks.Finish(ctx, task.ID, entity.TaskFailure, 0, res); ferr != nil {
			s.log.Error().Err(ferr).Str("task_id", task.ID).Msg("no se pudo marcar la tarea como fallida")
		}
		return nil, fmt.Errorf("encolar importación: %w", err)
	}
	s.log.Info().Str("task_id", task.ID).Str("data_type", in.DataType).Int("bytes", len(in.Content)).Msg("importación encolada")
	return task, nil
}

// Poll devuelve el estado actual de la tarea.
func (s *Service) Poll(ctx context.Context, taskID string) (*entity.AsyncTask, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("obtener tarea: %w", err)
	}
	if t == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "tarea %s no encontrada", taskID)
	}
	return t, nil
}

// Cancel pasa la tarea a REVOKED si sigue en PENDING o STARTED. El trabajador lo detecta
// entre filas; las filas ya escritas permanecen.
func (s *Service) Cancel(ctx context.Context, taskID string) (*entity.AsyncTask, error) {
	ok, err := s.tasks.Transition(ctx, taskID, entity.SourcesOf(entity.TaskRevoked), entity.TaskRevoked)
	if err != nil {
		return nil, fmt.Errorf("cancelar tarea: %w", err)
	}
	t, err := s.Poll(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Errorf(domain.ErrTaskNotCancelable, "la tarea %s está en estado %s y no puede cancelarse", taskID, t.Status)
	}
	s.log.Info().Str("task_id", taskID).Msg("importación cancelada")
	return t, nil
}

// Template CSV con BOM UTF-8 y la fila de encabezados de los mapeos activos.
func (s *Service) Template(ctx context.Context, dataType string) ([]byte, error) {
	if _, ok := entity.ImportTargets[dataType]; !ok {
		return nil, domain.Errorf(domain.ErrInvalidInput, "tipo de dato no importable: %q", dataType)
	}
	mappings, err := s.mappings.ListActive(ctx, dataType)
	if err != nil {
		return nil, fmt.Errorf("mapeos CSV: %w", err)
	}
	if len(mappings) == 0 {
		return nil, domain.Errorf(domain.ErrNotFound, "no hay mapeos CSV activos para %q", dataType)
	}
	sort.SliceStable(mappings, func(i, j int) bool { return mappings[i].Order < mappings[j].Order })
	header := make([]string, len(mappings))
	for i, m := range mappings {
		header[i] = m.CsvHeader
	}
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
