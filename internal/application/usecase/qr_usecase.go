package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/qrrule"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// QrActionUseCase reglas de acción QR. El motor compilado se reconstruye al crear una regla.
type QrActionUseCase struct {
	repo repository.QrActionRepository
	log  *logger.Logger

	mu     sync.RWMutex
	engine *qrrule.Engine
}

// NewQrActionUseCase construye el caso de uso.
func NewQrActionUseCase(repo repository.QrActionRepository, log *logger.Logger) *QrActionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &QrActionUseCase{repo: repo, log: log}
}

// Create valida y compila la regla antes de guardarla.
func (uc *QrActionUseCase) Create(ctx context.Context, in dto.CreateQrActionRequest) (*dto.QrActionResponse, error) {
	if _, err := qrrule.Compile(in.Name, in.Pattern, in.Rule, in.Priority); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	a := &entity.QrCodeAction{
		ID:          inventory.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Pattern:     in.Pattern,
		Rule:        in.Rule,
		Priority:    in.Priority,
		IsActive:    active,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("guardar regla QR: %w", err)
	}
	uc.invalidate()
	res := toQrActionResponse(a)
	return &res, nil
}

// List todas las reglas, activas e inactivas.
func (uc *QrActionUseCase) List(ctx context.Context) ([]dto.QrActionResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar reglas QR: %w", err)
	}
	out := make([]dto.QrActionResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toQrActionResponse(a))
	}
	return out, nil
}

// Match resuelve el texto escaneado con la primera regla activa que coincide.
func (uc *QrActionUseCase) Match(ctx context.Context, scan string) (*qrrule.Result, error) {
	engine, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	res, ok := engine.Match(scan)
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "ninguna regla QR coincide con el texto escaneado")
	}
	return &res, nil
}

func (uc *QrActionUseCase) current(ctx context.Context) (*qrrule.Engine, error) {
	uc.mu.RLock()
	e := uc.engine
	uc.mu.RUnlock()
	if e != nil {
		return e, nil
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.engine != nil {
		return uc.engine, nil
	}
	actions, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar reglas QR: %w", err)
	}
	engine, errs := qrrule.NewEngine(actions)
	for _, err := range errs {
		uc.log.Warn().Err(err).Msg("regla QR inválida omitida")
	}
	uc.engine = engine
	return engine, nil
}

func (uc *QrActionUseCase) invalidate() {
	uc.mu.Lock()
	uc.engine = nil
	uc.mu.Unlock()
}

func toQrActionResponse(a *entity.QrCodeAction) dto.QrActionResponse {
	return dto.QrActionResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Pattern:     a.Pattern,
		Rule:        a.Rule,
		Priority:    a.Priority,
		IsActive:    a.IsActive,
	}
}
