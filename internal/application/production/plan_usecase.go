package production

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// PlanUseCase alta y consulta de planes de producción, partes requeridas y asignaciones.
type PlanUseCase struct {
	planRepo  repository.ProductionPlanRepository
	partsRepo repository.PartsUsedRepository
	invRepo   repository.InventoryRepository
	allocRepo repository.MaterialAllocationRepository
}

// NewPlanUseCase construye el caso de uso.
func NewPlanUseCase(
	planRepo repository.ProductionPlanRepository,
	partsRepo repository.PartsUsedRepository,
	invRepo repository.InventoryRepository,
	allocRepo repository.MaterialAllocationRepository,
) *PlanUseCase {
	return &PlanUseCase{planRepo: planRepo, partsRepo: partsRepo, invRepo: invRepo, allocRepo: allocRepo}
}

// Create registra un plan en estado PENDING.
func (uc *PlanUseCase) Create(ctx context.Context, in dto.CreateProductionPlanRequest) (*dto.ProductionPlanResponse, error) {
	if strings.TrimSpace(in.PlanName) == "" || strings.TrimSpace(in.ProductCode) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PlannedEnd.Before(in.PlannedStart) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "la fecha de fin planificada es anterior al inicio")
	}
	now := nowUTC()
	p := &entity.ProductionPlan{
		ID:                inventory.NewID(),
		PlanName:          strings.TrimSpace(in.PlanName),
		ProductCode:       strings.TrimSpace(in.ProductCode),
		ProductionPlanRef: strings.TrimSpace(in.ProductionPlanRef),
		PlannedQuantity:   in.PlannedQuantity,
		PlannedStart:      in.PlannedStart,
		PlannedEnd:        in.PlannedEnd,
		Status:            entity.PlanStatusPending,
		Remarks:           in.Remarks,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.planRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("crear plan: %w", err)
	}
	res := ToPlanResponse(p)
	return &res, nil
}

// Get obtiene un plan por ID.
func (uc *PlanUseCase) Get(ctx context.Context, id string) (*dto.ProductionPlanResponse, error) {
	p, err := uc.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener plan: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	res := ToPlanResponse(p)
	return &res, nil
}

// List lista planes, opcionalmente por estado.
func (uc *PlanUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.ProductionPlanListResponse, error) {
	if status != "" && !entity.IsValidPlanStatus(status) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "estado inválido: %q", status)
	}
	page.DefaultPage()
	plans, total, err := uc.planRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar planes: %w", err)
	}
	out := make([]dto.ProductionPlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, ToPlanResponse(p))
	}
	return &dto.ProductionPlanListResponse{Items: out, Page: page.Response(total)}, nil
}

// RequiredParts partes del plan con la existencia disponible y lo ya asignado al plan.
func (uc *PlanUseCase) RequiredParts(ctx context.Context, planID string) ([]dto.RequiredPartResponse, error) {
	p, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("obtener plan: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := []dto.RequiredPartResponse{}
	if p.ProductionPlanRef == "" {
		return out, nil
	}
	parts, err := uc.partsRepo.ListByPlanRef(ctx, p.ProductionPlanRef)
	if err != nil {
		return nil, fmt.Errorf("partes del plan: %w", err)
	}
	for _, part := range parts {
		avail, err := uc.invRepo.SumAvailable(ctx, part.PartCode, part.Warehouse)
		if err != nil {
			return nil, fmt.Errorf("disponible de %s: %w", part.PartCode, err)
		}
		allocated, err := uc.allocRepo.SumByPlanAndMaterial(ctx, p.ID, part.PartCode)
		if err != nil {
			return nil, fmt.Errorf("asignado de %s: %w", part.PartCode, err)
		}
		out = append(out, dto.RequiredPartResponse{
			PartCode:                 part.PartCode,
			Warehouse:                part.Warehouse,
			RequiredQuantity:         part.QuantityUsed,
			InventoryQuantity:        avail,
			AlreadyAllocatedQuantity: allocated,
		})
	}
	return out, nil
}

// Allocations asignaciones de material del plan.
func (uc *PlanUseCase) Allocations(ctx context.Context, planID string) ([]dto.MaterialAllocationResponse, error) {
	p, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("obtener plan: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	allocs, err := uc.allocRepo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("asignaciones del plan: %w", err)
	}
	out := make([]dto.MaterialAllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.MaterialAllocationResponse{
			ID:                 a.ID,
			MaterialCode:       a.MaterialCode,
			Warehouse:          a.Warehouse,
			Location:           a.Location,
			AllocatedQuantity:  a.AllocatedQuantity,
			AllocationDatetime: a.AllocationDatetime,
			Status:             a.Status,
		})
	}
	return out, nil
}

// ToPlanResponse mapea el plan al DTO.
func ToPlanResponse(p *entity.ProductionPlan) dto.ProductionPlanResponse {
	return dto.ProductionPlanResponse{
		ID:                p.ID,
		PlanName:          p.PlanName,
		ProductCode:       p.ProductCode,
		ProductionPlanRef: p.ProductionPlanRef,
		PlannedQuantity:   p.PlannedQuantity,
		PlannedStart:      p.PlannedStart,
		PlannedEnd:        p.PlannedEnd,
		ActualStart:       p.ActualStart,
		ActualEnd:         p.ActualEnd,
		Status:            p.Status,
		Remarks:           p.Remarks,
	}
}

var nowUTC = func() time.Time { return time.Now().UTC() }
