package repository

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ProductionPlanRepository puerto de persistencia para planes de producción.
type ProductionPlanRepository interface {
	Create(ctx context.Context, p *entity.ProductionPlan) error
	GetByID(ctx context.Context, id string) (*entity.ProductionPlan, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionPlan, error)
	// UpdateProgress persiste status y fechas reales.
	UpdateProgress(ctx context.Context, p *entity.ProductionPlan) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.ProductionPlan, int, error)
}

// WorkProgressRepository avance por paso de proceso.
type WorkProgressRepository interface {
	// GetOrCreateForUpdate devuelve (creándola si falta) la fila de (plan, paso) bloqueada.
	GetOrCreateForUpdate(ctx context.Context, planID, step string, operator *string) (*entity.WorkProgress, error)
	Save(ctx context.Context, wp *entity.WorkProgress) error
	ListByPlan(ctx context.Context, planID string) ([]*entity.WorkProgress, error)
}

// MaterialAllocationRepository reservas de material por plan.
type MaterialAllocationRepository interface {
	Create(ctx context.Context, a *entity.MaterialAllocation) error
	ListByPlan(ctx context.Context, planID string) ([]*entity.MaterialAllocation, error)
	SumByPlanAndMaterial(ctx context.Context, planID, materialCode string) (int64, error)
}

// PartsUsedRepository partes requeridas por referencia de plan.
type PartsUsedRepository interface {
	ListByPlanRef(ctx context.Context, planRef string) ([]*entity.PartsUsed, error)
}
