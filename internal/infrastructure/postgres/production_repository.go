package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var (
	_ repository.ProductionPlanRepository     = (*ProductionPlanRepo)(nil)
	_ repository.WorkProgressRepository       = (*WorkProgressRepo)(nil)
	_ repository.MaterialAllocationRepository = (*MaterialAllocationRepo)(nil)
	_ repository.PartsUsedRepository          = (*PartsUsedRepo)(nil)
)

// ProductionPlanRepo planes de producción sobre PostgreSQL.
type ProductionPlanRepo struct {
	q Querier
}

// NewProductionPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionPlanRepository(q Querier) *ProductionPlanRepo {
	return &ProductionPlanRepo{q: q}
}

const planColumns = `id::TEXT, plan_name, product_code, production_plan_ref, planned_quantity, planned_start, planned_end,
	actual_start, actual_end, status, remarks, created_at, updated_at`

func scanPlan(row pgxScanner) (*entity.ProductionPlan, error) {
	var p entity.ProductionPlan
	if err := row.Scan(&p.ID, &p.PlanName, &p.ProductCode, &p.ProductionPlanRef, &p.PlannedQuantity,
		&p.PlannedStart, &p.PlannedEnd, &p.ActualStart, &p.ActualEnd, &p.Status, &p.Remarks,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un plan.
func (r *ProductionPlanRepo) Create(ctx context.Context, p *entity.ProductionPlan) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO production_plans (id, plan_name, product_code, production_plan_ref, planned_quantity,
			planned_start, planned_end, actual_start, actual_end, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.PlanName, p.ProductCode, p.ProductionPlanRef, p.PlannedQuantity,
		p.PlannedStart, p.PlannedEnd, p.ActualStart, p.ActualEnd, p.Status, p.Remarks,
		p.CreatedAt, p.UpdatedAt)
	return mapError("insert production plan", err)
}

// GetByID obtiene un plan sin bloqueo.
func (r *ProductionPlanRepo) GetByID(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM production_plans WHERE id = $1`, id)
}

// GetForUpdate obtiene el plan y bloquea la fila.
func (r *ProductionPlanRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM production_plans WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductionPlanRepo) getOne(ctx context.Context, query, id string) (*entity.ProductionPlan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, mapError("get production plan", err)
	}
	return p, nil
}

// UpdateProgress persiste status y fechas reales.
func (r *ProductionPlanRepo) UpdateProgress(ctx context.Context, p *entity.ProductionPlan) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE production_plans SET status = $2, actual_start = $3, actual_end = $4, updated_at = $5
		WHERE id = $1`,
		p.ID, p.Status, p.ActualStart, p.ActualEnd, p.UpdatedAt)
	if err != nil {
		return mapError("update production plan", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update production plan: %s inexistente", p.ID)
	}
	return nil
}

// List lista planes por inicio planificado, opcionalmente por estado.
func (r *ProductionPlanRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.ProductionPlan, int, error) {
	var w where
	if status != "" {
		w.add("status = $%d", status)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM production_plans`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError("count production plans", err)
	}
	limitSQL, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM production_plans`+w.sql()+` ORDER BY planned_start, plan_name`+limitSQL, args...)
	if err != nil {
		return nil, 0, mapError("list production plans", err)
	}
	defer rows.Close()
	var list []*entity.ProductionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan production plan: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// WorkProgressRepo avance por paso de proceso.
type WorkProgressRepo struct {
	q Querier
}

// NewWorkProgressRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkProgressRepository(q Querier) *WorkProgressRepo {
	return &WorkProgressRepo{q: q}
}

const workProgressColumns = `id::TEXT, plan_id::TEXT, process_step, operator_id::TEXT, start_datetime, end_datetime,
	quantity_completed, actual_reported_quantity, defective_reported_quantity, status`

func scanWorkProgress(row pgxScanner) (*entity.WorkProgress, error) {
	var wp entity.WorkProgress
	if err := row.Scan(&wp.ID, &wp.PlanID, &wp.ProcessStep, &wp.Operator, &wp.StartDatetime, &wp.EndDatetime,
		&wp.QuantityCompleted, &wp.ActualReportedQuantity, &wp.DefectiveReportedQuantity, &wp.Status); err != nil {
		return nil, err
	}
	return &wp, nil
}

// GetOrCreateForUpdate crea la fila (plan, paso) si falta y la devuelve bloqueada.
func (r *WorkProgressRepo) GetOrCreateForUpdate(ctx context.Context, planID, step string, operator *string) (*entity.WorkProgress, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO work_progress (id, plan_id, process_step, operator_id, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (plan_id, process_step) DO NOTHING`,
		newUUID(), planID, step, operator, entity.WorkStatusNotStarted)
	if err != nil {
		return nil, mapError("ensure work progress", err)
	}
	wp, err := scanWorkProgress(r.q.QueryRow(ctx, `
		SELECT `+workProgressColumns+` FROM work_progress
		WHERE plan_id = $1 AND process_step = $2 FOR UPDATE`, planID, step))
	if err != nil {
		return nil, mapError("get work progress", err)
	}
	return wp, nil
}

// Save persiste el avance.
func (r *WorkProgressRepo) Save(ctx context.Context, wp *entity.WorkProgress) error {
	_, err := r.q.Exec(ctx, `
		UPDATE work_progress SET operator_id = $2, start_datetime = $3, end_datetime = $4, quantity_completed = $5,
			actual_reported_quantity = $6, defective_reported_quantity = $7, status = $8
		WHERE id = $1`,
		wp.ID, wp.Operator, wp.StartDatetime, wp.EndDatetime, wp.QuantityCompleted,
		wp.ActualReportedQuantity, wp.DefectiveReportedQuantity, wp.Status)
	return mapError("update work progress", err)
}

// ListByPlan pasos de un plan.
func (r *WorkProgressRepo) ListByPlan(ctx context.Context, planID string) ([]*entity.WorkProgress, error) {
	rows, err := r.q.Query(ctx, `SELECT `+workProgressColumns+` FROM work_progress WHERE plan_id = $1 ORDER BY process_step`, planID)
	if err != nil {
		return nil, mapError("list work progress", err)
	}
	defer rows.Close()
	var list []*entity.WorkProgress
	for rows.Next() {
		wp, err := scanWorkProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work progress: %w", err)
		}
		list = append(list, wp)
	}
	return list, rows.Err()
}

// MaterialAllocationRepo reservas de material por plan.
type MaterialAllocationRepo struct {
	q Querier
}

// NewMaterialAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialAllocationRepository(q Querier) *MaterialAllocationRepo {
	return &MaterialAllocationRepo{q: q}
}

// Create persiste una asignación.
func (r *MaterialAllocationRepo) Create(ctx context.Context, a *entity.MaterialAllocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO material_allocations (id, plan_id, material_code, warehouse, location, allocated_quantity, allocation_datetime, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.PlanID, a.MaterialCode, a.Warehouse, a.Location, a.AllocatedQuantity, a.AllocationDatetime, a.Status)
	return mapError("insert material allocation", err)
}

// ListByPlan asignaciones de un plan en orden cronológico.
func (r *MaterialAllocationRepo) ListByPlan(ctx context.Context, planID string) ([]*entity.MaterialAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, plan_id::TEXT, material_code, warehouse, location, allocated_quantity, allocation_datetime, status
		FROM material_allocations WHERE plan_id = $1 ORDER BY allocation_datetime, material_code`, planID)
	if err != nil {
		return nil, mapError("list material allocations", err)
	}
	defer rows.Close()
	var list []*entity.MaterialAllocation
	for rows.Next() {
		var a entity.MaterialAllocation
		if err := rows.Scan(&a.ID, &a.PlanID, &a.MaterialCode, &a.Warehouse, &a.Location,
			&a.AllocatedQuantity, &a.AllocationDatetime, &a.Status); err != nil {
			return nil, fmt.Errorf("scan material allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// SumByPlanAndMaterial cantidad reservada vigente (ALLOCATED) de un material para un plan.
func (r *MaterialAllocationRepo) SumByPlanAndMaterial(ctx context.Context, planID, materialCode string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(allocated_quantity), 0)::BIGINT FROM material_allocations
		WHERE plan_id = $1 AND material_code = $2 AND status = $3`,
		planID, materialCode, entity.AllocationStatusAllocated).Scan(&sum)
	if err != nil {
		return 0, mapError("sum material allocations", err)
	}
	return sum, nil
}

// PartsUsedRepo partes requeridas por plan.
type PartsUsedRepo struct {
	q Querier
}

// NewPartsUsedRepository construye el adaptador.
func NewPartsUsedRepository(q Querier) *PartsUsedRepo {
	return &PartsUsedRepo{q: q}
}

// ListByPlanRef partes enlazadas a una referencia de plan.
func (r *PartsUsedRepo) ListByPlanRef(ctx context.Context, planRef string) ([]*entity.PartsUsed, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::TEXT, production_plan, part_code, warehouse, quantity_used
		FROM parts_used WHERE production_plan = $1 ORDER BY part_code`, planRef)
	if err != nil {
		return nil, mapError("list parts used", err)
	}
	defer rows.Close()
	var list []*entity.PartsUsed
	for rows.Next() {
		var p entity.PartsUsed
		if err := rows.Scan(&p.ID, &p.ProductionPlan, &p.PartCode, &p.Warehouse, &p.QuantityUsed); err != nil {
			return nil, fmt.Errorf("scan parts used: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
