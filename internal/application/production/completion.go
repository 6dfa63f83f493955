package production

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Manufactura-api/internal/domain/inventory"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// UpdateProgressInput cambio de estado de un plan con cantidades reportadas.
type UpdateProgressInput struct {
	PlanID            string
	Status            string
	GoodQuantity      *int64
	ActualQuantity    *int64
	DefectiveQuantity *int64
	Operator          *string
}

// UpdateProgressResult plan y estado resultante.
type UpdateProgressResult struct {
	PlanID    string
	NewStatus string
}

// CompletionService máquina de estados de planes de producción y su efecto sobre el
// inventario de producto terminado. El ajuste es por delta contra la última cantidad
// completada registrada, así una corrección no duplica existencias.
type CompletionService struct {
	exec        *inventory.Executor
	fgWarehouse string
	fgLocation  string
	log         *logger.Logger
}

// NewCompletionService construye el servicio. fgWarehouse es la bodega de producto terminado.
func NewCompletionService(exec *inventory.Executor, fgWarehouse, fgLocation string, log *logger.Logger) *CompletionService {
	if log == nil {
		log = logger.Nop()
	}
	return &CompletionService{exec: exec, fgWarehouse: fgWarehouse, fgLocation: fgLocation, log: log}
}

// UpdateProgress aplica la transición y los movimientos de producto terminado en una transacción.
func (s *CompletionService) UpdateProgress(ctx context.Context, in UpdateProgressInput) (*UpdateProgressResult, error) {
	if !entity.IsValidPlanStatus(in.Status) {
		return nil, domain.Errorf(domain.ErrInvalidInput, "estado inválido: %q", in.Status)
	}
	if in.Status == entity.PlanStatusCompleted {
		if in.GoodQuantity == nil {
			return nil, domain.Errorf(domain.ErrInvalidInput, "good_quantity es obligatorio para completar el plan")
		}
		if *in.GoodQuantity < 0 {
			return nil, domain.Errorf(domain.ErrInvalidInput, "good_quantity no puede ser negativo")
		}
		if in.ActualQuantity != nil && *in.ActualQuantity < 0 {
			return nil, domain.Errorf(domain.ErrInvalidInput, "actual_quantity no puede ser negativo")
		}
		if in.DefectiveQuantity != nil && *in.DefectiveQuantity < 0 {
			return nil, domain.Errorf(domain.ErrInvalidInput, "defective_quantity no puede ser negativo")
		}
	}

	var oldStatus string
	err := s.exec.Execute(ctx, "update_progress", func(r inventory.Repos, j *inventory.Journal) error {
		plan, err := r.Plans.GetForUpdate(ctx, in.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.Errorf(domain.ErrNotFound, "plan de producción %s no encontrado", in.PlanID)
		}
		wp, err := r.WorkProgress.GetOrCreateForUpdate(ctx, plan.ID, entity.ProcessStepOverall, in.Operator)
		if err != nil {
			return err
		}
		oldStatus = plan.Status
		now := s.exec.Now()
		fg := entity.InventoryKey{PartNumber: plan.ProductCode, Warehouse: s.fgWarehouse, Location: s.fgLocation}

		if oldStatus == entity.PlanStatusCompleted && in.Status != entity.PlanStatusCompleted && wp.QuantityCompleted > 0 {
			if err := s.reverse(ctx, r, j, plan, fg, wp.QuantityCompleted, in.Operator); err != nil {
				return err
			}
			wp.QuantityCompleted = 0
			wp.ActualReportedQuantity = nil
			wp.DefectiveReportedQuantity = nil
		}

		if in.Status == entity.PlanStatusCompleted {
			var previous int64
			if oldStatus == entity.PlanStatusCompleted {
				previous = wp.QuantityCompleted
			}
			if delta := *in.GoodQuantity - previous; delta != 0 {
				if err := s.adjust(ctx, r, j, plan, fg, delta, in.Operator); err != nil {
					return err
				}
			}
		}

		applyTransition(plan, wp, in, now)
		if in.Operator != nil {
			wp.Operator = in.Operator
		}
		plan.UpdatedAt = now
		if err := r.Plans.UpdateProgress(ctx, plan); err != nil {
			return err
		}
		return r.WorkProgress.Save(ctx, wp)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("plan_id", in.PlanID).Str("from", oldStatus).Str("to", in.Status).Msg("avance de plan actualizado")
	return &UpdateProgressResult{PlanID: in.PlanID, NewStatus: in.Status}, nil
}

// applyTransition actualiza fechas y estado del plan y de su avance global.
func applyTransition(plan *entity.ProductionPlan, wp *entity.WorkProgress, in UpdateProgressInput, now time.Time) {
	switch in.Status {
	case entity.PlanStatusInProgress:
		if plan.ActualStart == nil && (plan.Status == entity.PlanStatusPending || plan.Status == entity.PlanStatusOnHold) {
			plan.ActualStart = &now
		}
		wp.Status = entity.WorkStatusInProgress
		if wp.StartDatetime == nil {
			wp.StartDatetime = &now
		}
		wp.EndDatetime = nil
	case entity.PlanStatusCompleted:
		plan.ActualEnd = &now
		if plan.ActualStart == nil {
			plan.ActualStart = &now
		}
		wp.Status = entity.WorkStatusCompleted
		wp.QuantityCompleted = *in.GoodQuantity
		wp.ActualReportedQuantity = in.ActualQuantity
		wp.DefectiveReportedQuantity = in.DefectiveQuantity
		if wp.StartDatetime == nil {
			wp.StartDatetime = &now
		}
		wp.EndDatetime = &now
	case entity.PlanStatusOnHold:
		wp.Status = entity.WorkStatusPaused
	case entity.PlanStatusCancelled:
		if plan.ActualStart != nil && plan.ActualEnd == nil {
			plan.ActualEnd = &now
		}
		wp.Status = entity.WorkStatusPaused
		if wp.StartDatetime != nil && wp.EndDatetime == nil {
			wp.EndDatetime = &now
		}
	case entity.PlanStatusPending:
		wp.Status = entity.WorkStatusNotStarted
	}
	plan.Status = in.Status
}

// reverse retira del producto terminado lo que el plan había sumado al completarse.
func (s *CompletionService) reverse(ctx context.Context, r inventory.Repos, j *inventory.Journal,
	plan *entity.ProductionPlan, fg entity.InventoryKey, qty int64, operator *string,
) error {
	inv, err := r.Inventory.GetForUpdate(ctx, fg)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.Errorf(domain.ErrInsufficientStock,
			"no existe inventario de '%s' en '%s' para revertir %d unidades", fg.PartNumber, fg.Warehouse, qty)
	}
	if err := domaininv.Remove(inv, qty); err != nil {
		return err
	}
	inv.LastUpdated = s.exec.Now()
	if err := r.Inventory.Save(ctx, inv); err != nil {
		return err
	}
	return j.Record(ctx, r, &entity.StockMovement{
		PartNumber:        inv.PartNumber,
		Warehouse:         inv.Warehouse,
		Location:          inv.Location,
		MovementType:      entity.MovementProductionReversal,
		Quantity:          qty,
		ReferenceDocument: fmt.Sprintf("Reversal for PPlan-%s", plan.ID),
		Description:       fmt.Sprintf("Reversión de producción del plan %s (%s)", plan.PlanName, plan.Status),
		Operator:          operator,
	})
}

// adjust suma (delta > 0) o descuenta (delta < 0) producto terminado.
func (s *CompletionService) adjust(ctx context.Context, r inventory.Repos, j *inventory.Journal,
	plan *entity.ProductionPlan, fg entity.InventoryKey, delta int64, operator *string,
) error {
	inv, err := r.Inventory.EnsureForUpdate(ctx, fg)
	if err != nil {
		return err
	}
	movType, qty := entity.MovementProductionOutput, delta
	if delta > 0 {
		err = domaininv.Add(inv, delta)
	} else {
		movType, qty = entity.MovementProductionReversal, -delta
		err = domaininv.Remove(inv, qty)
	}
	if err != nil {
		return err
	}
	inv.LastUpdated = s.exec.Now()
	if err := r.Inventory.Save(ctx, inv); err != nil {
		return err
	}
	return j.Record(ctx, r, &entity.StockMovement{
		PartNumber:        inv.PartNumber,
		Warehouse:         inv.Warehouse,
		Location:          inv.Location,
		MovementType:      movType,
		Quantity:          qty,
		ReferenceDocument: fmt.Sprintf("ProductionPlan-%s", plan.ID),
		Description:       fmt.Sprintf("Ajuste de producción del plan %s: %+d", plan.PlanName, delta),
		Operator:          operator,
	})
}
