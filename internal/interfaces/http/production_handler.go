package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
)

// ProductionHandler planes de producción: consulta, asignación de materiales y avance.
type ProductionHandler struct {
	plans      *production.PlanUseCase
	allocation *inventory.AllocationService
	completion *production.CompletionService
}

// NewProductionHandler construye el handler.
func NewProductionHandler(plans *production.PlanUseCase, allocation *inventory.AllocationService, completion *production.CompletionService) *ProductionHandler {
	return &ProductionHandler{plans: plans, allocation: allocation, completion: completion}
}

// Create godoc
// @Summary      Crear plan de producción
// @Tags         production-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionPlanRequest  true  "Plan"
// @Success      201   {object}  dto.ProductionPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/production-plans [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionPlanRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.plans.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar planes de producción
// @Tags         production-plans
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | IN_PROGRESS | COMPLETED | ON_HOLD | CANCELLED"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.ProductionPlanListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/production-plans [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.plans.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener plan de producción
// @Tags         production-plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Plan ID"
// @Success      200  {object}  dto.ProductionPlanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-plans/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.plans.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RequiredParts godoc
// @Summary      Partes requeridas por el plan
// @Description  Partes del plan con existencia total y cantidad ya asignada.
// @Tags         production-plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Plan ID"
// @Success      200  {array}   dto.RequiredPartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-plans/{id}/required-parts [get]
func (h *ProductionHandler) RequiredParts(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.plans.RequiredParts(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Allocations godoc
// @Summary      Asignaciones de material del plan
// @Tags         production-plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Plan ID"
// @Success      200  {array}   dto.MaterialAllocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-plans/{id}/allocations [get]
func (h *ProductionHandler) Allocations(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.plans.Allocations(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AllocateMaterials godoc
// @Summary      Asignar materiales al plan
// @Description  Reserva todas las líneas o ninguna. Un rechazo lista en details cada línea que falló.
// @Tags         production-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "Plan ID"
// @Param        body  body  dto.AllocateMaterialsRequest  true  "allocations"
// @Success      200   {object}  dto.AllocateMaterialsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/production-plans/{id}/allocate-materials [post]
func (h *ProductionHandler) AllocateMaterials(c *fiber.Ctx) error {
	planID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AllocateMaterialsRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	lines := make([]inventory.AllocationLine, len(in.Allocations))
	for i, a := range in.Allocations {
		lines[i] = inventory.AllocationLine{
			PartNumber: a.PartNumber,
			Warehouse:  a.Warehouse,
			Location:   a.Location,
			Quantity:   a.Quantity,
		}
	}
	results, err := h.allocation.Allocate(c.UserContext(), planID, lines)
	if err != nil {
		return writeError(c, err)
	}
	summary := make([]dto.AllocationSummary, len(results))
	for i, r := range results {
		summary[i] = dto.AllocationSummary{
			PartNumber:           r.PartNumber,
			Warehouse:            r.Warehouse,
			Location:             r.Location,
			AllocatedQuantity:    r.AllocatedQuantity,
			MaterialAllocationID: r.MaterialAllocationID,
			NewInventoryReserved: r.NewReserved,
			NewInventoryAvail:    r.NewAvailable,
			SalesOrderID:         r.SalesOrderID,
			SalesOrderNumber:     r.SalesOrderNumber,
		}
	}
	return c.JSON(dto.AllocateMaterialsResponse{
		Message:            "materiales asignados",
		ProductionPlanID:   planID,
		AllocationsSummary: summary,
	})
}

// UpdateProgress godoc
// @Summary      Actualizar avance del plan
// @Description  Cambia el estado. Completar suma good_quantity al inventario de producto terminado; salir de COMPLETED lo revierte.
// @Tags         production-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Plan ID"
// @Param        body  body  dto.UpdateProgressRequest  true  "status, good_quantity"
// @Success      200   {object}  dto.UpdateProgressResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/production-plans/{id}/update-progress [post]
func (h *ProductionHandler) UpdateProgress(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProgressRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.completion.UpdateProgress(c.UserContext(), production.UpdateProgressInput{
		PlanID:            id,
		Status:            in.Status,
		GoodQuantity:      in.GoodQuantity,
		ActualQuantity:    in.ActualQuantity,
		DefectiveQuantity: in.DefectiveQuantity,
		Operator:          operator(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.UpdateProgressResponse{
		Message:   "avance actualizado",
		PlanID:    res.PlanID,
		NewStatus: res.NewStatus,
	})
}
