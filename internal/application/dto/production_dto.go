package dto

import "time"

// CreateProductionPlanRequest entrada para crear un plan de producción.
type CreateProductionPlanRequest struct {
	PlanName          string    `json:"plan_name" validate:"required,max=255"`
	ProductCode       string    `json:"product_code" validate:"required,max=100"`
	ProductionPlanRef string    `json:"production_plan" validate:"max=100"`
	PlannedQuantity   int64     `json:"planned_quantity" validate:"gte=0"`
	PlannedStart      time.Time `json:"planned_start_datetime" validate:"required"`
	PlannedEnd        time.Time `json:"planned_end_datetime" validate:"required,gtefield=PlannedStart"`
	Remarks           string    `json:"remarks"`
}

// ProductionPlanResponse salida de un plan.
type ProductionPlanResponse struct {
	ID                string     `json:"id"`
	PlanName          string     `json:"plan_name"`
	ProductCode       string     `json:"product_code"`
	ProductionPlanRef string     `json:"production_plan"`
	PlannedQuantity   int64      `json:"planned_quantity"`
	PlannedStart      time.Time  `json:"planned_start_datetime"`
	PlannedEnd        time.Time  `json:"planned_end_datetime"`
	ActualStart       *time.Time `json:"actual_start_datetime,omitempty"`
	ActualEnd         *time.Time `json:"actual_end_datetime,omitempty"`
	Status            string     `json:"status"`
	Remarks           string     `json:"remarks"`
}

// ProductionPlanListResponse lista paginada de planes.
type ProductionPlanListResponse struct {
	Items []ProductionPlanResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// AllocationItemRequest línea de asignación. Quantity es puntero para distinguir "falta" de 0.
type AllocationItemRequest struct {
	PartNumber string  `json:"part_number"`
	Warehouse  string  `json:"warehouse"`
	Location   *string `json:"location"`
	Quantity   *int64  `json:"quantity_to_allocate"`
}

// AllocateMaterialsRequest body de POST /api/production-plans/:id/allocate-materials.
type AllocateMaterialsRequest struct {
	Allocations []AllocationItemRequest `json:"allocations"`
}

// AllocationSummary resultado por línea asignada.
type AllocationSummary struct {
	PartNumber           string `json:"part_number"`
	Warehouse            string `json:"warehouse"`
	Location             string `json:"location"`
	AllocatedQuantity    int64  `json:"allocated_quantity"`
	MaterialAllocationID string `json:"material_allocation_id"`
	NewInventoryReserved int64  `json:"new_inventory_reserved"`
	NewInventoryAvail    int64  `json:"new_inventory_available"`
	SalesOrderID         string `json:"sales_order_id"`
	SalesOrderNumber     string `json:"sales_order_number"`
}

// AllocateMaterialsResponse resultado de la asignación.
type AllocateMaterialsResponse struct {
	Message            string              `json:"message"`
	ProductionPlanID   string              `json:"production_plan_id"`
	AllocationsSummary []AllocationSummary `json:"allocations_summary"`
}

// UpdateProgressRequest body de POST /api/production-plans/:id/update-progress.
type UpdateProgressRequest struct {
	Status            string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED ON_HOLD CANCELLED"`
	GoodQuantity      *int64 `json:"good_quantity" validate:"omitempty,gte=0"`
	ActualQuantity    *int64 `json:"actual_quantity" validate:"omitempty,gte=0"`
	DefectiveQuantity *int64 `json:"defective_quantity" validate:"omitempty,gte=0"`
}

// UpdateProgressResponse resultado del cambio de estado.
type UpdateProgressResponse struct {
	Message   string `json:"message"`
	PlanID    string `json:"plan_id"`
	NewStatus string `json:"new_status"`
}

// RequiredPartResponse parte requerida por un plan con su disponibilidad.
type RequiredPartResponse struct {
	PartCode                 string `json:"part_code"`
	Warehouse                string `json:"warehouse"`
	RequiredQuantity         int64  `json:"required_quantity"`
	InventoryQuantity        int64  `json:"inventory_quantity"`
	AlreadyAllocatedQuantity int64  `json:"already_allocated_quantity"`
}

// MaterialAllocationResponse salida de una asignación de material.
type MaterialAllocationResponse struct {
	ID                 string    `json:"id"`
	MaterialCode       string    `json:"material_code"`
	Warehouse          string    `json:"warehouse"`
	Location           string    `json:"location"`
	AllocatedQuantity  int64     `json:"allocated_quantity"`
	AllocationDatetime time.Time `json:"allocation_datetime"`
	Status             string    `json:"status"`
}
