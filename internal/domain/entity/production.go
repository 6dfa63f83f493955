package entity

import "time"

// Estados de ProductionPlan.
const (
	PlanStatusPending    = "PENDING"
	PlanStatusInProgress = "IN_PROGRESS"
	PlanStatusCompleted  = "COMPLETED"
	PlanStatusOnHold     = "ON_HOLD"
	PlanStatusCancelled  = "CANCELLED"
)

// IsValidPlanStatus indica si s es un estado de plan conocido.
func IsValidPlanStatus(s string) bool {
	switch s {
	case PlanStatusPending, PlanStatusInProgress, PlanStatusCompleted, PlanStatusOnHold, PlanStatusCancelled:
		return true
	}
	return false
}

// Estados de WorkProgress.
const (
	WorkStatusNotStarted = "NOT_STARTED"
	WorkStatusInProgress = "IN_PROGRESS"
	WorkStatusCompleted  = "COMPLETED"
	WorkStatusPaused     = "PAUSED"
)

// ProcessStepOverall paso fijo con el que se registra el avance global de un plan.
const ProcessStepOverall = "Overall Plan Progress"

// Estados de MaterialAllocation.
const (
	AllocationStatusAllocated = "ALLOCATED"
	AllocationStatusIssued    = "ISSUED"
	AllocationStatusReturned  = "RETURNED"
)

// ProductionPlan plan de producción de un producto terminado.
type ProductionPlan struct {
	ID                string
	PlanName          string
	ProductCode       string
	ProductionPlanRef string // referencia con la que se enlazan las partes usadas
	PlannedQuantity   int64
	PlannedStart      time.Time
	PlannedEnd        time.Time
	ActualStart       *time.Time
	ActualEnd         *time.Time
	Status            string
	Remarks           string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// WorkProgress avance de un paso de proceso de un plan.
type WorkProgress struct {
	ID                        string
	PlanID                    string
	ProcessStep               string
	Operator                  *string
	StartDatetime             *time.Time
	EndDatetime               *time.Time
	QuantityCompleted         int64
	ActualReportedQuantity    *int64
	DefectiveReportedQuantity *int64
	Status                    string
}

// MaterialAllocation reserva de material para un plan; la crea el servicio de asignación.
type MaterialAllocation struct {
	ID                 string
	PlanID             string
	MaterialCode       string
	Warehouse          string
	Location           string
	AllocatedQuantity  int64
	AllocationDatetime time.Time
	Status             string
}

// PartsUsed parte requerida por un plan, enlazada por ProductionPlanRef.
type PartsUsed struct {
	ID             string
	ProductionPlan string
	PartCode       string
	Warehouse      string
	QuantityUsed   int64
}

// RequiredPart parte requerida con su disponibilidad actual.
type RequiredPart struct {
	PartCode                 string
	Warehouse                string
	RequiredQuantity         int64
	AvailableQuantity        int64
	AlreadyAllocatedQuantity int64
}
