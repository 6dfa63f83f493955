package entity

import "time"

// Tipos de movimiento del libro de existencias.
const (
	MovementIncoming           = "incoming"
	MovementOutgoing           = "outgoing"
	MovementUsed               = "used"
	MovementProductionOutput   = "PRODUCTION_OUTPUT"
	MovementProductionReversal = "PRODUCTION_REVERSAL"
	MovementAdjustment         = "adjustment"
)

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementIncoming, MovementOutgoing, MovementUsed,
		MovementProductionOutput, MovementProductionReversal, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement es un asiento inmutable del libro: se crea una vez y nunca se actualiza ni se borra.
type StockMovement struct {
	ID                string
	PartNumber        string
	Warehouse         string
	Location          string
	MovementType      string
	Quantity          int64 // siempre positivo; la dirección la da MovementType
	MovementDate      time.Time
	ReferenceDocument string
	Description       string
	Operator          *string // UserID, nil si no hay usuario autenticado
}

// StockMovementFilter filtros del listado del libro.
type StockMovementFilter struct {
	PartNumber        string
	Warehouse         string
	MovementType      string
	ReferenceDocument string
	From              *time.Time
	To                *time.Time
}
