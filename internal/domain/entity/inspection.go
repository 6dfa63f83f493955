package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de medición.
const (
	MeasurementQuantitative = "quantitative"
	MeasurementQualitative  = "qualitative"
)

// Veredictos de inspección.
const (
	JudgementOK = "OK"
	JudgementNG = "NG"
)

// InspectionItem maestro de ítems de inspección (qué se inspecciona y con qué criterio).
type InspectionItem struct {
	ID               string
	Code             string
	Name             string
	Description      string
	InspectionType   string // acceptance, in_process, final, shipping, patrol
	TargetObjectType string // raw_material, component, wip, finished_good, equipment, process
	IsActive         bool
	Measurements     []MeasurementDetail
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MeasurementDetail medición o juicio individual de un ítem de inspección.
type MeasurementDetail struct {
	ID                  string
	InspectionItemID    string
	Name                string
	MeasurementType     string
	Nominal             *decimal.Decimal
	UpperLimit          *decimal.Decimal
	LowerLimit          *decimal.Decimal
	Unit                string
	ExpectedQualitative string
	Order               int
}

// Judge evalúa un valor medido. Cuantitativo: dentro de [LowerLimit, UpperLimit] (límites
// ausentes no restringen). Cualitativo: igual al resultado esperado.
func (m *MeasurementDetail) Judge(quantitative *decimal.Decimal, qualitative string) string {
	if m.MeasurementType == MeasurementQualitative {
		if qualitative == m.ExpectedQualitative {
			return JudgementOK
		}
		return JudgementNG
	}
	if quantitative == nil {
		return JudgementNG
	}
	if m.LowerLimit != nil && quantitative.LessThan(*m.LowerLimit) {
		return JudgementNG
	}
	if m.UpperLimit != nil && quantitative.GreaterThan(*m.UpperLimit) {
		return JudgementNG
	}
	return JudgementOK
}
