package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportTaskResponse estado de una tarea de importación CSV.
type ImportTaskResponse struct {
	TaskID    string      `json:"task_id"`
	Name      string      `json:"name"`
	DataType  string      `json:"data_type"`
	Status    string      `json:"status"`
	Progress  int         `json:"progress"`
	Total     int         `json:"total"`
	Result    interface{} `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ImportAcceptedResponse respuesta 202 de POST /api/data/import-csv.
type ImportAcceptedResponse struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

// CreateQrActionRequest entrada para registrar una regla de acción QR.
type CreateQrActionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Pattern     string `json:"pattern" validate:"required"`
	Rule        string `json:"rule" validate:"required"`
	Priority    int    `json:"priority" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

// QrActionResponse salida de una regla de acción QR.
type QrActionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
	Rule        string `json:"rule"`
	Priority    int    `json:"priority"`
	IsActive    bool   `json:"is_active"`
}

// QrMatchRequest texto escaneado a resolver.
type QrMatchRequest struct {
	Data string `json:"qr_data" validate:"required,max=2048"`
}

// DisplayFieldResponse campo visible de un modelo.
type DisplayFieldResponse struct {
	FieldName   string `json:"field_name"`
	DisplayName string `json:"display_name"`
	Order       int    `json:"order"`
}

// DisplayConfigResponse configuración de presentación de un modelo.
type DisplayConfigResponse struct {
	Model        string                 `json:"model"`
	ListDisplay  []DisplayFieldResponse `json:"list_display"`
	SearchFields []string               `json:"search_fields"`
	ListFilter   []string               `json:"list_filter"`
}

// MeasurementRequest medición de un ítem de inspección.
type MeasurementRequest struct {
	Name                string           `json:"name" validate:"required,max=255"`
	MeasurementType     string           `json:"measurement_type" validate:"required,oneof=quantitative qualitative"`
	Nominal             *decimal.Decimal `json:"specification_nominal"`
	UpperLimit          *decimal.Decimal `json:"specification_upper_limit"`
	LowerLimit          *decimal.Decimal `json:"specification_lower_limit"`
	Unit                string           `json:"specification_unit" validate:"max=50"`
	ExpectedQualitative string           `json:"expected_qualitative_result" validate:"max=100"`
	Order               int              `json:"order" validate:"gte=0"`
}

// CreateInspectionItemRequest entrada para crear un ítem de inspección.
type CreateInspectionItemRequest struct {
	Code             string               `json:"code" validate:"required,max=50"`
	Name             string               `json:"name" validate:"required,max=255"`
	Description      string               `json:"description"`
	InspectionType   string               `json:"inspection_type" validate:"required,oneof=acceptance in_process final shipping patrol"`
	TargetObjectType string               `json:"target_object_type" validate:"required,oneof=raw_material component wip finished_good equipment process"`
	Measurements     []MeasurementRequest `json:"measurement_details" validate:"dive"`
}

// MeasurementResponse salida de una medición.
type MeasurementResponse struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	MeasurementType     string           `json:"measurement_type"`
	Nominal             *decimal.Decimal `json:"specification_nominal,omitempty"`
	UpperLimit          *decimal.Decimal `json:"specification_upper_limit,omitempty"`
	LowerLimit          *decimal.Decimal `json:"specification_lower_limit,omitempty"`
	Unit                string           `json:"specification_unit"`
	ExpectedQualitative string           `json:"expected_qualitative_result"`
	Order               int              `json:"order"`
}

// InspectionItemResponse salida de un ítem de inspección.
type InspectionItemResponse struct {
	ID               string                `json:"id"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	InspectionType   string                `json:"inspection_type"`
	TargetObjectType string                `json:"target_object_type"`
	IsActive         bool                  `json:"is_active"`
	Measurements     []MeasurementResponse `json:"measurement_details"`
}

// JudgeValue valor medido para una medición.
type JudgeValue struct {
	MeasurementID     string           `json:"measurement_id" validate:"required"`
	QuantitativeValue *decimal.Decimal `json:"quantitative_value"`
	QualitativeValue  string           `json:"qualitative_value"`
}

// JudgeRequest valores a evaluar contra un ítem de inspección.
type JudgeRequest struct {
	Values []JudgeValue `json:"values" validate:"required,min=1,dive"`
}

// JudgeLine veredicto de una medición.
type JudgeLine struct {
	MeasurementID string `json:"measurement_id"`
	Name          string `json:"name"`
	Judgement     string `json:"judgement"`
}

// JudgeResponse veredictos por medición y global.
type JudgeResponse struct {
	InspectionItemID string      `json:"inspection_item_id"`
	Overall          string      `json:"overall"`
	Lines            []JudgeLine `json:"lines"`
}
