package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// QualityUseCase ítems de inspección y evaluación de mediciones.
type QualityUseCase struct {
	repo repository.InspectionRepository
}

// NewQualityUseCase construye el caso de uso.
func NewQualityUseCase(repo repository.InspectionRepository) *QualityUseCase {
	return &QualityUseCase{repo: repo}
}

// Create registra un ítem de inspección con sus mediciones.
func (uc *QualityUseCase) Create(ctx context.Context, in dto.CreateInspectionItemRequest) (*dto.InspectionItemResponse, error) {
	now := nowUTC()
	item := &entity.InspectionItem{
		ID:               inventory.NewID(),
		Code:             in.Code,
		Name:             in.Name,
		Description:      in.Description,
		InspectionType:   in.InspectionType,
		TargetObjectType: in.TargetObjectType,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for i, m := range in.Measurements {
		if m.LowerLimit != nil && m.UpperLimit != nil && m.LowerLimit.GreaterThan(*m.UpperLimit) {
			return nil, domain.Errorf(domain.ErrInvalidInput, "medición %q: el límite inferior supera al superior", m.Name)
		}
		if m.MeasurementType == entity.MeasurementQualitative && m.ExpectedQualitative == "" {
			return nil, domain.Errorf(domain.ErrInvalidInput, "medición %q: falta el resultado cualitativo esperado", m.Name)
		}
		order := m.Order
		if order == 0 {
			order = i + 1
		}
		item.Measurements = append(item.Measurements, entity.MeasurementDetail{
			ID:                  inventory.NewID(),
			InspectionItemID:    item.ID,
			Name:                m.Name,
			MeasurementType:     m.MeasurementType,
			Nominal:             m.Nominal,
			UpperLimit:          m.UpperLimit,
			LowerLimit:          m.LowerLimit,
			Unit:                m.Unit,
			ExpectedQualitative: m.ExpectedQualitative,
			Order:               order,
		})
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("crear ítem de inspección: %w", err)
	}
	res := toInspectionItemResponse(item)
	return &res, nil
}

// Get obtiene un ítem de inspección con sus mediciones.
func (uc *QualityUseCase) Get(ctx context.Context, id string) (*dto.InspectionItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener ítem de inspección: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	res := toInspectionItemResponse(item)
	return &res, nil
}

// List lista ítems de inspección.
func (uc *QualityUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.InspectionItemResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar ítems de inspección: %w", err)
	}
	out := make([]dto.InspectionItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toInspectionItemResponse(it))
	}
	return out, nil
}

// Judge evalúa los valores medidos. Una medición sin valor cuenta como NG; el veredicto
// global es OK solo si todas las mediciones son OK.
func (uc *QualityUseCase) Judge(ctx context.Context, id string, in dto.JudgeRequest) (*dto.JudgeResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener ítem de inspección: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	values := make(map[string]dto.JudgeValue, len(in.Values))
	for _, v := range in.Values {
		values[v.MeasurementID] = v
	}
	known := make(map[string]bool, len(item.Measurements))
	for _, m := range item.Measurements {
		known[m.ID] = true
	}
	for mid := range values {
		if !known[mid] {
			return nil, domain.Errorf(domain.ErrInvalidInput, "la medición %s no pertenece al ítem %s", mid, item.Code)
		}
	}

	measurements := append([]entity.MeasurementDetail(nil), item.Measurements...)
	sort.SliceStable(measurements, func(i, j int) bool { return measurements[i].Order < measurements[j].Order })
	res := &dto.JudgeResponse{InspectionItemID: item.ID, Overall: entity.JudgementOK, Lines: []dto.JudgeLine{}}
	for i := range measurements {
		m := &measurements[i]
		verdict := entity.JudgementNG
		if v, ok := values[m.ID]; ok {
			verdict = m.Judge(v.QuantitativeValue, v.QualitativeValue)
		}
		if verdict == entity.JudgementNG {
			res.Overall = entity.JudgementNG
		}
		res.Lines = append(res.Lines, dto.JudgeLine{MeasurementID: m.ID, Name: m.Name, Judgement: verdict})
	}
	return res, nil
}

func toInspectionItemResponse(it *entity.InspectionItem) dto.InspectionItemResponse {
	out := dto.InspectionItemResponse{
		ID:               it.ID,
		Code:             it.Code,
		Name:             it.Name,
		Description:      it.Description,
		InspectionType:   it.InspectionType,
		TargetObjectType: it.TargetObjectType,
		IsActive:         it.IsActive,
		Measurements:     make([]dto.MeasurementResponse, 0, len(it.Measurements)),
	}
	for _, m := range it.Measurements {
		out.Measurements = append(out.Measurements, dto.MeasurementResponse{
			ID:                  m.ID,
			Name:                m.Name,
			MeasurementType:     m.MeasurementType,
			Nominal:             m.Nominal,
			UpperLimit:          m.UpperLimit,
			LowerLimit:          m.LowerLimit,
			Unit:                m.Unit,
			ExpectedQualitative: m.ExpectedQualitative,
			Order:               m.Order,
		})
	}
	return out
}
