package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memItems struct{ items []*entity.Item }

func (m *memItems) Create(_ context.Context, it *entity.Item) error {
	m.items = append(m.items, it)
	return nil
}

func (m *memItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

func (m *memItems) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, it := range m.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, nil
}

func (m *memItems) Update(context.Context, *entity.Item) error { return nil }

func (m *memItems) List(_ context.Context, itemType string, _, _ int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range m.items {
		if itemType == "" || it.ItemType == itemType {
			out = append(out, it)
		}
	}
	return out, nil
}

type memInspections struct{ items map[string]*entity.InspectionItem }

func (m *memInspections) Create(_ context.Context, it *entity.InspectionItem) error {
	m.items[it.ID] = it
	return nil
}

func (m *memInspections) GetByID(_ context.Context, id string) (*entity.InspectionItem, error) {
	return m.items[id], nil
}

func (m *memInspections) List(context.Context, int, int) ([]*entity.InspectionItem, error) {
	var out []*entity.InspectionItem
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

type memQr struct {
	actions []*entity.QrCodeAction
	lists   int
}

func (m *memQr) Create(_ context.Context, a *entity.QrCodeAction) error {
	m.actions = append(m.actions, a)
	return nil
}

func (m *memQr) List(context.Context) ([]*entity.QrCodeAction, error) {
	m.lists++
	return m.actions, nil
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

func TestItemUseCase_CreateDuplicado(t *testing.T) {
	uc := NewItemUseCase(&memItems{})
	ctx := context.Background()

	it, err := uc.Create(ctx, dto.CreateItemRequest{Code: " P-100 ", Name: "Perno", ItemType: entity.ItemTypeMaterial})
	require.NoError(t, err)
	assert.Equal(t, "P-100", it.Code)
	assert.Equal(t, "pcs", it.Unit)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "P-100", Name: "Otro", ItemType: entity.ItemTypeMaterial})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemUseCase_UpdateYList(t *testing.T) {
	repo := &memItems{}
	uc := NewItemUseCase(repo)
	ctx := context.Background()
	it, err := uc.Create(ctx, dto.CreateItemRequest{Code: "FG-1", Name: "Motor", ItemType: entity.ItemTypeProduct})
	require.NoError(t, err)

	name := "Motor 2"
	updated, err := uc.Update(ctx, it.ID, dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Motor 2", updated.Name)
	assert.Equal(t, entity.ItemTypeProduct, updated.ItemType)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateItemRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, entity.ItemTypeMaterial, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 25, list.Page.Limit)

	_, err = uc.List(ctx, "servicio", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Calidad
// ──────────────────────────────────────────────────────────────────────────────

func TestQualityUseCase_Judge(t *testing.T) {
	uc := NewQualityUseCase(&memInspections{items: map[string]*entity.InspectionItem{}})
	ctx := context.Background()

	item, err := uc.Create(ctx, dto.CreateInspectionItemRequest{
		Code: "INS-1", Name: "Eje", InspectionType: "final", TargetObjectType: "finished_good",
		Measurements: []dto.MeasurementRequest{
			{Name: "Diámetro", MeasurementType: entity.MeasurementQuantitative, LowerLimit: dec("9.95"), UpperLimit: dec("10.05"), Unit: "mm"},
			{Name: "Aspecto", MeasurementType: entity.MeasurementQualitative, ExpectedQualitative: "sin rayas"},
		},
	})
	require.NoError(t, err)
	require.Len(t, item.Measurements, 2)
	diam, aspect := item.Measurements[0].ID, item.Measurements[1].ID

	res, err := uc.Judge(ctx, item.ID, dto.JudgeRequest{Values: []dto.JudgeValue{
		{MeasurementID: diam, QuantitativeValue: dec("10.05")},
		{MeasurementID: aspect, QualitativeValue: "sin rayas"},
	}})
	require.NoError(t, err)
	assert.Equal(t, entity.JudgementOK, res.Overall)

	res, err = uc.Judge(ctx, item.ID, dto.JudgeRequest{Values: []dto.JudgeValue{
		{MeasurementID: diam, QuantitativeValue: dec("10.06")},
		{MeasurementID: aspect, QualitativeValue: "sin rayas"},
	}})
	require.NoError(t, err)
	assert.Equal(t, entity.JudgementNG, res.Overall)
	assert.Equal(t, entity.JudgementNG, res.Lines[0].Judgement)
	assert.Equal(t, entity.JudgementOK, res.Lines[1].Judgement)

	// medición sin valor cuenta como NG
	res, err = uc.Judge(ctx, item.ID, dto.JudgeRequest{Values: []dto.JudgeValue{
		{MeasurementID: diam, QuantitativeValue: dec("10")},
	}})
	require.NoError(t, err)
	assert.Equal(t, entity.JudgementNG, res.Overall)

	_, err = uc.Judge(ctx, item.ID, dto.JudgeRequest{Values: []dto.JudgeValue{{MeasurementID: "ajena"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Judge(ctx, "no-existe", dto.JudgeRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQualityUseCase_CreateRechazaLimitesInvertidos(t *testing.T) {
	uc := NewQualityUseCase(&memInspections{items: map[string]*entity.InspectionItem{}})
	_, err := uc.Create(context.Background(), dto.CreateInspectionItemRequest{
		Code: "INS-2", Name: "Eje", InspectionType: "final", TargetObjectType: "finished_good",
		Measurements: []dto.MeasurementRequest{
			{Name: "Largo", MeasurementType: entity.MeasurementQuantitative, LowerLimit: dec("5"), UpperLimit: dec("4")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas QR
// ──────────────────────────────────────────────────────────────────────────────

func TestQrActionUseCase_CreateYMatch(t *testing.T) {
	repo := &memQr{}
	uc := NewQrActionUseCase(repo, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateQrActionRequest{
		Name: "ubicacion", Pattern: `LOC:(?P<wh>[^:]+):(?P<loc>.+)`, Priority: 10,
		Rule: "action = show_location\nwarehouse = ${wh}\nlocation = ${loc}",
	})
	require.NoError(t, err)

	res, err := uc.Match(ctx, "LOC:A:1-02")
	require.NoError(t, err)
	assert.Equal(t, "show_location", res.Action)
	assert.Equal(t, map[string]string{"warehouse": "A", "location": "1-02"}, res.Params)

	// el motor queda en caché hasta la próxima alta
	_, _ = uc.Match(ctx, "LOC:B:2")
	assert.Equal(t, 1, repo.lists)

	_, err = uc.Create(ctx, dto.CreateQrActionRequest{
		Name: "parte", Pattern: `P:(.+)`, Priority: 5, Rule: "action = show_inventory\npart_number = ${1}",
	})
	require.NoError(t, err)
	res, err = uc.Match(ctx, "P:BOLT-1")
	require.NoError(t, err)
	assert.Equal(t, "BOLT-1", res.Params["part_number"])
	assert.Equal(t, 2, repo.lists)

	_, err = uc.Match(ctx, "desconocido")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQrActionUseCase_CreateRechazaReglaInvalida(t *testing.T) {
	repo := &memQr{}
	uc := NewQrActionUseCase(repo, nil)

	_, err := uc.Create(context.Background(), dto.CreateQrActionRequest{
		Name: "mala", Pattern: `X:(.+)`, Rule: "action = exec\ntarget = ${1}",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, repo.actions)
}

type memWarehouses struct{ list []*entity.Warehouse }

func (m *memWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	m.list = append(m.list, w)
	return nil
}

func (m *memWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	for _, w := range m.list {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (m *memWarehouses) GetByNumber(_ context.Context, number string) (*entity.Warehouse, error) {
	for _, w := range m.list {
		if w.WarehouseNumber == number {
			return w, nil
		}
	}
	return nil, nil
}

func (m *memWarehouses) List(context.Context, int, int) ([]*entity.Warehouse, error) {
	return m.list, nil
}

func TestWarehouseUseCase_NumeroUnicoYBusqueda(t *testing.T) {
	ctx := context.Background()
	uc := NewWarehouseUseCase(&memWarehouses{})

	created, err := uc.Create(ctx, dto.CreateWarehouseRequest{WarehouseNumber: " FG-MAIN ", Name: "Producto terminado"})
	require.NoError(t, err)
	assert.Equal(t, "FG-MAIN", created.WarehouseNumber)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{WarehouseNumber: "FG-MAIN", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByNumber(ctx, "FG-MAIN")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = uc.GetByNumber(ctx, "WH-9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetByNumber(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
