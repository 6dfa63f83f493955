package csvimport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type fakeTasks struct {
	mu    sync.Mutex
	tasks map[string]*entity.AsyncTask
	// onProgress se invoca tras cada avance (para simular cancelaciones en curso).
	onProgress func(id string, progress int)
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: map[string]*entity.AsyncTask{}}
}

func (f *fakeTasks) Create(_ context.Context, t *entity.AsyncTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeTasks) GetByID(_ context.Context, id string) (*entity.AsyncTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTasks) Transition(_ context.Context, id string, from []entity.TaskStatus, to entity.TaskStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if t.Status == s {
			t.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTasks) SetTotal(_ context.Context, id string, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id].Total = total
	return nil
}

func (f *fakeTasks) UpdateProgress(_ context.Context, id string, progress int) error {
	f.mu.Lock()
	t := f.tasks[id]
	if t.Status == entity.TaskStarted {
		t.Progress = progress
	}
	hook := f.onProgress
	f.mu.Unlock()
	if hook != nil {
		hook(id, progress)
	}
	return nil
}

func (f *fakeTasks) Finish(_ context.Context, id string, status entity.TaskStatus, progress int, result *entity.ImportResult) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tasks[id]
	if t.Status != entity.TaskStarted && t.Status != entity.TaskPending {
		return false, nil
	}
	t.Status = status
	t.Progress = progress
	t.Result = result
	return true, nil
}

func (f *fakeTasks) revoke(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id].Status = entity.TaskRevoked
}

type fakeMappings struct {
	byType map[string][]*entity.CsvColumnMapping
	err    error
}

func (f *fakeMappings) ListActive(_ context.Context, dataType string) ([]*entity.CsvColumnMapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.CsvColumnMapping
	for _, m := range f.byType[dataType] {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeImports guarda filas por clave serializada.
type fakeImports struct {
	rows   map[string]map[string]any
	failOn string
}

func newFakeImports() *fakeImports {
	return &fakeImports{rows: map[string]map[string]any{}}
}

func (f *fakeImports) UpsertRow(_ context.Context, target *entity.ImportTarget, keys, values map[string]any) (bool, error) {
	k := target.Table + fmt.Sprint(keys)
	if f.failOn != "" && fmt.Sprint(keys) == f.failOn {
		return false, errors.New("violación de restricción")
	}
	row, ok := f.rows[k]
	if !ok {
		row = map[string]any{}
		for c, v := range keys {
			row[c] = v
		}
		f.rows[k] = row
	}
	for c, v := range values {
		row[c] = v
	}
	return !ok, nil
}

func itemMappings() *fakeMappings {
	return &fakeMappings{byType: map[string][]*entity.CsvColumnMapping{
		"item": {
			{DataType: "item", CsvHeader: "品番", ModelField: "code", Order: 1, IsUpdateKey: true, IsActive: true},
			{DataType: "item", CsvHeader: "品名", ModelField: "name", Order: 2, IsActive: true},
			{DataType: "item", CsvHeader: "単位", ModelField: "unit", Order: 3, IsActive: true},
			{DataType: "item", CsvHeader: "旧コード", ModelField: "description", Order: 4, IsActive: false},
		},
		"purchase_order": {
			{DataType: "purchase_order", CsvHeader: "order", ModelField: "order_number", Order: 1, IsUpdateKey: true, IsActive: true},
			{DataType: "purchase_order", CsvHeader: "qty", ModelField: "quantity", Order: 2, IsActive: true},
			{DataType: "purchase_order", CsvHeader: "eta", ModelField: "expected_arrival", Order: 3, IsActive: true},
		},
	}}
}
