// Package displayconfig mantiene la configuración de presentación de los listados.
// La tabla se carga una vez al arrancar y no cambia mientras el proceso vive.
package displayconfig

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Field campo visible en el listado.
type Field struct {
	Name        string
	DisplayName string
	Order       int
}

// Model configuración de un modelo.
type Model struct {
	Name         string
	ListDisplay  []Field
	SearchFields []string
	ListFilter   []string
}

// Table tabla inmutable por modelo; segura para lectura concurrente.
type Table struct {
	models map[string]Model
}

// Load lee todas las filas y construye la tabla.
func Load(ctx context.Context, repo repository.DisplaySettingRepository) (*Table, error) {
	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer configuración de presentación: %w", err)
	}
	return Build(rows), nil
}

// Build arma la tabla a partir de las filas, ordenando cada lista por Order.
func Build(rows []*entity.DisplaySetting) *Table {
	sorted := append([]*entity.DisplaySetting(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ModelName != sorted[j].ModelName {
			return sorted[i].ModelName < sorted[j].ModelName
		}
		return sorted[i].Order < sorted[j].Order
	})
	models := map[string]Model{}
	for _, r := range sorted {
		m := models[r.ModelName]
		m.Name = r.ModelName
		if r.IsListDisplay {
			display := r.DisplayName
			if display == "" {
				display = r.FieldName
			}
			m.ListDisplay = append(m.ListDisplay, Field{Name: r.FieldName, DisplayName: display, Order: r.Order})
		}
		if r.IsSearchField {
			m.SearchFields = append(m.SearchFields, r.FieldName)
		}
		if r.IsListFilter {
			m.ListFilter = append(m.ListFilter, r.FieldName)
		}
		models[r.ModelName] = m
	}
	return &Table{models: models}
}

// Get devuelve la configuración del modelo. Las listas devueltas son copias.
func (t *Table) Get(model string) (Model, bool) {
	m, ok := t.models[model]
	if !ok {
		return Model{}, false
	}
	m.ListDisplay = append([]Field{}, m.ListDisplay...)
	m.SearchFields = append([]string{}, m.SearchFields...)
	m.ListFilter = append([]string{}, m.ListFilter...)
	return m, true
}

// Models nombres de los modelos configurados, ordenados.
func (t *Table) Models() []string {
	out := make([]string, 0, len(t.models))
	for name := range t.models {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
