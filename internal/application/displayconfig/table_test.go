package displayconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

type stubRepo struct {
	rows []*entity.DisplaySetting
	err  error
}

func (s stubRepo) ListAll(context.Context) ([]*entity.DisplaySetting, error) { return s.rows, s.err }

func TestLoad_OrdenaPorOrder(t *testing.T) {
	repo := stubRepo{rows: []*entity.DisplaySetting{
		{ModelName: "inventory", FieldName: "quantity", DisplayName: "Cantidad", Order: 3, IsListDisplay: true},
		{ModelName: "inventory", FieldName: "part_number", DisplayName: "Parte", Order: 1, IsListDisplay: true, IsSearchField: true},
		{ModelName: "inventory", FieldName: "warehouse", Order: 2, IsListDisplay: true, IsListFilter: true, IsSearchField: true},
		{ModelName: "item", FieldName: "code", Order: 1, IsSearchField: true},
	}}

	table, err := Load(context.Background(), repo)
	require.NoError(t, err)

	inv, ok := table.Get("inventory")
	require.True(t, ok)
	require.Len(t, inv.ListDisplay, 3)
	assert.Equal(t, "part_number", inv.ListDisplay[0].Name)
	assert.Equal(t, "warehouse", inv.ListDisplay[1].DisplayName)
	assert.Equal(t, "quantity", inv.ListDisplay[2].Name)
	assert.Equal(t, []string{"part_number", "warehouse"}, inv.SearchFields)
	assert.Equal(t, []string{"warehouse"}, inv.ListFilter)

	assert.Equal(t, []string{"inventory", "item"}, table.Models())
	_, ok = table.Get("machine")
	assert.False(t, ok)
}

func TestGet_DevuelveCopias(t *testing.T) {
	table := Build([]*entity.DisplaySetting{{ModelName: "item", FieldName: "code", IsSearchField: true}})

	m, _ := table.Get("item")
	m.SearchFields[0] = "otro"

	again, _ := table.Get("item")
	assert.Equal(t, []string{"code"}, again.SearchFields)
}

func TestLoad_ErrorDelRepositorio(t *testing.T) {
	_, err := Load(context.Background(), stubRepo{err: errors.New("sin conexión")})
	assert.Error(t, err)
}
