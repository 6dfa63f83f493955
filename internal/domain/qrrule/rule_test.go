package qrrule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/qrrule"
)

func TestCompile_GruposConNombreEIndice(t *testing.T) {
	r, err := qrrule.Compile("ubicacion", `LOC:(?P<wh>[^:]+):(?P<loc>.+)`,
		"# etiqueta de estante\naction = show_location\nwarehouse = ${wh}\nlocation = ${loc}\ntarget = /stock/${1}/${2}", 1)
	require.NoError(t, err)

	res, ok := r.Apply("LOC:WH1:A-01")
	require.True(t, ok)
	assert.Equal(t, "ubicacion", res.Rule)
	assert.Equal(t, qrrule.ActionShowLocation, res.Action)
	assert.Equal(t, map[string]string{
		"warehouse": "WH1",
		"location":  "A-01",
		"target":    "/stock/WH1/A-01",
	}, res.Params)
}

func TestApply_CoincidenciaCompleta(t *testing.T) {
	r, err := qrrule.Compile("parte", `P:(\w+)`, "action = show_inventory\npart_number = ${1}", 1)
	require.NoError(t, err)

	_, ok := r.Apply("xP:ABC")
	assert.False(t, ok, "el patrón se ancla al texto completo")
	_, ok = r.Apply("P:ABC-1")
	assert.False(t, ok)

	res, ok := r.Apply("P:ABC")
	require.True(t, ok)
	assert.Equal(t, "ABC", res.Params["part_number"])
}

func TestApply_TextoCompleto(t *testing.T) {
	r, err := qrrule.Compile("crudo", `.+`, "action = navigate\ntarget = /buscar?q=${0}", 1)
	require.NoError(t, err)
	res, ok := r.Apply("12345")
	require.True(t, ok)
	assert.Equal(t, "/buscar?q=12345", res.Params["target"])
}

func TestCompile_Rechazos(t *testing.T) {
	tests := []struct {
		name, pattern, body string
	}{
		{"patrón vacío", "", "action = navigate"},
		{"patrón inválido", "(", "action = navigate"},
		{"sin action", `P:(.+)`, "part_number = ${1}"},
		{"acción no admitida", `P:(.+)`, "action = exec"},
		{"clave desconocida", `P:(.+)`, "action = navigate\ncommand = rm"},
		{"clave repetida", `P:(.+)`, "action = navigate\ntarget = a\ntarget = b"},
		{"línea sin igual", `P:(.+)`, "action = navigate\ntarget"},
		{"grupo inexistente", `P:(.+)`, "action = navigate\ntarget = ${2}"},
		{"nombre inexistente", `P:(.+)`, "action = navigate\ntarget = ${wh}"},
		{"referencia sin cerrar", `P:(.+)`, "action = navigate\ntarget = ${1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := qrrule.Compile("r", tt.pattern, tt.body, 0)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestEngine_PrioridadYReglasInactivas(t *testing.T) {
	e, errs := qrrule.NewEngine([]*entity.QrCodeAction{
		{Name: "generica", Pattern: `.+`, Rule: "action = navigate\ntarget = ${0}", Priority: 100, IsActive: true},
		{Name: "pedido", Pattern: `PO:(.+)`, Rule: "action = show_purchase_order\norder_number = ${1}", Priority: 10, IsActive: true},
		{Name: "apagada", Pattern: `PO:(.+)`, Rule: "action = navigate", Priority: 1, IsActive: false},
		{Name: "rota", Pattern: `(`, Rule: "action = navigate", Priority: 5, IsActive: true},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, 2, e.Len())

	res, ok := e.Match("PO:4500")
	require.True(t, ok)
	assert.Equal(t, "pedido", res.Rule)
	assert.Equal(t, "4500", res.Params["order_number"])

	res, ok = e.Match("otra cosa")
	require.True(t, ok)
	assert.Equal(t, "generica", res.Rule)
}

func TestEngine_SinCoincidencia(t *testing.T) {
	e, errs := qrrule.NewEngine(nil)
	assert.Empty(t, errs)
	_, ok := e.Match("PO:1")
	assert.False(t, ok)
}
