package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
)

func TestGenerateShelfLabels(t *testing.T) {
	g := NewShelfLabelGenerator()
	g.now = func() time.Time { return time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC) }

	labels := []inventory.ShelfLabel{
		{Warehouse: "WH-A", Location: "A-01", Payload: inventory.LocationPayload("WH-A", "A-01"), PartNumbers: []string{"P-1", "P-2"}},
		{Warehouse: "WH-A", Location: "A-02", Payload: inventory.LocationPayload("WH-A", "A-02")},
		{Warehouse: "WH-A", Location: "B-01", Payload: inventory.LocationPayload("WH-A", "B-01"), PartNumbers: []string{"P-3"}},
		{Warehouse: "WH-A", Location: "B-02", Payload: inventory.LocationPayload("WH-A", "B-02"), PartNumbers: []string{"P-4"}},
	}
	out, err := g.GenerateShelfLabels(context.Background(), "WH-A", labels)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "salida no es un PDF")
}

func TestGenerateShelfLabels_Empty(t *testing.T) {
	out, err := NewShelfLabelGenerator().GenerateShelfLabels(context.Background(), "WH-Z", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPartsSummary(t *testing.T) {
	assert.Equal(t, "—", partsSummary(nil))
	assert.Equal(t, "P-1, P-2", partsSummary([]string{"P-1", "P-2"}))
	assert.Equal(t, "A, B, C, D +2", partsSummary([]string{"A", "B", "C", "D", "E", "F"}))
}

func TestLabelRowsPadsLastRow(t *testing.T) {
	labels := make([]inventory.ShelfLabel, 4)
	// 2 filas de etiquetas, cada una seguida de un separador
	assert.Len(t, labelRows(labels), 4)
}
