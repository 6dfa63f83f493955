// Package pdf genera las hojas de etiquetas de estantería.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Bodega + fecha de emisión + total de ubicaciones    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ┌─────────┐ ┌─────────┐ ┌─────────┐                         │
//	│  │   QR    │ │   QR    │ │   QR    │   3 etiquetas por fila   │
//	│  │ A-01    │ │ A-02    │ │ B-01    │                         │
//	│  │ partes  │ │ partes  │ │ partes  │                         │
//	│  └─────────┘ └─────────┘ └─────────┘                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// labelsPerRow etiquetas por fila (12 columnas de la grilla / 4).
const labelsPerRow = 3

// maxPartsPerLabel partes listadas bajo el QR; el resto se resume como "+N".
const maxPartsPerLabel = 4

var _ inventory.ShelfLabelGenerator = (*ShelfLabelGenerator)(nil)

// ShelfLabelGenerator implementa inventory.ShelfLabelGenerator usando Maroto v2.
type ShelfLabelGenerator struct {
	now func() time.Time
}

// NewShelfLabelGenerator construye el generador.
func NewShelfLabelGenerator() *ShelfLabelGenerator {
	return &ShelfLabelGenerator{now: time.Now}
}

// GenerateShelfLabels genera el PDF y devuelve sus bytes.
func (g *ShelfLabelGenerator) GenerateShelfLabels(
	_ context.Context,
	warehouse string,
	labels []inventory.ShelfLabel,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etiquetas de estantería "+warehouse, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(warehouse, len(labels), g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(labels) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("La bodega no tiene ubicaciones con inventario.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range labelRows(labels) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: bodega (izq) y fecha + cantidad de etiquetas (der).
func headerRow(warehouse string, count int, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("ETIQUETAS DE ESTANTERÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Bodega "+warehouse, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
		),
		col.New(5).Add(
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d ubicaciones", count), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// labelRows: grilla de etiquetas, labelsPerRow por fila.
func labelRows(labels []inventory.ShelfLabel) []core.Row {
	size := 12 / labelsPerRow
	var rows []core.Row
	for i := 0; i < len(labels); i += labelsPerRow {
		cols := make([]core.Col, 0, labelsPerRow)
		for j := i; j < i+labelsPerRow; j++ {
			if j >= len(labels) {
				cols = append(cols, col.New(size))
				continue
			}
			cols = append(cols, labelCol(labels[j], size))
		}
		rows = append(rows, row.New(48).Add(cols...), row.New(4))
	}
	return rows
}

// labelCol: QR de la ubicación y debajo su código y las partes que contiene.
func labelCol(l inventory.ShelfLabel, size int) core.Col {
	return col.New(size).Add(
		code.NewQr(l.Payload, props.Rect{Percent: 60, Center: false, Left: 2, Top: 1}),
		text.New(nonEmpty(l.Location, "(sin ubicación)"), props.Text{
			Style: fontstyle.Bold, Size: 11, Top: 32, Left: 2,
		}),
		text.New(partsSummary(l.PartNumbers), props.Text{
			Size: 7, Top: 39, Left: 2, Right: 2, Color: colorGray,
		}),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// partsSummary lista hasta maxPartsPerLabel partes. Ej: "P-1, P-2 +3".
func partsSummary(parts []string) string {
	if len(parts) == 0 {
		return "—"
	}
	if len(parts) <= maxPartsPerLabel {
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%s +%d", strings.Join(parts[:maxPartsPerLabel], ", "), len(parts)-maxPartsPerLabel)
}
