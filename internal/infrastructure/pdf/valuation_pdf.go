// Package pdf implementa la representación imprimible del reporte de
// valoración de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + ventana del reporte + tasa del día         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | P.Local | Apert | E | S | Cierre │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: valor de apertura / valor de cierre                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ValuationPDFGenerator genera el reporte de valoración con Maroto v2.
type ValuationPDFGenerator struct{}

// NewValuationPDFGenerator construye el generador.
func NewValuationPDFGenerator() *ValuationPDFGenerator { return &ValuationPDFGenerator{} }

// Generate genera el PDF del reporte y devuelve sus bytes.
func (g *ValuationPDFGenerator) Generate(report *inventory.ValuationReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valoración de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(report.Lines) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y ventana + tasa (der).
func headerRow(report *inventory.ValuationReport) core.Row {
	window := fmt.Sprintf("%s — %s",
		report.Start.Format("02/01/2006"), report.End.Format("02/01/2006"))

	return row.New(16).Add(
		col.New(7).Add(
			text.New("VALORACIÓN DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Montos en Bs al tipo de cambio vigente", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Período: "+window, props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Tasa: Bs "+report.Rate.StringFixed(2)+" / USD", props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 1, align.Left),
		h("Descripción", 3, align.Left),
		h("P. Local", 2, align.Right),
		h("Apert.", 1, align.Right),
		h("Entr.", 1, align.Right),
		h("Sal.", 1, align.Right),
		h("Cierre", 1, align.Right),
		h("Valor Cierre", 2, align.Right),
	)
}

func tableLineRows(lines []inventory.ValuationLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	for _, l := range lines {
		result = append(result, row.New(6).Add(
			cell(l.Code, 1, align.Left),
			cell(l.Description, 3, align.Left),
			cell(l.PriceLocal.StringFixed(2), 2, align.Right),
			cell(fmt.Sprintf("%d", l.OpeningStock), 1, align.Right),
			cell(fmt.Sprintf("%d", l.Entries), 1, align.Right),
			cell(fmt.Sprintf("%d", l.Exits), 1, align.Right),
			cell(fmt.Sprintf("%d", l.ClosingStock), 1, align.Right),
			cell(l.ClosingValue.StringFixed(2), 2, align.Right),
		))
	}
	return result
}

func totalsRow(report *inventory.ValuationReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("Valor de apertura:"),
			grandLabel("VALOR DE CIERRE:"),
		),
		col.New(4).Add(
			value("Bs "+report.TotalOpening.StringFixed(2)),
			grandValue("Bs "+report.TotalClosing.StringFixed(2)),
		),
	)
}
