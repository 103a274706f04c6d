// Package pdf genera el historial de movimientos de una solicitud en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Unidad de negocio    │  N° Solicitud + Generado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITUD: tipo, capacidad, período, inicio real, notas    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Equipo | Inicio | Fin | Estado | Motivo | Asignó    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la referencia de la solicitud                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
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

	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const dateLayout = "02/01/2006"

var _ report.HistoryPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.HistoryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateHistoryPDF(
	_ context.Context,
	req *entity.Request,
	chain []*entity.Assignment,
	generatedAt time.Time,
) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("pdf: solicitud nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Historial solicitud %d", req.ID), true).
		WithAuthor(req.BusinessUnit, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requestRows(req)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(chain) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("La solicitud no tiene asignaciones registradas.", props.Text{
				Size: 8, Top: 2, Color: colorGray, Align: align.Center,
			}),
		)))
	}
	m.AddRows(tableDetailRows(chain)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(req))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: unidad de negocio (izq) y N° de solicitud + fecha de emisión (der).
func headerRow(req *entity.Request, generatedAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(req.BusinessUnit, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Solicitó: "+nonEmpty(req.CreatorEmail, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HISTORIAL DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Solicitud N° %d", req.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func requestRows(req *entity.Request) []core.Row {
	start := "-"
	if req.StartOverride != nil {
		start = req.StartOverride.Format(dateLayout)
	}
	assigned := "-"
	if req.HasAssignedEquipment() {
		assigned = *req.AssignedEquipment
	}
	rows := []core.Row{
		row.New(14).Add(
			col.New(12).Add(
				text.New("DATOS DE LA SOLICITUD", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(fmt.Sprintf("Tipo: %s   |   Capacidad: %s   |   Equipo actual: %s",
					req.Type, nonEmpty(req.Capacity, "-"), assigned,
				), props.Text{Size: 8, Top: 6}),
				text.New(fmt.Sprintf("Período: %s al %s   |   Inicio real: %s",
					req.DateFrom.Format(dateLayout), req.DateTo.Format(dateLayout), start,
				), props.Text{Size: 8, Top: 10, Color: colorGray}),
			),
		),
	}
	if req.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Observaciones: "+req.Notes, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Equipo", 2, align.Left),
		h("Inicio", 2, align.Center),
		h("Fin", 2, align.Center),
		h("Estado", 2, align.Center),
		h("Motivo", 2, align.Left),
		h("Asignó", 2, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por asignación de la cadena.
func tableDetailRows(chain []*entity.Assignment) []core.Row {
	result := make([]core.Row, 0, len(chain))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, a := range chain {
		end := "abierta"
		if a.EndDate != nil {
			end = a.EndDate.Format(dateLayout)
		}
		status := a.Status
		if a.IsReplacement {
			status += " (reemplazo)"
		}
		result = append(result, row.New(7).Add(
			cell(a.EquipmentCode, 2, align.Left),
			cell(a.StartDate.Format(dateLayout), 2, align.Center),
			cell(end, 2, align.Center),
			cell(status, 2, align.Center),
			cell(nonEmpty(a.ReplacementReason, "-"), 2, align.Left),
			cell(nonEmpty(a.AssignedBy, "-"), 2, align.Left),
		))
	}
	return result
}

// footerRow: QR con la referencia de la solicitud.
func footerRow(req *entity.Request) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(fmt.Sprintf("SOLICITUD-%d", req.ID), props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Documento generado a partir del registro de asignaciones.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Las fechas de fin abiertas se extienden hasta el fin del período solicitado.", props.Text{
				Size: 7, Top: 10, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
