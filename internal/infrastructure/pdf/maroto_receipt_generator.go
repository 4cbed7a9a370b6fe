// Package pdf genera el comprobante de marcación en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUT  │  COMPROBANTE + Tipo          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRABAJADOR: Nombre + RUT                                   │
//	│  DETALLE: Fecha | Hora | Ubicación                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HASH (SHA-256) + QR de verificación pública                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ attendance.ReceiptPDFGenerator = (*MarotoReceiptGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa attendance.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, r attendance.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de marcación", true).
		WithAuthor(r.EmployerName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(workerRow(r))
	m.AddRows(detailRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, fr := range integrityRows(r) {
		m.AddRows(fr)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r attendance.Receipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.EmployerName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUT: "+r.EmployerRUT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE MARCACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(r.KindLabel, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func workerRow(r attendance.Receipt) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TRABAJADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(r.WorkerName, props.Text{Size: 10, Top: 6}),
			text.New("RUT: "+r.WorkerRUT, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

func detailRow(r attendance.Receipt) core.Row {
	location := r.Location
	if location == "" {
		location = "No informada"
	}
	cell := func(size int, label, value string) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(value, props.Text{Size: 9, Top: 5}),
		)
	}
	return row.New(12).Add(
		cell(3, "Fecha", r.Date),
		cell(3, "Hora", r.Time),
		cell(6, "Ubicación", location),
	)
}

// integrityRows: hash completo en fragmentos y QR hacia el verificador público.
func integrityRows(r attendance.Receipt) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CÓDIGO DE VERIFICACIÓN (SHA-256)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, chunk := range splitEvery(r.Hash, 32) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(3))

	if r.VerifyURL != "" {
		rows = append(rows, row.New(50).Add(
			col.New(4).Add(code.NewQr(r.VerifyURL, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para verificar\nla autenticidad de esta marcación.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(r.VerifyURL, props.Text{Size: 6.5, Top: 22, Left: 3, Color: colorPrimary}),
			),
		))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Registro de asistencia electrónico. El código de verificación se calcula sobre el RUT y nombre "+
				"del trabajador, la fecha y hora, el tipo de marcación y el RUT y razón social del empleador.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

func splitEvery(s string, n int) []string {
	var out []string
	for len(s) > n {
		out = append(out, s[:n])
		s = s[n:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
