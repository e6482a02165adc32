// Package pdf genera el reporte de pendencias de un pedido conferido contra la NFe.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Pedido N°              │  NFe N° / Serie / Emisión  │
//	│  EMISOR: Razón social + CNPJ                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Estado | Ped. | Fact. | Pend. │
//	│         | P.Unit | Valor                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Piezas pendientes / Valor pendiente                │
//	│  FOOTER: Huella del documento                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pedidos-api/internal/domain/entity"
	"github.com/jhoicas/pedidos-api/internal/domain/reconciliation"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PendencyPDFGenerator implementa el exportador de pendencias usando Maroto v2.
type PendencyPDFGenerator struct{}

// NewPendencyPDFGenerator construye el generador.
func NewPendencyPDFGenerator() *PendencyPDFGenerator { return &PendencyPDFGenerator{} }

func (g *PendencyPDFGenerator) Format() string      { return "pdf" }
func (g *PendencyPDFGenerator) ContentType() string { return "application/pdf" }

// Export genera el PDF y devuelve sus bytes.
func (g *PendencyPDFGenerator) Export(orderNumber string, report reconciliation.PendencyReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de pendencias "+orderNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(orderNumber, report.Invoice))
	m.AddRows(issuerRow(report.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin pendencias: la nota fiscal cubre todo el pedido.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	for _, r := range tableDetailRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	if report.Invoice.Fingerprint != "" {
		m.AddRows(line.NewRow(3))
		for _, r := range fingerprintRows(report.Invoice.Fingerprint) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: pedido (izq) y datos de la NFe (der).
func headerRow(orderNumber string, inv entity.InvoiceMeta) core.Row {
	nfe := "NFe " + nonEmpty(inv.Number, "-")
	if inv.Series != "" {
		nfe += " / Serie " + inv.Series
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REPORTE DE PENDENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido: "+nonEmpty(orderNumber, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(nfe, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Emisión: "+nonEmpty(inv.EmittedAt, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Total NFe: R$ "+formatMoney(inv.DeclaredTotal), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// issuerRow: proveedor que emitió la nota.
func issuerRow(inv entity.InvoiceMeta) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Emisor: %s   |   CNPJ/CPF: %s",
				nonEmpty(inv.IssuerName, "-"),
				nonEmpty(inv.IssuerTaxID, "-"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
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
		h("Código", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Estado", 1, align.Center),
		h("Ped.", 1, align.Right),
		h("Fact.", 1, align.Right),
		h("Pend.", 1, align.Right),
		h("P. Unit.", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableDetailRows: una fila por código con faltante.
func tableDetailRows(items []reconciliation.PendencyItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, it := range items {
		result = append(result, row.New(7).Add(
			cell(it.Code, 2, align.Left),
			cell(truncate(it.Description, 38), 3, align.Left),
			cell(string(it.Status), 1, align.Center),
			cell(it.OrderedQuantity.String(), 1, align.Right),
			cell(it.InvoicedQuantity.String(), 1, align.Right),
			cell(it.PendingQuantity.String(), 1, align.Right),
			cell(formatMoney(it.UnitPrice), 1, align.Right),
			cell("R$ "+formatMoney(it.PendingValue), 2, align.Right),
		))
	}
	return result
}

func totalsRow(report reconciliation.PendencyReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorAlert, Right: 1, Top: top,
		})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Piezas pendientes:"),
			text.New("Valor pendiente:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
		),
		col.New(3).Add(
			value(report.TotalPendingPieces.String(), 0),
			value("R$ "+formatMoney(report.TotalPendingValue), 6),
		),
	)
}

// fingerprintRows: huella SHA-256 partida en fragmentos de 64 caracteres.
func fingerprintRows(fp string) []core.Row {
	rows := []core.Row{row.New(5).Add(col.New(12).Add(
		text.New("Huella del documento (SHA-256 C14N):", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
	))}
	for _, chunk := range splitEvery(fp, 64) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
