// Package pdf implementa el reporte kardex de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del producto + categoría │ Fecha de corte    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Stock inicial / Entradas / Salidas / Stock actual  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cantidad | Saldo | Ejecutado por      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado de conciliación                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Restaurante-api/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorRed     = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.ReportGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa inventory.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName string
}

// NewMarotoPDFGenerator construye el generador. appName aparece como autor del documento.
func NewMarotoPDFGenerator(appName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateKardexPDF(_ context.Context, report inventory.KardexReport) ([]byte, error) {
	if report.Product == nil {
		return nil, fmt.Errorf("pdf: producto requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex - "+report.Product.Name, true).
		WithAuthor(nonEmpty(g.appName, "restaurante-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Balance, report.Product.Stock))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(openingRow(report.Product))
	for _, r := range tableDetailRows(report.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report.Balance, report.Product.Stock))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: producto + categoría (izq) y fecha de corte (der).
func headerRow(report inventory.KardexReport) core.Row {
	p := report.Product
	estado := "Activo"
	if !p.IsActive {
		estado = "Inactivo"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Precio: $%s   |   %s", p.Category, p.Price.StringFixed(2), estado), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Corte: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: totales del libro.
func summaryRow(b domaininv.Balance, stock int64) core.Row {
	cell := func(label string, value int64) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(formatQty(value), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 5}),
		)
	}
	return row.New(14).Add(
		cell("Stock inicial", b.Opening),
		cell("Entradas", b.Entradas),
		cell("Salidas", b.Salidas),
		cell("Stock actual", stock),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Tipo", 2, align.Center),
		h("Cantidad", 2, align.Right),
		h("Saldo", 2, align.Right),
		h("Ejecutado por", 3, align.Left),
	)
}

// openingRow: primera línea con el stock de apertura.
func openingRow(p *entity.Product) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(p.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New("APERTURA", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray})),
		col.New(2),
		col.New(2).Add(text.New(formatQty(p.OpeningStock), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3),
	)
}

// tableDetailRows: una fila por movimiento.
func tableDetailRows(lines []domaininv.KardexLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		m := l.Movement
		qty := formatQty(m.Quantity)
		if m.Type == entity.MovementTypeSalida {
			qty = "-" + qty
		}
		executor := m.ExecutedByID
		if m.ExecutedBy != nil {
			executor = nonEmpty(m.ExecutedBy.Name, m.ExecutedBy.Email)
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(m.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(string(m.Type), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatQty(l.Balance), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(executor, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

// footerRow: resultado de la conciliación stock vs libro.
func footerRow(b domaininv.Balance, stock int64) core.Row {
	msg := fmt.Sprintf("Libro conciliado: stock esperado %s = stock actual %s", formatQty(b.Expected()), formatQty(stock))
	color := colorGreen
	if !b.Consistent(stock) {
		msg = fmt.Sprintf("DESCUADRE: stock esperado %s, stock actual %s", formatQty(b.Expected()), formatQty(stock))
		color = colorRed
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(msg, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: color, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles. Ej: 25000 → "25.000".
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	out := formatMoney(s)
	if neg {
		return "-" + out
	}
	return out
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
