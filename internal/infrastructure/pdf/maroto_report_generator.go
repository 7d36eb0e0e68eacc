// Package pdf genera el reporte de estoque en PDF a partir de la vista del
// dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Productos | Unidades | Valor | Vencidos | Próximos │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MARCAS: top marcas  │  TIPOS: productos por tipo            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Marca | Vence | Días                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Productos recientes                                  │
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

	"github.com/jhoicas/stockctl/internal/application/analytics"
	"github.com/jhoicas/stockctl/internal/pkg/format"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	Author string
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{Author: author}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockReport(_ context.Context, view *analytics.DashboardView) ([]byte, error) {
	if view == nil {
		return nil, fmt.Errorf("pdf: vista de dashboard vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de estoque", true).
		WithAuthor(nonEmpty(g.Author, "stockctl"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(view))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(view))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(rankingRows(view)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("Vencem nos próximos %d dias", view.HorizonDays)))
	m.AddRows(tableHeaderRow("Produto", "Marca", "Validade", "Situação"))
	m.AddRows(expiringRows(view.Expiring)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("Produtos recentes"))
	m.AddRows(tableHeaderRow("Produto", "Marca", "Unidades", "Preço"))
	m.AddRows(recentRows(view)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(view *analytics.DashboardView) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("RELATÓRIO DE ESTOQUE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pet shop", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Gerado em "+format.DateTime(view.GeneratedAt), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cinco tarjetas con los totales.
func summaryRow(view *analytics.DashboardView) core.Row {
	card := func(label, value string, c *props.Color) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: c, Top: 6, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		card("Produtos", format.Number(view.TotalProducts), colorPrimary),
		card("Unidades", format.Number(view.TotalUnits), colorPrimary),
		col.New(2).Add(
			text.New("Valor em estoque", props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(view.TotalValueText, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 6, Align: align.Center}),
		),
		card("Vencidos", format.Number(view.ExpiredCount), colorDanger),
		card("Próximos", format.Number(view.NearCount), colorDanger),
		col.New(2),
	)
}

// rankingRows: marcas (izq) y tipos (der), lado a lado.
func rankingRows(view *analytics.DashboardView) []core.Row {
	rows := []core.Row{row.New(7).Add(
		col.New(6).Add(text.New("Marcas mais registradas", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2})),
		col.New(6).Add(text.New("Produtos por tipo", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2})),
	)}
	n := max(len(view.TopBrands), len(view.ProductsByType))
	for i := range n {
		left, right := col.New(6), col.New(6)
		if i < len(view.TopBrands) {
			b := view.TopBrands[i]
			left = col.New(6).Add(text.New(fmt.Sprintf("%d. %s (%d)", i+1, b.Brand, b.Count), props.Text{Size: 8, Top: 1, Left: 2}))
		}
		if i < len(view.ProductsByType) {
			t := view.ProductsByType[i]
			right = col.New(6).Add(text.New(fmt.Sprintf("%s: %d", t.Name, t.Value), props.Text{Size: 8, Top: 1, Left: 2}))
		}
		rows = append(rows, row.New(5).Add(left, right))
	}
	return rows
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func tableHeaderRow(a, b, c, d string) core.Row {
	h := func(label string, size int, al align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: al, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h(a, 5, align.Left),
		h(b, 3, align.Left),
		h(c, 2, align.Right),
		h(d, 2, align.Right),
	)
}

func expiringRows(items []analytics.ExpiringItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{emptyRow("Nenhum produto próximo do vencimento.")}
	}
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		label := it.Label
		if label == "" {
			label = "-"
		}
		rows = append(rows, dataRow(it.Name, it.Brand, format.DatePtr(it.ExpirationDate), label))
	}
	return rows
}

func recentRows(view *analytics.DashboardView) []core.Row {
	if len(view.Recent) == 0 {
		return []core.Row{emptyRow("Nenhum produto cadastrado.")}
	}
	rows := make([]core.Row, 0, len(view.Recent))
	for _, p := range view.Recent {
		rows = append(rows, dataRow(p.Name, p.Brand, strconv.Itoa(p.Units), format.BRL(p.Price)))
	}
	return rows
}

func dataRow(a, b, c, d string) core.Row {
	cell := func(s string, size int, al align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: al, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(6).Add(
		cell(a, 5, align.Left),
		cell(b, 3, align.Left),
		cell(c, 2, align.Right),
		cell(d, 2, align.Right),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
