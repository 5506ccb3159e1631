// Package pdf genera el comprobante imprimible de un retiro registrado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Comprobante de retiro  │  ID + Fecha                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RETIRA: Distribuidor + registrado por                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Lote | Vence | Cant | Total | Efectivo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades / Monto / Efectivo requerido              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID del retiro                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

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

	"github.com/jhoicas/retiros-api/internal/application/inventory"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
	"github.com/jhoicas/retiros-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa inventory.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// Render genera el PDF del retiro y devuelve sus bytes.
func (g *ReceiptGenerator) Render(w *entity.Withdrawal) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("pdf: retiro nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de retiro "+w.ID, true).
		WithAuthor(w.DistributorCode, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(w))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(withdrawerRow(w))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(w.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(w))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(w))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(w *entity.Withdrawal) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE RETIRO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario compartido entre distribuidores", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+w.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+w.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func withdrawerRow(w *entity.Withdrawal) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DISTRIBUIDOR QUE RETIRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Código: %s   |   Registrado por: %s",
				nonEmpty(w.DistributorCode, "-"),
				strconv.Itoa(w.WithdrawBy),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
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
		h("Producto", 2, align.Left),
		h("Lote", 3, align.Left),
		h("Vence", 2, align.Center),
		h("Cant.", 1, align.Center),
		h("Total", 2, align.Right),
		h("Efectivo", 2, align.Right),
	)
}

func tableDetailRows(lines []entity.WithdrawalLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		source := "Lote de " + l.OwnerCode
		if l.IsDirectOrder() {
			source = "Pedido directo"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(source, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(l.ExpiryDate, "-"), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(l.Qty), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.Format(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.Format(l.RequiredCash), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(w *entity.Withdrawal) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 12,
		})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades:"),
			text.New("Monto total:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			grand("EFECTIVO REQUERIDO:", 2),
		),
		col.New(3).Add(
			value(strconv.Itoa(w.TotalUnits), 0),
			value(money.Format(w.TotalAmount), 6),
			grand(money.Format(w.RequiredCash), 1),
		),
	)
}

func footerRow(w *entity.Withdrawal) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(w.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Presente este código al retirar la mercancía.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Las líneas de lotes propios no requieren efectivo.", props.Text{
				Size: 7, Top: 12, Left: 3, Color: colorGray,
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
