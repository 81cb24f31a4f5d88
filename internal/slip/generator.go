// Package slip generates dairy bills as PDF documents or PNG images
package slip

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/itthad/dairy-bill/internal/layout"
	"github.com/itthad/dairy-bill/internal/renderer"
	"github.com/itthad/dairy-bill/internal/rowsource"
	"github.com/itthad/dairy-bill/pkg/billformat"
	"github.com/shopspring/decimal"
)

// ErrInvalidBill wraps every validation failure returned by the generator
var ErrInvalidBill = errors.New("invalid bill")

// Generator lays out and renders bills. It holds only immutable
// configuration and is safe for concurrent use.
type Generator struct {
	engine *layout.Engine
	pdf    renderer.Renderer
	image  renderer.Renderer
}

// Config configures a Generator. Nil fields fall back to defaults.
type Config struct {
	Assets   layout.AssetProvider
	Measurer layout.Measurer
	Options  layout.Options
	PDF      renderer.Renderer
	Image    renderer.Renderer
}

// New creates a generator. Text is measured with the PDF Helvetica metrics
// unless cfg supplies a measurer.
func New(cfg Config) *Generator {
	if cfg.Measurer == nil {
		cfg.Measurer = renderer.NewPDFMeasurer()
	}
	if cfg.PDF == nil {
		cfg.PDF = renderer.NewPDF()
	}
	if cfg.Image == nil {
		cfg.Image = renderer.NewImage(0, -1)
	}

	return &Generator{
		engine: layout.NewEngine(cfg.Measurer, cfg.Assets, cfg.Options),
		pdf:    cfg.PDF,
		image:  cfg.Image,
	}
}

// GenerateSlip renders the bill as a PDF
func (g *Generator) GenerateSlip(ctx context.Context, c billformat.Customer, b billformat.Billing) ([]byte, error) {
	return g.generate(ctx, c, b, "pdf", g.pdf)
}

// GenerateSlipImage renders the bill as one PNG with the pages stacked
func (g *Generator) GenerateSlipImage(ctx context.Context, c billformat.Customer, b billformat.Billing) ([]byte, error) {
	return g.generate(ctx, c, b, "png", g.image)
}

func (g *Generator) generate(ctx context.Context, c billformat.Customer, b billformat.Billing, kind string, r renderer.Renderer) ([]byte, error) {
	if err := billformat.ValidateBilling(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBill, err)
	}

	start := time.Now()

	doc, err := g.engine.Layout(ctx, c, b)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out bill: %w", err)
	}

	out, err := r.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", kind, err)
	}

	log.Printf("slip: %s for %q, %d page(s), %d bytes in %v", kind, c.Name, len(doc.Pages), len(out), time.Since(start))

	return out, nil
}

// PreviewRow is one table row with its printed cell text
type PreviewRow struct {
	Product     billformat.Product `json:"product"`
	Date        billformat.Date    `json:"date"`
	Description string             `json:"description"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Rate        decimal.Decimal    `json:"rate"`
	Amount      decimal.Decimal    `json:"amount"`
	Cells       [4]string          `json:"cells"`
}

// Preview is the bill content without layout or rendering
type Preview struct {
	Rows        []PreviewRow    `json:"rows"`
	Period      string          `json:"period"`
	Total       decimal.Decimal `json:"total"`
	PreviousDue decimal.Decimal `json:"previous_due"`
	Discount    decimal.Decimal `json:"discount"`
	Payable     decimal.Decimal `json:"payable"`
	Filename    string          `json:"filename"`
}

// Preview returns the rows and totals a bill would print
func (g *Generator) Preview(c billformat.Customer, b billformat.Billing) (*Preview, error) {
	if err := billformat.ValidateBilling(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBill, err)
	}

	rows := rowsource.Rows(b)
	total := rowsource.Total(rows)

	p := &Preview{
		Rows:        make([]PreviewRow, 0, len(rows)),
		Period:      b.PeriodLabel(),
		Total:       total,
		PreviousDue: b.PreviousDue,
		Discount:    b.Discount,
		Payable:     b.Payable(total),
		Filename:    billformat.Filename(c, b, "pdf"),
	}
	for _, r := range rows {
		p.Rows = append(p.Rows, PreviewRow{
			Product:     r.Product,
			Date:        r.Date,
			Description: r.Description,
			Quantity:    r.Quantity,
			Rate:        r.Rate,
			Amount:      r.Amount,
			Cells: [4]string{
				r.Description,
				layout.FormatQuantity(r.Quantity),
				layout.FormatRate(r.Rate),
				layout.FormatAmount(r.Amount),
			},
		})
	}

	return p, nil
}
