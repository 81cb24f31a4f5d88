package layout

import (
	"context"
	"fmt"
	"log"

	"github.com/itthad/dairy-bill/internal/rowsource"
	"github.com/itthad/dairy-bill/pkg/billformat"
)

// Vertical budget, in points
const (
	bottomMargin    = 40.0
	continuationTop = 50.0
)

// Engine lays out bills. It holds only immutable configuration and is safe
// for concurrent use.
type Engine struct {
	measurer Measurer
	assets   AssetProvider
	opts     Options
}

// NewEngine creates a layout engine. A nil provider means no assets.
func NewEngine(m Measurer, assets AssetProvider, opts Options) *Engine {
	if assets == nil {
		assets = NoAssets{}
	}
	return &Engine{
		measurer: m,
		assets:   assets,
		opts:     opts.withDefaults(),
	}
}

// block is a unit of content that is never split across pages
type block struct {
	name   string
	height float64
	draw   func(p *Page, top float64) error
}

// run is the state of one Layout call
type run struct {
	*Engine
	doc    *Document
	page   *Page
	cursor float64 // Top of the free area on the current page
	used   bool    // Whether a block has been placed on the current page
}

// Layout turns a customer and billing record into pages. Rows overflow onto
// continuation pages that repeat the table header; totals and footer move
// to a new page when they do not fit below the last row.
func (e *Engine) Layout(ctx context.Context, c billformat.Customer, b billformat.Billing) (*Document, error) {
	rows := rowsource.Rows(b)

	doc := &Document{
		Paper:         e.opts.Paper,
		InvoiceNumber: e.opts.InvoiceNumber(),
		IssuedAt:      e.opts.Now(),
		Period:        b.PeriodLabel(),
		Rows:          rows,
		PreviousDue:   b.PreviousDue,
		Discount:      b.Discount,
	}

	// Assets are fetched one after the other; only the logo size matters to the layout
	logo, hasLogo := e.assets.Logo(ctx)
	if !hasLogo {
		logo = nil
	}
	if tpl, ok := e.assets.Template(ctx); ok {
		doc.Template = tpl
	}

	r := &run{Engine: e, doc: doc}
	r.addPage()

	start := []block{
		r.letterheadBlock(logo),
		r.partiesBlock(c),
		r.tableHeaderBlock(),
	}
	for _, blk := range start {
		if err := r.place(blk, nil); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		if err := r.place(r.rowBlock(row), r.repeatTableHeader); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		r.page.Rows = append(r.page.Rows, row)
		doc.Total = doc.Total.Add(row.Amount)
	}

	doc.Payable = b.Payable(doc.Total)

	if err := r.place(r.totalsBlock(), nil); err != nil {
		return nil, err
	}
	if err := r.place(r.footerBlock(), nil); err != nil {
		return nil, err
	}

	log.Printf("layout: invoice %s: %d rows on %d page(s)", doc.InvoiceNumber, len(rows), len(doc.Pages))

	return doc, nil
}

func (r *run) addPage() {
	r.page = newPage(len(r.doc.Pages)+1, r.opts.Paper)
	r.doc.Pages = append(r.doc.Pages, r.page)
	r.cursor = 0
	r.used = false
}

func (r *run) limit() float64 {
	return r.opts.Paper.Height - bottomMargin
}

// place draws blk at the cursor, opening a new page first when it does not
// fit. onBreak runs on the new page before blk is drawn. A block taller than
// an empty page is drawn anyway rather than looping.
func (r *run) place(blk block, onBreak func() error) error {
	if r.used && r.cursor+blk.height > r.limit() {
		r.addPage()
		r.cursor = continuationTop
		if onBreak != nil {
			if err := onBreak(); err != nil {
				return err
			}
		}
	}

	if err := blk.draw(r.page, r.cursor); err != nil {
		return fmt.Errorf("failed to draw %s: %w", blk.name, err)
	}
	r.cursor += blk.height
	r.used = true

	return nil
}

func (r *run) repeatTableHeader() error {
	blk := r.tableHeaderBlock()
	if err := blk.draw(r.page, r.cursor); err != nil {
		return fmt.Errorf("failed to draw %s: %w", blk.name, err)
	}
	r.cursor += blk.height
	return nil
}
