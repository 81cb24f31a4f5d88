// Package layout places a bill's blocks and rows onto fixed-size pages
package layout

import (
	"time"

	"github.com/itthad/dairy-bill/internal/rowsource"
	"github.com/shopspring/decimal"
)

// PaperSize is a physical sheet in points (1" = 72pt)
type PaperSize struct {
	Name   string
	Width  float64
	Height float64
}

// A4 is the only sheet bills are printed on
var A4 = PaperSize{Name: "A4", Width: 595.28, Height: 841.89}

// Role tags a draw operation with the bill section it belongs to
type Role string

const (
	RoleLetterhead  Role = "letterhead"
	RoleLogo        Role = "logo"
	RoleCustomer    Role = "customer"
	RoleInvoice     Role = "invoice"
	RoleTableHeader Role = "table-header"
	RoleRow         Role = "row"
	RoleTotals      Role = "totals"
	RoleFooter      Role = "footer"
)

// Op is a single draw operation on a page
type Op interface {
	role() Role
}

// TextOp draws text with its baseline at Y. Centered text is centered on
// the page by renderers whose fonts differ from the measurer's; X holds the
// measured position.
type TextOp struct {
	X, Y     float64
	Text     string
	Font     Font
	Size     float64
	Role     Role
	Centered bool
}

// LineOp draws a straight rule
type LineOp struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Role   Role
}

// ImageOp draws an image with its top-left corner at X, Y
type ImageOp struct {
	X, Y  float64
	W, H  float64
	Image *Image
	Role  Role
}

func (o TextOp) role() Role  { return o.Role }
func (o LineOp) role() Role  { return o.Role }
func (o ImageOp) role() Role { return o.Role }

// Page is one sheet of the document. Coordinates are points from the
// top-left corner.
type Page struct {
	Number int
	Width  float64
	Height float64
	Ops    []Op
	Rows   []rowsource.Row // Table rows placed on this page, in order
}

func newPage(number int, paper PaperSize) *Page {
	return &Page{Number: number, Width: paper.Width, Height: paper.Height}
}

// Text draws text with its baseline at y
func (p *Page) Text(x, y float64, text string, font Font, size float64, role Role) {
	p.Ops = append(p.Ops, TextOp{X: x, Y: y, Text: text, Font: font, Size: size, Role: role})
}

// CenteredText draws text horizontally centered using its measured width
func (p *Page) CenteredText(m Measurer, y float64, text string, font Font, size float64, role Role) {
	w := m.TextWidth(font, size, text)
	p.Ops = append(p.Ops, TextOp{X: (p.Width - w) / 2, Y: y, Text: text, Font: font, Size: size, Role: role, Centered: true})
}

// Line draws a rule from (x1, y1) to (x2, y2)
func (p *Page) Line(x1, y1, x2, y2, width float64, role Role) {
	p.Ops = append(p.Ops, LineOp{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Role: role})
}

// Image places img in the box (x, y, w, h)
func (p *Page) Image(img *Image, x, y, w, h float64, role Role) {
	p.Ops = append(p.Ops, ImageOp{X: x, Y: y, W: w, H: h, Image: img, Role: role})
}

// Texts returns the text operations tagged with role, in draw order
func (p *Page) Texts(role Role) []TextOp {
	var out []TextOp
	for _, op := range p.Ops {
		if t, ok := op.(TextOp); ok && t.Role == role {
			out = append(out, t)
		}
	}
	return out
}

// Has reports whether any operation on the page is tagged with role
func (p *Page) Has(role Role) bool {
	for _, op := range p.Ops {
		if op.role() == role {
			return true
		}
	}
	return false
}

// Document is the laid-out bill, ready for a renderer
type Document struct {
	Paper    PaperSize
	Pages    []*Page
	Template []byte // Optional background PDF for page 1

	InvoiceNumber string
	IssuedAt      time.Time
	Period        string

	Rows        []rowsource.Row
	Total       decimal.Decimal // Running total of the printed rows
	PreviousDue decimal.Decimal
	Discount    decimal.Decimal
	Payable     decimal.Decimal
}

// Images returns every distinct image referenced by the document
func (d *Document) Images() []*Image {
	seen := make(map[*Image]bool)
	var out []*Image
	for _, p := range d.Pages {
		for _, op := range p.Ops {
			if img, ok := op.(ImageOp); ok && img.Image != nil && !seen[img.Image] {
				seen[img.Image] = true
				out = append(out, img.Image)
			}
		}
	}
	return out
}
