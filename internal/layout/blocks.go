package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/itthad/dairy-bill/internal/rowsource"
	"github.com/itthad/dairy-bill/pkg/billformat"
)

// Horizontal grid, in points
const (
	leftMargin = 50.0
	rightColX  = 400.0

	colDescription = 60.0
	colQuantity    = 300.0
	colUnitPrice   = 400.0
	colAmount      = 480.0

	totalsLabelX = 380.0
	totalsValueX = 480.0

	logoX      = 40.0
	logoBottom = 130.0
	logoBox    = 80.0
)

// Block heights
const (
	letterheadHeight  = 165.0
	partiesHeight     = 85.0
	tableHeaderHeight = 30.0
	rowHeight         = 25.0
	totalsHeight      = 125.0
	footerHeight      = 150.0

	barcodeWidth  = 140.0
	barcodeHeight = 24.0
	qrSize        = 80.0
	qrGap         = 5.0
)

func (r *run) letterheadBlock(logo *Image) block {
	lh := r.opts.Letterhead
	return block{
		name:   "letterhead",
		height: letterheadHeight,
		draw: func(p *Page, top float64) error {
			if logo != nil && logo.Width > 0 && logo.Height > 0 {
				scale := math.Min(logoBox/float64(logo.Width), logoBox/float64(logo.Height))
				w := float64(logo.Width) * scale
				h := float64(logo.Height) * scale
				p.Image(logo, logoX, top+logoBottom-h, w, h, RoleLogo)
			}

			p.CenteredText(r.measurer, top+60, lh.Company, Bold, 22, RoleLetterhead)
			p.CenteredText(r.measurer, top+80, lh.Address, Regular, 10, RoleLetterhead)
			p.CenteredText(r.measurer, top+98, lh.Contact, Bold, 12, RoleLetterhead)
			p.CenteredText(r.measurer, top+115, lh.Slogan, Regular, 10, RoleLetterhead)
			return nil
		},
	}
}

func (r *run) partiesBlock(c billformat.Customer) block {
	doc := r.doc
	return block{
		name:   "customer and invoice info",
		height: partiesHeight,
		draw: func(p *Page, top float64) error {
			y := top + 15
			p.Text(leftMargin, y, "Bill To: "+c.Name, Bold, 12, RoleCustomer)
			y += 18

			if strings.TrimSpace(c.FatherName) != "" {
				p.Text(leftMargin, y, "S/O: "+c.FatherName, Regular, 11, RoleCustomer)
				y += 18
			}

			p.Text(leftMargin, y, "Phone: "+c.Phone, Regular, 11, RoleCustomer)
			y += 18
			p.Text(leftMargin, y, "Address: "+c.Address, Regular, 11, RoleCustomer)

			infoY := top + 15
			p.Text(rightColX, infoY, "Invoice No: "+doc.InvoiceNumber, Regular, 11, RoleInvoice)
			p.Text(rightColX, infoY+18, "Date: "+doc.IssuedAt.Format(billformat.DisplayLayout), Regular, 11, RoleInvoice)
			if doc.Period != "" {
				p.Text(rightColX, infoY+36, "Period: "+doc.Period, Regular, 11, RoleInvoice)
			}

			if r.opts.InvoiceBarcode {
				img, err := Code128(doc.InvoiceNumber, int(barcodeWidth*2), int(barcodeHeight*2))
				if err != nil {
					return err
				}
				p.Image(img, rightColX, infoY+42, barcodeWidth, barcodeHeight, RoleInvoice)
			}
			return nil
		},
	}
}

func (r *run) tableHeaderBlock() block {
	return block{
		name:   "table header",
		height: tableHeaderHeight,
		draw: func(p *Page, top float64) error {
			right := p.Width - leftMargin
			p.Line(leftMargin, top, right, top, 1.5, RoleTableHeader)

			y := top + 18
			p.Text(colDescription, y, "Description", Bold, 12, RoleTableHeader)
			p.Text(colQuantity, y, "Quantity", Bold, 12, RoleTableHeader)
			p.Text(colUnitPrice, y, "Unit Price", Bold, 12, RoleTableHeader)
			p.Text(colAmount, y, "Amount", Bold, 12, RoleTableHeader)

			p.Line(leftMargin, top+tableHeaderHeight, right, top+tableHeaderHeight, 1, RoleTableHeader)
			return nil
		},
	}
}

func (r *run) rowBlock(row rowsource.Row) block {
	return block{
		name:   "row",
		height: rowHeight,
		draw: func(p *Page, top float64) error {
			y := top + 20
			p.Text(colDescription, y, row.Description, Regular, 11, RoleRow)
			p.Text(colQuantity, y, FormatQuantity(row.Quantity), Regular, 11, RoleRow)
			p.Text(colUnitPrice, y, FormatRate(row.Rate), Regular, 11, RoleRow)
			p.Text(colAmount, y, FormatAmount(row.Amount), Regular, 11, RoleRow)
			return nil
		},
	}
}

func (r *run) totalsBlock() block {
	doc := r.doc
	return block{
		name:   "totals",
		height: totalsHeight,
		draw: func(p *Page, top float64) error {
			y := top + 60
			p.Text(totalsLabelX, y, "Total:", Bold, 12, RoleTotals)
			p.Text(totalsValueX, y, FormatAmount(doc.Total), Bold, 12, RoleTotals)

			lines := []struct {
				label string
				value string
			}{
				{"Due Amount:", FormatAmount(doc.PreviousDue)},
				{"Discount:", FormatAmount(doc.Discount)},
				{"Payable:", FormatAmount(doc.Payable)},
			}
			for _, l := range lines {
				y += 20
				p.Text(totalsLabelX, y, l.label, Regular, 11, RoleTotals)
				p.Text(totalsValueX, y, l.value, Regular, 11, RoleTotals)
			}
			return nil
		},
	}
}

func (r *run) footerBlock() block {
	lh := r.opts.Letterhead
	doc := r.doc

	height := footerHeight
	if r.opts.PaymentQR {
		height += qrGap + qrSize
	}

	return block{
		name:   "footer",
		height: height,
		draw: func(p *Page, top float64) error {
			p.CenteredText(r.measurer, top+52, lh.TermsHeading, Bold, 12, RoleFooter)
			p.CenteredText(r.measurer, top+70, lh.Instruction, Regular, 10, RoleFooter)
			p.CenteredText(r.measurer, top+92, lh.AccountTitle, Bold, 12, RoleFooter)
			p.CenteredText(r.measurer, top+112, lh.AccountBank, Bold, 14, RoleFooter)
			p.CenteredText(r.measurer, top+142, lh.Closing, Bold, 12, RoleFooter)

			if r.opts.PaymentQR {
				content := fmt.Sprintf("%s\n%s\nInvoice: %s\nPayable: %s",
					lh.AccountTitle, lh.AccountBank, doc.InvoiceNumber, FormatAmount(doc.Payable))
				img, err := QRCode(content, int(qrSize*2))
				if err != nil {
					return err
				}
				p.Image(img, (p.Width-qrSize)/2, top+footerHeight+qrGap, qrSize, qrSize, RoleFooter)
			}
			return nil
		},
	}
}
