package layout

import (
	"math/rand"
	"strconv"
	"time"
)

// Letterhead holds the fixed header and footer text of every bill
type Letterhead struct {
	Company string
	Address string
	Contact string
	Slogan  string

	TermsHeading string
	Instruction  string
	AccountTitle string
	AccountBank  string
	Closing      string
}

// DefaultLetterhead returns the farm's standard header and payment terms
func DefaultLetterhead() Letterhead {
	return Letterhead{
		Company:      "ITTHAD DAIRY FARM",
		Address:      "Chak Mathroma, Darul Fazal, Rabwah",
		Contact:      "Contact: 0331-6198039",
		Slogan:       "Love For All",
		TermsHeading: "Payment Terms",
		Instruction:  "Please make payment to the following account:",
		AccountTitle: "Account Title: Itthad Dairy Farm",
		AccountBank:  "Bank Account: 0000000000000000",
		Closing:      "Thank you for your continued trust and business!",
	}
}

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Paper      PaperSize
	Letterhead Letterhead

	// Now supplies the issue date printed on the bill
	Now func() time.Time
	// InvoiceNumber supplies the printed invoice number
	InvoiceNumber func() string

	InvoiceBarcode bool // Code 128 of the invoice number under the invoice info
	PaymentQR      bool // QR code with account and payable under the footer
}

func (o Options) withDefaults() Options {
	if o.Paper.Width == 0 || o.Paper.Height == 0 {
		o.Paper = A4
	}
	if o.Letterhead == (Letterhead{}) {
		o.Letterhead = DefaultLetterhead()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.InvoiceNumber == nil {
		o.InvoiceNumber = RandomInvoiceNumber
	}
	return o
}

// RandomInvoiceNumber returns a placeholder number in 1001-1100. It is not
// checked for uniqueness.
func RandomInvoiceNumber() string {
	return strconv.Itoa(1001 + rand.Intn(100))
}
