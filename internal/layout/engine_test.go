package layout

import (
	"context"
	"image"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/itthad/dairy-bill/internal/rowsource"
	"github.com/itthad/dairy-bill/pkg/billformat"
	"github.com/shopspring/decimal"
)

// fixedMeasurer gives every glyph half the font size
type fixedMeasurer struct{}

func (fixedMeasurer) TextWidth(_ Font, size float64, text string) float64 {
	return float64(len(text)) * size * 0.5
}

type stubAssets struct {
	logo *Image
	tpl  []byte
}

func (s stubAssets) Logo(context.Context) (*Image, bool) { return s.logo, s.logo != nil }
func (s stubAssets) Template(context.Context) ([]byte, bool) {
	return s.tpl, s.tpl != nil
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func testOptions() Options {
	return Options{
		Now:           func() time.Time { return time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC) },
		InvoiceNumber: func() string { return "1042" },
	}
}

func testCustomer() billformat.Customer {
	return billformat.Customer{Name: "Ahmed Khan", Phone: "0300-1234567", Address: "Street 5, Rabwah"}
}

func monthlyBilling() billformat.Billing {
	return billformat.Billing{
		Mode:      billformat.ModeMonthly,
		Selection: billformat.SelectionBoth,
		Monthly: &billformat.MonthlyBilling{
			Month: time.January,
			Year:  2024,
			Lines: map[billformat.Product]billformat.MilkLine{
				billformat.Cow:     {Rate: dec(180), TotalQuantity: dec(62), Amount: dec(11160)},
				billformat.Buffalo: {Rate: dec(200), TotalQuantity: dec(150), Amount: dec(30000)},
			},
		},
		PreviousDue: dec(500),
		Discount:    dec(160),
	}
}

// dateRangeBilling returns n cow entries on consecutive days
func dateRangeBilling(n int) billformat.Billing {
	start := billformat.NewDate(2024, time.January, 1)
	line := billformat.DateBasedLine{DefaultRate: dec(180)}
	for i := 0; i < n; i++ {
		idx := line.AddEntry(start.AddDays(i))
		if err := line.SetQuantity(idx, dec(2)); err != nil {
			panic(err)
		}
	}
	return billformat.Billing{
		Mode:      billformat.ModeDateRange,
		Selection: billformat.SelectionCow,
		DateRange: &billformat.DateRangeBilling{
			Start: start,
			End:   start.AddDays(n),
			Lines: map[billformat.Product]billformat.DateBasedLine{billformat.Cow: line},
		},
	}
}

func layout(t *testing.T, opts Options, assets AssetProvider, c billformat.Customer, b billformat.Billing) *Document {
	t.Helper()
	doc, err := NewEngine(fixedMeasurer{}, assets, opts).Layout(context.Background(), c, b)
	if err != nil {
		t.Fatalf("Failed to lay out bill: %v", err)
	}
	return doc
}

func firstLine(p *Page) (LineOp, bool) {
	for _, op := range p.Ops {
		if l, ok := op.(LineOp); ok {
			return l, true
		}
	}
	return LineOp{}, false
}

func TestLayout_SinglePage(t *testing.T) {
	doc := layout(t, testOptions(), nil, testCustomer(), monthlyBilling())

	if len(doc.Pages) != 1 {
		t.Fatalf("Expected 1 page, got %d", len(doc.Pages))
	}

	page := doc.Pages[0]
	for _, role := range []Role{RoleLetterhead, RoleCustomer, RoleInvoice, RoleTableHeader, RoleRow, RoleTotals, RoleFooter} {
		if !page.Has(role) {
			t.Errorf("Expected page to contain %s", role)
		}
	}
	if page.Has(RoleLogo) {
		t.Error("Expected no logo without assets")
	}

	if len(page.Rows) != 2 {
		t.Errorf("Expected 2 rows on page, got %d", len(page.Rows))
	}
	if !doc.Total.Equal(dec(41160)) {
		t.Errorf("Expected total 41160, got %s", doc.Total)
	}
	if !doc.Payable.Equal(dec(41500)) {
		t.Errorf("Expected payable 41500, got %s", doc.Payable)
	}
	if doc.Period != "January 2024" {
		t.Errorf("Expected period January 2024, got %q", doc.Period)
	}

	rows := page.Texts(RoleRow)
	if len(rows) != 8 {
		t.Fatalf("Expected 8 row texts, got %d", len(rows))
	}
	if rows[0].Text != "Milk (Cow)" || rows[0].Y != 300 {
		t.Errorf("Expected first row Milk (Cow) at 300, got %q at %v", rows[0].Text, rows[0].Y)
	}
	want := []string{"Milk (Buffalo)", "150.0 Liters", "Rs. 200", "Rs. 30,000"}
	for i, w := range want {
		if rows[4+i].Text != w {
			t.Errorf("Expected buffalo cell %d %q, got %q", i, w, rows[4+i].Text)
		}
	}
}

func TestLayout_TotalsText(t *testing.T) {
	doc := layout(t, testOptions(), nil, testCustomer(), monthlyBilling())

	var got []string
	for _, op := range doc.Pages[0].Texts(RoleTotals) {
		got = append(got, op.Text)
	}
	want := []string{
		"Total:", "Rs. 41,160",
		"Due Amount:", "Rs. 500",
		"Discount:", "Rs. 160",
		"Payable:", "Rs. 41,500",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected totals %v, got %v", want, got)
	}
}

func TestLayout_InvoiceInfo(t *testing.T) {
	doc := layout(t, testOptions(), nil, testCustomer(), monthlyBilling())

	info := doc.Pages[0].Texts(RoleInvoice)
	if len(info) != 3 {
		t.Fatalf("Expected 3 invoice lines, got %d", len(info))
	}
	want := []string{"Invoice No: 1042", "Date: 03 Feb 2024", "Period: January 2024"}
	for i, w := range want {
		if info[i].Text != w {
			t.Errorf("Expected %q, got %q", w, info[i].Text)
		}
		if info[i].X != 400 {
			t.Errorf("Expected invoice column at 400, got %v", info[i].X)
		}
	}
}

func TestLayout_FatherName(t *testing.T) {
	tests := []struct {
		name   string
		father string
		want   int
	}{
		{"absent", "", 3},
		{"blank", "   ", 3},
		{"present", "Rashid Khan", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCustomer()
			c.FatherName = tt.father
			doc := layout(t, testOptions(), nil, c, monthlyBilling())

			lines := doc.Pages[0].Texts(RoleCustomer)
			if len(lines) != tt.want {
				t.Fatalf("Expected %d customer lines, got %d", tt.want, len(lines))
			}
			if lines[0].Text != "Bill To: Ahmed Khan" || !lines[0].Font.Bold {
				t.Errorf("Expected bold Bill To line, got %+v", lines[0])
			}
			if tt.want == 4 && lines[1].Text != "S/O: Rashid Khan" {
				t.Errorf("Expected S/O line, got %q", lines[1].Text)
			}
			if last := lines[len(lines)-1]; last.Text != "Address: Street 5, Rabwah" {
				t.Errorf("Expected address last, got %q", last.Text)
			}
		})
	}
}

func TestLayout_CenteredLetterhead(t *testing.T) {
	doc := layout(t, testOptions(), nil, testCustomer(), monthlyBilling())

	head := doc.Pages[0].Texts(RoleLetterhead)
	if len(head) != 4 {
		t.Fatalf("Expected 4 letterhead lines, got %d", len(head))
	}

	title := head[0]
	if title.Text != "ITTHAD DAIRY FARM" || title.Y != 60 || title.Size != 22 {
		t.Errorf("Unexpected title %+v", title)
	}
	width := fixedMeasurer{}.TextWidth(Bold, 22, title.Text)
	if want := (A4.Width - width) / 2; math.Abs(title.X-want) > 1e-9 {
		t.Errorf("Expected title x %v, got %v", want, title.X)
	}
	for _, line := range head {
		if !line.Centered {
			t.Errorf("Expected %q to be marked centered", line.Text)
		}
	}
}

func TestLayout_Overflow(t *testing.T) {
	b := dateRangeBilling(40)
	doc := layout(t, testOptions(), nil, testCustomer(), b)

	if len(doc.Pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(doc.Pages))
	}

	if n := len(doc.Pages[0].Rows); n != 20 {
		t.Errorf("Expected 20 rows on page 1, got %d", n)
	}
	if n := len(doc.Pages[1].Rows); n != 20 {
		t.Errorf("Expected 20 rows on page 2, got %d", n)
	}

	cont := doc.Pages[1]
	if cont.Has(RoleLetterhead) || cont.Has(RoleCustomer) {
		t.Error("Expected continuation page without letterhead or customer info")
	}
	rule, ok := firstLine(cont)
	if !ok || rule.Role != RoleTableHeader || rule.Y1 != continuationTop {
		t.Errorf("Expected table header rule at %v on page 2, got %+v", continuationTop, rule)
	}
	if n := len(cont.Texts(RoleTableHeader)); n != 4 {
		t.Errorf("Expected repeated column titles, got %d", n)
	}
	if first := cont.Texts(RoleRow)[0]; first.Y != continuationTop+tableHeaderHeight+20 {
		t.Errorf("Expected first continuation row at %v, got %v", continuationTop+tableHeaderHeight+20, first.Y)
	}

	last := doc.Pages[2]
	if last.Has(RoleTableHeader) || last.Has(RoleRow) {
		t.Error("Expected final page without table header or rows")
	}
	if !last.Has(RoleFooter) {
		t.Error("Expected footer on final page")
	}
	if !cont.Has(RoleTotals) {
		t.Error("Expected totals below the last row on page 2")
	}

	var all []rowsource.Row
	for _, p := range doc.Pages {
		all = append(all, p.Rows...)
	}
	if len(all) != len(doc.Rows) {
		t.Fatalf("Expected %d rows across pages, got %d", len(doc.Rows), len(all))
	}
	for i := range all {
		if all[i].Description != doc.Rows[i].Description {
			t.Errorf("Row %d out of order: %q vs %q", i, all[i].Description, doc.Rows[i].Description)
		}
	}

	if !doc.Total.Equal(dec(40 * 2 * 180)) {
		t.Errorf("Expected total %d, got %s", 40*2*180, doc.Total)
	}
}

func TestLayout_PageCapacity(t *testing.T) {
	tests := []struct {
		rows     int
		pages    int
		lastRows int
	}{
		{9, 1, 9},
		{10, 2, 0}, // footer moves to page 2
		{20, 2, 0}, // all rows still on page 1
		{21, 2, 1}, // one row spills
		{48, 3, 0}, // continuation page holds 28
		{49, 3, 1},
	}

	for _, tt := range tests {
		doc := layout(t, testOptions(), nil, testCustomer(), dateRangeBilling(tt.rows))

		if len(doc.Pages) != tt.pages {
			t.Errorf("%d rows: expected %d pages, got %d", tt.rows, tt.pages, len(doc.Pages))
			continue
		}
		last := doc.Pages[len(doc.Pages)-1]
		if len(last.Rows) != tt.lastRows {
			t.Errorf("%d rows: expected %d rows on last page, got %d", tt.rows, tt.lastRows, len(last.Rows))
		}
		if !last.Has(RoleFooter) {
			t.Errorf("%d rows: expected footer on last page", tt.rows)
		}
	}
}

func TestLayout_BlocksStayInsidePage(t *testing.T) {
	doc := layout(t, testOptions(), nil, testCustomer(), dateRangeBilling(75))

	for _, p := range doc.Pages {
		for _, op := range p.Ops {
			if text, ok := op.(TextOp); ok && text.Y > A4.Height-bottomMargin {
				t.Errorf("Page %d: %q drawn below the bottom margin at %v", p.Number, text.Text, text.Y)
			}
		}
	}
}

func TestLayout_NegativePayable(t *testing.T) {
	b := monthlyBilling()
	b.PreviousDue = decimal.Zero
	b.Discount = dec(50000)

	doc := layout(t, testOptions(), nil, testCustomer(), b)
	if !doc.Payable.Equal(dec(-8840)) {
		t.Errorf("Expected payable -8840, got %s", doc.Payable)
	}
}

func TestLayout_Idempotent(t *testing.T) {
	first := layout(t, testOptions(), nil, testCustomer(), dateRangeBilling(30))
	second := layout(t, testOptions(), nil, testCustomer(), dateRangeBilling(30))

	if len(first.Pages) != len(second.Pages) {
		t.Fatalf("Page count differs: %d vs %d", len(first.Pages), len(second.Pages))
	}
	for i := range first.Pages {
		a, b := first.Pages[i].Ops, second.Pages[i].Ops
		if len(a) != len(b) {
			t.Fatalf("Page %d op count differs: %d vs %d", i+1, len(a), len(b))
		}
		for j := range a {
			if a[j] != b[j] {
				t.Errorf("Page %d op %d differs: %+v vs %+v", i+1, j, a[j], b[j])
			}
		}
	}
}

func TestLayout_Logo(t *testing.T) {
	logo, err := NewImage("logo", image.NewRGBA(image.Rect(0, 0, 200, 100)))
	if err != nil {
		t.Fatalf("Failed to create logo: %v", err)
	}

	doc := layout(t, testOptions(), stubAssets{logo: logo}, testCustomer(), monthlyBilling())

	var op ImageOp
	for _, o := range doc.Pages[0].Ops {
		if img, ok := o.(ImageOp); ok && img.Role == RoleLogo {
			op = img
		}
	}
	if op.Image != logo {
		t.Fatal("Expected logo image on page 1")
	}
	if op.X != 40 || op.W != 80 || op.H != 40 || op.Y+op.H != 130 {
		t.Errorf("Unexpected logo box %+v", op)
	}
}

func TestLayout_MissingAssets(t *testing.T) {
	doc := layout(t, testOptions(), stubAssets{}, testCustomer(), monthlyBilling())

	if doc.Template != nil {
		t.Error("Expected no template")
	}
	page := doc.Pages[0]
	if page.Has(RoleLogo) {
		t.Error("Expected no logo")
	}
	for _, role := range []Role{RoleLetterhead, RoleCustomer, RoleTableHeader, RoleTotals, RoleFooter} {
		if !page.Has(role) {
			t.Errorf("Expected %s without assets", role)
		}
	}
}

func TestLayout_Template(t *testing.T) {
	tpl := []byte("%PDF-1.4")
	doc := layout(t, testOptions(), stubAssets{tpl: tpl}, testCustomer(), monthlyBilling())

	if string(doc.Template) != string(tpl) {
		t.Errorf("Expected template bytes on document, got %q", doc.Template)
	}
}

func TestLayout_Codes(t *testing.T) {
	opts := testOptions()
	opts.InvoiceBarcode = true
	opts.PaymentQR = true

	doc := layout(t, opts, nil, testCustomer(), monthlyBilling())

	var barcode, qr bool
	for _, o := range doc.Pages[0].Ops {
		img, ok := o.(ImageOp)
		if !ok {
			continue
		}
		switch img.Role {
		case RoleInvoice:
			barcode = img.W == barcodeWidth && img.H == barcodeHeight
		case RoleFooter:
			qr = img.W == qrSize && img.H == qrSize
		}
	}
	if !barcode {
		t.Error("Expected invoice barcode")
	}
	if !qr {
		t.Error("Expected payment QR code")
	}
	if n := len(doc.Images()); n != 2 {
		t.Errorf("Expected 2 distinct images, got %d", n)
	}
}

func TestLayout_DefaultsWithoutOptions(t *testing.T) {
	doc, err := NewEngine(fixedMeasurer{}, nil, Options{}).Layout(context.Background(), testCustomer(), monthlyBilling())
	if err != nil {
		t.Fatalf("Failed to lay out bill: %v", err)
	}

	if doc.Paper != A4 {
		t.Errorf("Expected A4, got %+v", doc.Paper)
	}
	n := doc.InvoiceNumber
	if len(n) != 4 || n < "1001" || n > "1100" {
		t.Errorf("Expected invoice number in 1001-1100, got %q", n)
	}
}
