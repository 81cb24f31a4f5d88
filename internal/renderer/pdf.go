package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/itthad/dairy-bill/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"
	imageType  = "PNG"
)

// PDFRenderer writes documents as PDF with the standard Helvetica faces
type PDFRenderer struct {
	// CreationDate, when set, replaces the current time in the document info
	CreationDate time.Time
}

// NewPDF creates a PDF renderer
func NewPDF() *PDFRenderer {
	return &PDFRenderer{}
}

// newDocument creates an empty PDF sized to paper, in points, with no
// margins and no automatic page breaks
func newDocument(paper layout.PaperSize) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: paper.Width, Ht: paper.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// Render writes one PDF page per document page
func (r *PDFRenderer) Render(doc *layout.Document) ([]byte, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}

	pdf := newDocument(doc.Paper)
	if !r.CreationDate.IsZero() {
		pdf.SetCreationDate(r.CreationDate)
		pdf.SetCatalogSort(true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	images, err := registerImages(pdf, doc)
	if err != nil {
		return nil, err
	}

	var tpl *template
	if len(doc.Template) > 0 {
		tpl = importTemplate(doc.Paper, doc.Template)
		if tpl != nil {
			if err := tpl.load(pdf); err != nil {
				return nil, err
			}
		}
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		if page.Number == 1 && tpl != nil {
			tpl.draw(pdf, page)
		}

		for _, op := range page.Ops {
			drawOp(pdf, tr, images, op)
		}

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to draw page %d: %w", page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func registerImages(pdf *gofpdf.Fpdf, doc *layout.Document) (map[*layout.Image]string, error) {
	names := make(map[*layout.Image]string)
	for i, img := range doc.Images() {
		name := fmt.Sprintf("%s-%d", img.Name, i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(img.PNG))
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to register %s image: %w", img.Name, err)
		}
		names[img] = name
	}
	return names, nil
}

func drawOp(pdf *gofpdf.Fpdf, tr func(string) string, images map[*layout.Image]string, op layout.Op) {
	switch o := op.(type) {
	case layout.TextOp:
		pdf.SetFont(fontFamily, o.Font.Style(), o.Size)
		pdf.Text(o.X, o.Y, tr(o.Text))

	case layout.LineOp:
		pdf.SetLineWidth(o.Width)
		pdf.Line(o.X1, o.Y1, o.X2, o.Y2)

	case layout.ImageOp:
		name, ok := images[o.Image]
		if !ok {
			return
		}
		pdf.ImageOptions(name, o.X, o.Y, o.W, o.H, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	}
}
