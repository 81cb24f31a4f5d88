package renderer

import (
	"sync"

	"github.com/itthad/dairy-bill/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

// PDFMeasurer measures text with the Helvetica metrics the PDF renderer
// draws with. It is safe for concurrent use.
type PDFMeasurer struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewPDFMeasurer creates a measurer backed by a scratch PDF document
func NewPDFMeasurer() *PDFMeasurer {
	pdf := newDocument(layout.A4)
	return &PDFMeasurer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// TextWidth returns the width of text in points
func (m *PDFMeasurer) TextWidth(font layout.Font, size float64, text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pdf.SetFont(fontFamily, font.Style(), size)
	return m.pdf.GetStringWidth(m.tr(text))
}
