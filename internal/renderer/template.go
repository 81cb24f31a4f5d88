package renderer

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/itthad/dairy-bill/internal/layout"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// template is the first page of a background PDF drawn under page 1
type template struct {
	data []byte
	imp  *gofpdi.Importer
	id   int
}

// importTemplate checks that the first page of data can be imported into a
// scratch document. When it cannot, the failure is logged and nil returned.
func importTemplate(paper layout.PaperSize, data []byte) *template {
	if _, err := tryImport(gofpdi.NewImporter(), newDocument(paper), data); err != nil {
		log.Printf("renderer: template unusable, using blank first page: %v", err)
		return nil
	}

	return &template{data: data}
}

// load imports the template into pdf with an importer of its own
func (t *template) load(pdf *gofpdf.Fpdf) error {
	imp := gofpdi.NewImporter()
	id, err := tryImport(imp, pdf, t.data)
	if err != nil {
		return fmt.Errorf("failed to import template: %w", err)
	}
	t.imp, t.id = imp, id
	return nil
}

func (t *template) draw(pdf *gofpdf.Fpdf, page *layout.Page) {
	t.imp.UseImportedTemplate(pdf, t.id, 0, 0, page.Width, page.Height)
}

// tryImport imports page 1 of data, turning importer panics into errors
func tryImport(imp *gofpdi.Importer, pdf *gofpdf.Fpdf, data []byte) (id int, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, fmt.Errorf("template is not a pdf")
	}

	defer func() {
		if rec := recover(); rec != nil {
			id, err = 0, fmt.Errorf("template import panicked: %v", rec)
		}
	}()

	rs := io.ReadSeeker(bytes.NewReader(data))
	id = imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	if err := pdf.Error(); err != nil {
		return 0, err
	}

	return id, nil
}
