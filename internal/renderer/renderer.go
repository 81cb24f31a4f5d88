// Package renderer turns laid-out bills into PDF and PNG bytes
package renderer

import (
	"fmt"

	"github.com/itthad/dairy-bill/internal/layout"
	"golang.org/x/text/encoding/charmap"
)

// Renderer converts a laid-out document to output bytes
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

var (
	_ Renderer = (*PDFRenderer)(nil)
	_ Renderer = (*ImageRenderer)(nil)
)

func checkDocument(doc *layout.Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	return checkText(doc)
}

// checkText fails on text the Helvetica encoding (cp1252) cannot carry
func checkText(doc *layout.Document) error {
	enc := charmap.Windows1252.NewEncoder()
	for _, p := range doc.Pages {
		for _, op := range p.Ops {
			t, ok := op.(layout.TextOp)
			if !ok {
				continue
			}
			if _, err := enc.String(t.Text); err != nil {
				return fmt.Errorf("page %d: cannot print %q: %w", p.Number, t.Text, err)
			}
		}
	}
	return nil
}
