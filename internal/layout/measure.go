package layout

// Font selects a face of the standard Helvetica family
type Font struct {
	Bold bool
}

var (
	Regular = Font{}
	Bold    = Font{Bold: true}
)

// Style returns the PDF font style string ("" or "B")
func (f Font) Style() string {
	if f.Bold {
		return "B"
	}
	return ""
}

// Measurer reports the rendered width of text in points
type Measurer interface {
	TextWidth(font Font, size float64, text string) float64
}
