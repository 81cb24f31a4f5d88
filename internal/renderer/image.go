package renderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/itthad/dairy-bill/internal/layout"
)

const (
	defaultScale = 2.0
	defaultGap   = 20.0
)

var gapColor = color.Gray{Y: 0xdd}

// ImageRenderer rasterizes every page and stacks them into one tall PNG.
// Pages are drawn from the layout with the Go fonts rather than from the
// PDF, so glyph shapes and text widths can differ slightly from the PDF.
type ImageRenderer struct {
	Scale float64 // Pixels per point
	Gap   float64 // Space between pages, in points
}

// NewImage creates an image renderer. A non-positive scale or a negative
// gap falls back to the default.
func NewImage(scale, gap float64) *ImageRenderer {
	if scale <= 0 {
		scale = defaultScale
	}
	if gap < 0 {
		gap = defaultGap
	}
	return &ImageRenderer{Scale: scale, Gap: gap}
}

// Render draws the pages top to bottom. The canvas is as tall as all pages
// plus one gap between each pair.
func (r *ImageRenderer) Render(doc *layout.Document) ([]byte, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}

	scale := r.Scale
	if scale <= 0 {
		scale = defaultScale
	}
	gap := int(math.Round(math.Max(r.Gap, 0) * scale))

	width := 0
	height := 0
	pageHeights := make([]int, len(doc.Pages))
	for i, p := range doc.Pages {
		if w := px(p.Width, scale); w > width {
			width = w
		}
		pageHeights[i] = px(p.Height, scale)
		height += pageHeights[i]
	}
	height += gap * (len(doc.Pages) - 1)

	dc := gg.NewContext(width, height)
	dc.SetColor(gapColor)
	dc.Clear()

	faces := make(faceCache)
	defer faces.close()

	top := 0
	for i, p := range doc.Pages {
		dc.SetColor(color.White)
		dc.DrawRectangle(0, float64(top), float64(px(p.Width, scale)), float64(pageHeights[i]))
		dc.Fill()

		if err := drawPage(dc, faces, p, float64(top), scale); err != nil {
			return nil, fmt.Errorf("failed to rasterize page %d: %w", p.Number, err)
		}
		top += pageHeights[i] + gap
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}

func px(points, scale float64) int {
	return int(math.Ceil(points * scale))
}

func drawPage(dc *gg.Context, faces faceCache, p *layout.Page, top, scale float64) error {
	dc.SetColor(color.Black)

	for _, op := range p.Ops {
		switch o := op.(type) {
		case layout.TextOp:
			face, err := faces.face(o.Font, o.Size*scale)
			if err != nil {
				return err
			}
			dc.SetFontFace(face)
			if o.Centered {
				dc.DrawStringAnchored(o.Text, p.Width*scale/2, top+o.Y*scale, 0.5, 0)
			} else {
				dc.DrawString(o.Text, o.X*scale, top+o.Y*scale)
			}

		case layout.LineOp:
			dc.SetLineWidth(o.Width * scale)
			dc.DrawLine(o.X1*scale, top+o.Y1*scale, o.X2*scale, top+o.Y2*scale)
			dc.Stroke()

		case layout.ImageOp:
			if o.Image == nil || o.Image.Decoded == nil {
				return fmt.Errorf("image has no pixels")
			}
			w, h := int(math.Round(o.W*scale)), int(math.Round(o.H*scale))
			if w <= 0 || h <= 0 {
				continue
			}
			img := o.Image.Decoded
			if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
				img = imaging.Resize(img, w, h, imaging.Lanczos)
			}
			dc.DrawImage(img, int(math.Round(o.X*scale)), int(math.Round(top+o.Y*scale)))
		}
	}

	return nil
}
