package layout

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Image is a raster image embedded in the document. PNG holds the encoded
// bytes the PDF renderer embeds; Decoded is what the image renderer draws.
type Image struct {
	Name    string
	PNG     []byte
	Decoded image.Image
	Width   int
	Height  int
}

// NewImage encodes img as an 8-bit PNG under name
func NewImage(name string, img image.Image) (*Image, error) {
	// PDF embedding only takes 8 bits per channel; barcodes come out as Gray16
	nrgba := imaging.Clone(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, nrgba, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", name, err)
	}

	b := nrgba.Bounds()
	return &Image{
		Name:    name,
		PNG:     buf.Bytes(),
		Decoded: nrgba,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// AssetProvider supplies optional branding assets. A false result means the
// asset is unavailable; providers log their own failures.
type AssetProvider interface {
	Logo(ctx context.Context) (*Image, bool)
	Template(ctx context.Context) ([]byte, bool)
}

// NoAssets provides neither a logo nor a template
type NoAssets struct{}

func (NoAssets) Logo(context.Context) (*Image, bool)     { return nil, false }
func (NoAssets) Template(context.Context) ([]byte, bool) { return nil, false }
