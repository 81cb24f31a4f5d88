package renderer

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/itthad/dairy-bill/internal/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	fontsErr    error
)

// loadFonts parses the embedded Go fonts once
func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = truetype.Parse(goregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to parse regular font: %w", fontsErr)
			return
		}
		boldFont, fontsErr = truetype.Parse(gobold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("failed to parse bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

type faceKey struct {
	bold bool
	px   float64
}

// faceCache hands out font faces for one render. Faces are not safe for
// concurrent use, so a cache is never shared between renders.
type faceCache map[faceKey]font.Face

func (c faceCache) face(f layout.Font, px float64) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}

	key := faceKey{bold: f.Bold, px: px}
	if face, ok := c[key]; ok {
		return face, nil
	}

	ttf := regularFont
	if f.Bold {
		ttf = boldFont
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: px, DPI: 72, Hinting: font.HintingFull})
	c[key] = face
	return face, nil
}

func (c faceCache) close() {
	for _, face := range c {
		face.Close()
	}
}
