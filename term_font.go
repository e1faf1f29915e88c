// term_font.go - Glyph bitmaps for the embedded terminal rasterizer

package main

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const defaultFontSize = 16.0

// GlyphSet holds a 256-glyph bitmap font with one fixed cell size. The
// engine draws by testing individual bits, so the face is rasterized once
// at startup rather than per frame.
type GlyphSet struct {
	Width  int
	Height int
	rows   [256][]uint32
}

// Lit reports whether pixel (x, y) of glyph ch is set.
func (g *GlyphSet) Lit(ch byte, x, y int) bool {
	rows := g.rows[ch]
	if y < 0 || y >= len(rows) || x < 0 || x >= g.Width {
		return false
	}
	return rows[y]&(1<<uint(x)) != 0
}

// LoadGlyphSet builds the terminal font. With an empty path it uses the
// bundled basicfont face; otherwise it parses a TrueType/OpenType file and
// rasterizes it at the given point size.
func LoadGlyphSet(path string, size float64) (*GlyphSet, error) {
	if path == "" {
		return glyphsFromFace(basicfont.Face7x13)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("font: read %s: %w", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse %s: %w", path, err)
	}
	if size <= 0 {
		size = defaultFontSize
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font: face %s: %w", path, err)
	}
	defer face.Close()
	return glyphsFromFace(face)
}

// glyphsFromFace rasterizes the printable ASCII range of a face into fixed
// cell bitmaps. Control codes and bytes above 0x7E stay blank.
func glyphsFromFace(face font.Face) (*GlyphSet, error) {
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	advance, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("font: face has no 'M' glyph")
	}
	width := advance.Ceil()
	if width <= 0 || width > 32 || height <= 0 {
		return nil, fmt.Errorf("font: unusable cell size %dx%d", width, height)
	}

	gs := &GlyphSet{Width: width, Height: height}
	canvas := image.NewAlpha(image.Rect(0, 0, width, height))
	drawer := font.Drawer{
		Dst: canvas,
		Src: image.NewUniform(color.Alpha{A: 0xFF}),
	}
	for ch := 0x20; ch <= 0x7E; ch++ {
		for i := range canvas.Pix {
			canvas.Pix[i] = 0
		}
		drawer.Face = face
		drawer.Dot = fixed.P(0, metrics.Ascent.Ceil())
		drawer.DrawString(string(rune(ch)))

		rows := make([]uint32, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if canvas.AlphaAt(x, y).A >= 0x80 {
					rows[y] |= 1 << uint(x)
				}
			}
		}
		gs.rows[ch] = rows
	}
	return gs, nil
}
