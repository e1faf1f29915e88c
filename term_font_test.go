// term_font_test.go - Glyph rasterization tests

package main

import "testing"

func TestLoadGlyphSet_BuiltinFace(t *testing.T) {
	gs, err := LoadGlyphSet("", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Width != 7 || gs.Height != 13 {
		t.Fatalf("expected 7x13 cell from builtin face, got %dx%d", gs.Width, gs.Height)
	}

	lit := 0
	for y := 0; y < gs.Height; y++ {
		for x := 0; x < gs.Width; x++ {
			if gs.Lit('A', x, y) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("expected 'A' to have lit pixels")
	}

	for y := 0; y < gs.Height; y++ {
		for x := 0; x < gs.Width; x++ {
			if gs.Lit(' ', x, y) {
				t.Fatalf("expected space glyph to be blank, pixel (%d,%d) lit", x, y)
			}
		}
	}
}

func TestLoadGlyphSet_MissingFile(t *testing.T) {
	if _, err := LoadGlyphSet("/nonexistent/font.ttf", 16); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}

func TestGlyphSet_LitBounds(t *testing.T) {
	gs := &GlyphSet{Width: 2, Height: 2}
	gs.rows['A'] = []uint32{1, 0}

	if !gs.Lit('A', 0, 0) {
		t.Fatalf("expected (0,0) lit")
	}
	if gs.Lit('A', -1, 0) || gs.Lit('A', 2, 0) || gs.Lit('A', 0, 5) {
		t.Fatalf("expected out-of-range queries to be unlit")
	}
	if gs.Lit('B', 0, 0) {
		t.Fatalf("expected unrasterized glyph to be blank")
	}
}
