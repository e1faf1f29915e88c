// term_engine_test.go - Emulation engine tests: output parsing, keyboard
// decode, local scrollback and rasterization.

package main

import (
	"bytes"
	"testing"
)

const (
	testFg = 0x00FF00
	testBg = 0x000080
)

// testGlyphSet is a 2x2 cell font where only pixel (0,0) of 'A' is lit,
// enough to observe rasterization without a real face.
func testGlyphSet(t *testing.T) *GlyphSet {
	t.Helper()
	gs := &GlyphSet{Width: 2, Height: 2}
	gs.rows['A'] = []uint32{1, 0}
	return gs
}

// newTestEngine builds an 8x4 pixel engine: 4 columns by 2 rows of cells.
func newTestEngine(t *testing.T) *TermEngine {
	t.Helper()
	fb := NewFrameBuffer(8, 4)
	return NewTermEngine(fb, testGlyphSet(t), EngineConfig{
		DefaultFg:  testFg,
		DefaultBg:  testBg,
		Scrollback: 16,
	})
}

func TestTermEngine_GridFromGlyphSize(t *testing.T) {
	e := newTestEngine(t)
	if e.Columns() != 4 || e.Rows() != 2 {
		t.Fatalf("expected 4x2 grid, got %dx%d", e.Columns(), e.Rows())
	}
}

func TestTermEngine_PrintableText(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("hi"))

	if got := e.screen().VisibleCell(0, 0).Ch; got != 'h' {
		t.Fatalf("expected 'h' at origin, got %q", got)
	}
	if got := e.screen().VisibleCell(1, 0).Ch; got != 'i' {
		t.Fatalf("expected 'i' at column 1, got %q", got)
	}
	col, row := e.screen().CursorPos()
	if col != 2 || row != 0 {
		t.Fatalf("expected cursor at (2,0), got (%d,%d)", col, row)
	}
}

func TestTermEngine_CursorPositioning(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("\x1b[2;3H"))

	col, row := e.screen().CursorPos()
	if col != 2 || row != 1 {
		t.Fatalf("expected cursor at (2,1), got (%d,%d)", col, row)
	}

	e.Process([]byte("\x1b[A\x1b[2D"))
	col, row = e.screen().CursorPos()
	if col != 0 || row != 0 {
		t.Fatalf("expected cursor at (0,0) after relative moves, got (%d,%d)", col, row)
	}
}

func TestTermEngine_SGRColors(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("\x1b[31mx"))

	if got := e.screen().VisibleCell(0, 0).Style.Fg; got != ansiPalette[1] {
		t.Fatalf("expected red foreground 0x%06X, got 0x%06X", ansiPalette[1], got)
	}

	e.Process([]byte("\x1b[0m\x1b[1;34my"))
	cell := e.screen().VisibleCell(1, 0)
	if cell.Style.Fg != ansiPalette[12] {
		t.Fatalf("expected bright blue with bold, got 0x%06X", cell.Style.Fg)
	}
	if !cell.Style.Bold {
		t.Fatalf("expected bold attribute set")
	}

	e.Process([]byte("\x1b[0m\x1b[42mz"))
	if got := e.screen().VisibleCell(2, 0).Style.Bg; got != ansiPalette[2] {
		t.Fatalf("expected green background, got 0x%06X", got)
	}
}

func TestTermEngine_SGRReverse(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("\x1b[7mx"))

	cell := e.screen().VisibleCell(0, 0)
	if cell.Style.Fg != testBg || cell.Style.Bg != testFg {
		t.Fatalf("expected swapped colors, got fg=0x%06X bg=0x%06X", cell.Style.Fg, cell.Style.Bg)
	}
}

func TestTermEngine_EraseLine(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("abc\r\x1b[K"))

	for col := 0; col < e.Columns(); col++ {
		if got := e.screen().VisibleCell(col, 0).Ch; got != 0 {
			t.Fatalf("expected column %d erased, got %q", col, got)
		}
	}
}

func TestTermEngine_FormFeedClears(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("abc\f"))

	if got := e.screen().VisibleCell(0, 0).Ch; got != 0 {
		t.Fatalf("expected form feed to clear screen, got %q", got)
	}
	col, row := e.screen().CursorPos()
	if col != 0 || row != 0 {
		t.Fatalf("expected cursor homed, got (%d,%d)", col, row)
	}
}

func TestTermEngine_BellCallback(t *testing.T) {
	e := newTestEngine(t)
	rang := 0
	e.SetBell(func() { rang++ })
	e.Process([]byte("a\ab"))

	if rang != 1 {
		t.Fatalf("expected one bell, got %d", rang)
	}
	if got := e.screen().VisibleCell(1, 0).Ch; got != 'b' {
		t.Fatalf("expected BEL to print nothing, got %q at column 1", got)
	}
}

func TestTermEngine_UnknownSequencesIgnored(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("\x1b[99Z\x1b]0;title\x07ok"))

	if got := e.screen().VisibleCell(0, 0).Ch; got != 'o' {
		t.Fatalf("expected text after unknown sequences, got %q", got)
	}
}

func TestTermEngine_CursorVisibilityMode(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("\x1b[?25l"))
	if e.cursorVisible {
		t.Fatalf("expected cursor hidden")
	}
	e.Process([]byte("\x1b[?25h"))
	if !e.cursorVisible {
		t.Fatalf("expected cursor shown")
	}
}

func TestTermEngine_AlternateScreen(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("main"))
	e.Process([]byte("\x1b[?1049h"))
	e.Process([]byte("\x1b[Halt!"))

	if got := e.screen().VisibleCell(0, 0).Ch; got != 'a' {
		t.Fatalf("expected alternate screen content, got %q", got)
	}

	e.Process([]byte("\x1b[?1049l"))
	if got := e.screen().VisibleCell(0, 0).Ch; got != 'm' {
		t.Fatalf("expected primary screen restored, got %q", got)
	}
}

func TestTermEngine_SaveRestoreCursor(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("\x1b[1;3H\x1b7\x1b[2;1H\x1b8"))

	col, row := e.screen().CursorPos()
	if col != 2 || row != 0 {
		t.Fatalf("expected restored cursor (2,0), got (%d,%d)", col, row)
	}
}

func collectOutput(e *TermEngine) *bytes.Buffer {
	var buf bytes.Buffer
	e.SetOutput(func(p []byte) { buf.Write(p) })
	return &buf
}

func TestTermEngine_ArrowKeyEmitsCSI(t *testing.T) {
	e := newTestEngine(t)
	out := collectOutput(e)

	e.HandleKeyboard(0xE0)
	e.HandleKeyboard(0x48)
	if out.String() != "\x1b[A" {
		t.Fatalf("expected up-arrow sequence, got %q", out.String())
	}

	out.Reset()
	e.HandleKeyboard(0xE0)
	e.HandleKeyboard(0xC8)
	if out.Len() != 0 {
		t.Fatalf("expected release to emit nothing, got %q", out.String())
	}
}

func TestTermEngine_EditingKeys(t *testing.T) {
	e := newTestEngine(t)
	out := collectOutput(e)

	e.HandleKeyboard(0x01) // Escape
	e.HandleKeyboard(0x0E) // Backspace
	e.HandleKeyboard(0x1C) // Enter
	if out.String() != "\x1b\x7f\r" {
		t.Fatalf("expected escape, DEL and CR, got %q", out.String())
	}
}

func TestTermEngine_CtrlLetterSequence(t *testing.T) {
	e := newTestEngine(t)
	out := collectOutput(e)

	e.HandleKeyboard(0x1D) // Ctrl down
	e.HandleKeyboard(0x2E) // 'c'
	e.HandleKeyboard(0x9D) // Ctrl up
	if out.String() != "\x03" {
		t.Fatalf("expected Ctrl-C byte, got %q", out.String())
	}

	out.Reset()
	// Without Ctrl the letter travels on the text path, not this one.
	e.HandleKeyboard(0x2E)
	if out.Len() != 0 {
		t.Fatalf("expected bare letter press to emit nothing, got %q", out.String())
	}
}

type stubClipboard struct {
	text string
	set  string
}

func (c *stubClipboard) GetText() string  { return c.text }
func (c *stubClipboard) SetText(s string) { c.set = s }

func TestTermEngine_PasteShortcut(t *testing.T) {
	e := newTestEngine(t)
	out := collectOutput(e)
	e.SetClipboard(&stubClipboard{text: "pasted"})

	e.HandleKeyboard(0x1D) // Ctrl down
	e.HandleKeyboard(0x2A) // Shift down
	e.HandleKeyboard(0x2F) // 'v'
	if out.String() != "pasted" {
		t.Fatalf("expected clipboard text, got %q", out.String())
	}
}

func TestTermEngine_ShiftPageUpScrollsLocally(t *testing.T) {
	e := newTestEngine(t)
	out := collectOutput(e)
	e.Process([]byte("1\n2\n3\n4\n5\n"))

	e.HandleKeyboard(0x2A) // Shift down
	e.HandleKeyboard(0xE0)
	e.HandleKeyboard(0x49) // PageUp
	if out.Len() != 0 {
		t.Fatalf("expected local scroll to emit nothing, got %q", out.String())
	}
	if e.screen().AtLiveTail() {
		t.Fatalf("expected viewport scrolled into history")
	}

	// Without Shift, PageUp is forwarded to the application.
	e.HandleKeyboard(0xAA) // Shift up
	e.HandleKeyboard(0xE0)
	e.HandleKeyboard(0x49)
	if out.String() != "\x1b[5~" {
		t.Fatalf("expected PageUp sequence, got %q", out.String())
	}
}

func TestTermEngine_WheelScroll(t *testing.T) {
	e := newTestEngine(t)
	e.Process([]byte("1\n2\n3\n4\n5\n"))

	e.HandleScroll(1)
	if e.screen().AtLiveTail() {
		t.Fatalf("expected wheel-up to enter history")
	}
	e.HandleScroll(-1)
	if !e.screen().AtLiveTail() {
		t.Fatalf("expected wheel-down to return to tail")
	}
}

func TestTermEngine_FlushRasterizesGlyphs(t *testing.T) {
	fb := NewFrameBuffer(8, 4)
	e := NewTermEngine(fb, testGlyphSet(t), EngineConfig{
		DefaultFg: testFg,
		DefaultBg: testBg,
	})
	e.Process([]byte("A"))
	e.Flush()

	// Only (0,0) of the 'A' glyph is lit.
	if got := fb.Pixel(0, 0); got != testFg {
		t.Fatalf("expected lit glyph pixel in foreground, got 0x%06X", got)
	}
	if got := fb.Pixel(1, 0); got != testBg {
		t.Fatalf("expected unlit glyph pixel in background, got 0x%06X", got)
	}
}

func TestTermEngine_FlushDrawsCursorInverted(t *testing.T) {
	fb := NewFrameBuffer(8, 4)
	e := NewTermEngine(fb, testGlyphSet(t), EngineConfig{
		DefaultFg: testFg,
		DefaultBg: testBg,
	})
	e.Process([]byte("A"))
	e.Flush()

	// Cursor sits on the empty cell after 'A'; its cell renders with the
	// colors swapped.
	if got := fb.Pixel(2, 0); got != testFg {
		t.Fatalf("expected inverted cursor cell, got 0x%06X", got)
	}

	e.Process([]byte("\x1b[?25l"))
	e.Flush()
	if got := fb.Pixel(2, 0); got != testBg {
		t.Fatalf("expected plain cell with cursor hidden, got 0x%06X", got)
	}
}
