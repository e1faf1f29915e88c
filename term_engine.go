// term_engine.go - Embedded terminal emulation engine
//
// Consumes application output bytes (text plus the ANSI subset the
// rendering backend emits), rasterizes styled cells into the shared
// framebuffer, and turns injected hardware scancodes into terminal
// protocol bytes delivered through a registered callback. All entry
// points are called with the host's lock held; the engine itself holds
// no locks.

package main

// ClipboardHandler serves the engine's paste requests. A failed read
// degrades to "" and a failed write is dropped; neither propagates.
type ClipboardHandler interface {
	GetText() string
	SetText(text string)
}

// ansiPalette maps SGR colors 0-7 (and bright 8-15) to packed 0xRRGGBB.
var ansiPalette = [16]uint32{
	0x000000, 0xCC0000, 0x4E9A06, 0xC4A000,
	0x3465A4, 0x75507B, 0x06989A, 0xD3D7CF,
	0x555753, 0xEF2929, 0x8AE234, 0xFCE94F,
	0x729FCF, 0xAD7FA8, 0x34E2E2, 0xEEEEEC,
}

const (
	parseGround = iota
	parseEscape
	parseCSI
	parseOSC
	parseOSCEsc
	parseCharset
)

// Set-1 make codes for letter keys, used for control chords.
var scancodeLetters = map[byte]byte{
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm',
}

type EngineConfig struct {
	DefaultFg   uint32
	DefaultBg   uint32
	Scrollback  int
	ScrollSpeed int
}

type TermEngine struct {
	fb     *FrameBuffer
	glyphs *GlyphSet
	cols   int
	rows   int

	main *CellBuffer
	alt  *CellBuffer // non-nil while the alternate screen is active

	defaultFg uint32
	defaultBg uint32
	fg        uint32
	bg        uint32
	bold      bool
	reverse   bool

	cursorVisible bool
	savedX        int
	savedRow      int

	// output parser state
	state    int
	params   []int
	curParam int
	private  bool

	// keyboard decode state
	e0Pending bool
	shift     bool
	ctrl      bool
	alt_      bool

	scrollSpeed int

	output    func([]byte)
	clipboard ClipboardHandler
	bell      func()
}

func NewTermEngine(fb *FrameBuffer, glyphs *GlyphSet, cfg EngineConfig) *TermEngine {
	cols := fb.Width() / glyphs.Width
	rows := fb.Height() / glyphs.Height
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	if cfg.DefaultFg == 0 && cfg.DefaultBg == 0 {
		cfg.DefaultFg = 0xD3D7CF
	}
	if cfg.Scrollback <= 0 {
		cfg.Scrollback = 1000
	}
	if cfg.ScrollSpeed <= 0 {
		cfg.ScrollSpeed = 5
	}

	e := &TermEngine{
		fb:            fb,
		glyphs:        glyphs,
		cols:          cols,
		rows:          rows,
		main:          NewCellBuffer(cols, rows, cfg.Scrollback),
		defaultFg:     cfg.DefaultFg,
		defaultBg:     cfg.DefaultBg,
		fg:            cfg.DefaultFg,
		bg:            cfg.DefaultBg,
		cursorVisible: true,
		scrollSpeed:   cfg.ScrollSpeed,
		params:        make([]int, 0, 8),
	}
	e.fillBackground()
	return e
}

func (e *TermEngine) Columns() int { return e.cols }
func (e *TermEngine) Rows() int    { return e.rows }

// SetOutput registers the protocol-byte callback. It is invoked
// synchronously from HandleKeyboard, with the host lock held, so it must
// not call back into the engine.
func (e *TermEngine) SetOutput(fn func([]byte)) { e.output = fn }

func (e *TermEngine) SetClipboard(c ClipboardHandler) { e.clipboard = c }

func (e *TermEngine) SetBell(fn func()) { e.bell = fn }

func (e *TermEngine) screen() *CellBuffer {
	if e.alt != nil {
		return e.alt
	}
	return e.main
}

func (e *TermEngine) style() CellStyle {
	st := CellStyle{Fg: e.fg, Bg: e.bg, Bold: e.bold}
	if e.reverse {
		st.Fg, st.Bg = st.Bg, st.Fg
	}
	return st
}

// Process consumes application output bytes. Unknown escape sequences are
// consumed and ignored.
func (e *TermEngine) Process(data []byte) {
	for _, b := range data {
		switch e.state {
		case parseGround:
			e.processGround(b)
		case parseEscape:
			e.processEscape(b)
		case parseCSI:
			e.processCSI(b)
		case parseOSC:
			if b == 0x07 {
				e.state = parseGround
			} else if b == 0x1B {
				e.state = parseOSCEsc
			}
		case parseOSCEsc:
			// ESC \ (ST) ends the OSC string; anything else resumes it.
			if b == '\\' {
				e.state = parseGround
			} else {
				e.state = parseOSC
			}
		case parseCharset:
			e.state = parseGround
		}
	}
}

func (e *TermEngine) processGround(b byte) {
	switch b {
	case 0x1B:
		e.state = parseEscape
	case '\n':
		e.screen().LineFeed()
	case '\r':
		e.screen().CarriageReturn()
	case '\b':
		e.screen().Backspace()
	case '\t':
		e.screen().Tab()
	case 0x07:
		if e.bell != nil {
			e.bell()
		}
	case '\f':
		e.screen().EraseDisplay(2, e.style())
		e.screen().SetCursor(0, 0)
	default:
		if b >= 0x20 {
			e.screen().Put(rune(b), e.style())
		}
	}
}

func (e *TermEngine) processEscape(b byte) {
	switch b {
	case '[':
		e.state = parseCSI
		e.params = e.params[:0]
		e.curParam = 0
		e.private = false
	case ']':
		e.state = parseOSC
	case '(', ')':
		e.state = parseCharset
	case '7':
		e.savedX, e.savedRow = e.screen().CursorPos()
		e.state = parseGround
	case '8':
		e.screen().SetCursor(e.savedX, e.savedRow)
		e.state = parseGround
	default:
		e.state = parseGround
	}
}

func (e *TermEngine) processCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		e.curParam = e.curParam*10 + int(b-'0')
	case b == ';':
		e.params = append(e.params, e.curParam)
		e.curParam = 0
	case b == '?':
		e.private = true
	case b >= 0x40 && b <= 0x7E:
		e.params = append(e.params, e.curParam)
		e.dispatchCSI(b)
		e.state = parseGround
	}
}

func (e *TermEngine) param(i, def int) int {
	if i >= len(e.params) || e.params[i] == 0 {
		return def
	}
	return e.params[i]
}

func (e *TermEngine) dispatchCSI(final byte) {
	s := e.screen()
	switch final {
	case 'A':
		s.MoveCursor(0, -e.param(0, 1))
	case 'B':
		s.MoveCursor(0, e.param(0, 1))
	case 'C':
		s.MoveCursor(e.param(0, 1), 0)
	case 'D':
		s.MoveCursor(-e.param(0, 1), 0)
	case 'H', 'f':
		s.SetCursor(e.param(1, 1)-1, e.param(0, 1)-1)
	case 'J':
		s.EraseDisplay(e.paramRaw(0), e.style())
	case 'K':
		s.EraseLine(e.paramRaw(0), e.style())
	case 'm':
		e.applySGR()
	case 'h':
		e.setMode(true)
	case 'l':
		e.setMode(false)
	}
}

func (e *TermEngine) paramRaw(i int) int {
	if i >= len(e.params) {
		return 0
	}
	return e.params[i]
}

func (e *TermEngine) setMode(on bool) {
	if !e.private {
		return
	}
	switch e.paramRaw(0) {
	case 25:
		e.cursorVisible = on
	case 1049:
		if on && e.alt == nil {
			e.alt = NewCellBuffer(e.cols, e.rows, 0)
		} else if !on {
			e.alt = nil
		}
	}
}

func (e *TermEngine) applySGR() {
	for _, p := range e.params {
		switch {
		case p == 0:
			e.fg, e.bg = e.defaultFg, e.defaultBg
			e.bold = false
			e.reverse = false
		case p == 1:
			e.bold = true
		case p == 22:
			e.bold = false
		case p == 7:
			e.reverse = true
		case p == 27:
			e.reverse = false
		case p >= 30 && p <= 37:
			idx := p - 30
			if e.bold {
				idx += 8
			}
			e.fg = ansiPalette[idx]
		case p == 39:
			e.fg = e.defaultFg
		case p >= 40 && p <= 47:
			e.bg = ansiPalette[p-40]
		case p == 49:
			e.bg = e.defaultBg
		case p >= 90 && p <= 97:
			e.fg = ansiPalette[p-90+8]
		case p >= 100 && p <= 107:
			e.bg = ansiPalette[p-100+8]
		}
	}
}

// HandleKeyboard injects one hardware scancode (set-1, 0xE0-prefixed for
// extended keys, high bit set on release). Modifier state is tracked from
// both edges; only non-printable keys synthesize protocol bytes, since
// printable input reaches the application through the text path.
func (e *TermEngine) HandleKeyboard(b byte) {
	if b == 0xE0 {
		e.e0Pending = true
		return
	}
	ext := e.e0Pending
	e.e0Pending = false

	release := b&0x80 != 0
	code := b &^ 0x80

	switch {
	case code == 0x2A || code == 0x36:
		e.shift = !release
		return
	case code == 0x1D:
		e.ctrl = !release
		return
	case code == 0x38:
		e.alt_ = !release
		return
	}
	if release {
		return
	}

	if ext {
		e.handleExtendedKey(code)
		return
	}
	e.handleBaseKey(code)
}

func (e *TermEngine) handleExtendedKey(code byte) {
	switch code {
	case 0x48:
		e.emit([]byte("\x1b[A"))
	case 0x50:
		e.emit([]byte("\x1b[B"))
	case 0x4D:
		e.emit([]byte("\x1b[C"))
	case 0x4B:
		e.emit([]byte("\x1b[D"))
	case 0x47:
		e.emit([]byte("\x1b[H"))
	case 0x4F:
		e.emit([]byte("\x1b[F"))
	case 0x52:
		e.emit([]byte("\x1b[2~"))
	case 0x53:
		e.emit([]byte("\x1b[3~"))
	case 0x49:
		if e.shift {
			e.screen().ScrollViewport(-e.rows / 2)
			return
		}
		e.emit([]byte("\x1b[5~"))
	case 0x51:
		if e.shift {
			e.screen().ScrollViewport(e.rows / 2)
			return
		}
		e.emit([]byte("\x1b[6~"))
	case 0x1C:
		e.emit([]byte("\r"))
	}
}

func (e *TermEngine) handleBaseKey(code byte) {
	switch code {
	case 0x01:
		e.emit([]byte{0x1B})
		return
	case 0x0E:
		e.emit([]byte{0x7F})
		return
	case 0x0F:
		e.emit([]byte{'\t'})
		return
	case 0x1C:
		e.emit([]byte{'\r'})
		return
	}

	letter, ok := scancodeLetters[code]
	if !ok || !e.ctrl {
		return
	}
	if e.shift && letter == 'v' {
		e.paste()
		return
	}
	e.emit([]byte{letter - 'a' + 1})
}

func (e *TermEngine) paste() {
	if e.clipboard == nil {
		return
	}
	text := e.clipboard.GetText()
	if text == "" {
		return
	}
	e.emit([]byte(text))
}

func (e *TermEngine) emit(data []byte) {
	if e.output != nil {
		e.output(data)
	}
}

// HandleScroll moves the viewport by whole wheel lines. Positive lines
// (wheel up) scroll into history.
func (e *TermEngine) HandleScroll(lines int) {
	e.screen().ScrollViewport(-lines * e.scrollSpeed)
}

// Flush rasterizes the visible viewport and cursor into the framebuffer.
// Rendering is deferred to here so any number of Process calls between two
// presentation ticks costs one raster pass.
func (e *TermEngine) Flush() {
	s := e.screen()
	for vrow := 0; vrow < e.rows; vrow++ {
		for col := 0; col < e.cols; col++ {
			e.drawCell(col, vrow, s.VisibleCell(col, vrow))
		}
	}
	if e.cursorVisible && s.AtLiveTail() {
		if col, vrow, ok := s.CursorVisible(); ok {
			cell := s.VisibleCell(col, vrow)
			fg, bg := cell.Style.Fg, cell.Style.Bg
			if cell.Ch == 0 {
				fg, bg = e.defaultFg, e.defaultBg
			}
			e.drawCell(col, vrow, Cell{Ch: cell.Ch, Style: CellStyle{Fg: bg, Bg: fg}})
		}
	}
}

// glyphFallbacks substitutes ASCII approximations for the box-drawing
// runes the backend may emit.
var glyphFallbacks = map[rune]byte{
	'─': '-', '│': '|', '┌': '+', '┐': '+', '└': '+', '┘': '+',
	'├': '+', '┤': '+', '┬': '+', '┴': '+', '┼': '+', '█': '#',
	'▆': '#', '▁': '_', '•': '*',
}

func (e *TermEngine) drawCell(col, vrow int, cell Cell) {
	baseX := col * e.glyphs.Width
	baseY := vrow * e.glyphs.Height

	ch := byte(0)
	switch {
	case cell.Ch == 0:
	case cell.Ch < 0x7F:
		ch = byte(cell.Ch)
	default:
		if sub, ok := glyphFallbacks[cell.Ch]; ok {
			ch = sub
		} else {
			ch = '?'
		}
	}

	fg, bg := cell.Style.Fg, cell.Style.Bg
	if cell.Ch == 0 && fg == 0 && bg == 0 {
		fg, bg = e.defaultFg, e.defaultBg
	}

	for gy := 0; gy < e.glyphs.Height; gy++ {
		for gx := 0; gx < e.glyphs.Width; gx++ {
			color := bg
			if ch != 0 && e.glyphs.Lit(ch, gx, gy) {
				color = fg
			} else if ch != 0 && cell.Style.Bold && gx > 0 && e.glyphs.Lit(ch, gx-1, gy) {
				// Double-strike for bold.
				color = fg
			}
			e.fb.SetPixel(baseX+gx, baseY+gy, color)
		}
	}
}

func (e *TermEngine) fillBackground() {
	for y := 0; y < e.fb.Height(); y++ {
		for x := 0; x < e.fb.Width(); x++ {
			e.fb.SetPixel(x, y, e.defaultBg)
		}
	}
}
