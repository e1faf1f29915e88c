// term_screen_buffer.go - Styled cell grid with scrollback for the embedded terminal

package main

const tabWidth = 8

// CellStyle is the resolved visual style of one character cell. Colors are
// packed 0xRRGGBB, already looked up from the palette.
type CellStyle struct {
	Fg   uint32
	Bg   uint32
	Bold bool
}

// Cell is one character cell. Ch 0 means empty (rendered as background).
type Cell struct {
	Ch    rune
	Style CellStyle
}

// CellBuffer is the terminal's character grid: a fixed-width line list with
// a visible window of `rows` lines at the live tail, plus scrollback above
// it. Cursor addressing is relative to the live window, which is how CSI
// positioning behaves. The display viewport can be scrolled into history
// independently of the cursor; any new output snaps it back to the tail.
type CellBuffer struct {
	cols     int
	rows     int
	maxLines int

	lines       [][]Cell
	viewportTop int

	cursorX   int
	cursorRow int // row within the live window, 0..rows-1
}

func NewCellBuffer(cols, rows, scrollback int) *CellBuffer {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	maxLines := rows + scrollback
	if maxLines < rows {
		maxLines = rows
	}
	cb := &CellBuffer{
		cols:     cols,
		rows:     rows,
		maxLines: maxLines,
		lines:    make([][]Cell, rows),
	}
	for i := range cb.lines {
		cb.lines[i] = make([]Cell, cols)
	}
	return cb
}

func (cb *CellBuffer) Cols() int { return cb.cols }
func (cb *CellBuffer) Rows() int { return cb.rows }

func (cb *CellBuffer) liveTop() int {
	if len(cb.lines) <= cb.rows {
		return 0
	}
	return len(cb.lines) - cb.rows
}

// Put places r at the cursor with the given style and advances, wrapping at
// the right edge.
func (cb *CellBuffer) Put(r rune, st CellStyle) {
	cb.snapToLive()
	if cb.cursorX >= cb.cols {
		cb.cursorX = 0
		cb.lineFeedLocked()
	}
	cb.lines[cb.liveTop()+cb.cursorRow][cb.cursorX] = Cell{Ch: r, Style: st}
	cb.cursorX++
}

func (cb *CellBuffer) LineFeed() {
	cb.snapToLive()
	cb.lineFeedLocked()
}

func (cb *CellBuffer) lineFeedLocked() {
	if cb.cursorRow < cb.rows-1 {
		cb.cursorRow++
		return
	}
	// Bottom row: the live window slides down by one line.
	cb.lines = append(cb.lines, make([]Cell, cb.cols))
	cb.trim()
	cb.viewportTop = cb.liveTop()
}

func (cb *CellBuffer) CarriageReturn() {
	cb.cursorX = 0
}

func (cb *CellBuffer) Backspace() {
	if cb.cursorX > 0 {
		cb.cursorX--
	}
}

func (cb *CellBuffer) Tab() {
	next := (cb.cursorX + tabWidth) &^ (tabWidth - 1)
	if next >= cb.cols {
		next = cb.cols - 1
	}
	cb.cursorX = next
}

// SetCursor positions the cursor within the live window, clamped.
func (cb *CellBuffer) SetCursor(col, row int) {
	cb.snapToLive()
	cb.cursorX = clampInt(col, 0, cb.cols-1)
	cb.cursorRow = clampInt(row, 0, cb.rows-1)
}

// MoveCursor moves the cursor relatively, clamped to the live window.
// Relative moves never scroll.
func (cb *CellBuffer) MoveCursor(dx, dy int) {
	cb.SetCursor(cb.cursorX+dx, cb.cursorRow+dy)
}

// CursorPos returns the cursor position within the live window.
func (cb *CellBuffer) CursorPos() (col, row int) {
	return cb.cursorX, cb.cursorRow
}

// EraseDisplay clears part of the live window per CSI J semantics:
// 0 cursor to end, 1 start to cursor, 2 whole window.
func (cb *CellBuffer) EraseDisplay(mode int, st CellStyle) {
	cb.snapToLive()
	top := cb.liveTop()
	switch mode {
	case 1:
		for row := 0; row < cb.cursorRow; row++ {
			cb.clearSpan(top+row, 0, cb.cols, st)
		}
		cb.clearSpan(top+cb.cursorRow, 0, cb.cursorX+1, st)
	case 2:
		for row := 0; row < cb.rows; row++ {
			cb.clearSpan(top+row, 0, cb.cols, st)
		}
	default:
		cb.clearSpan(top+cb.cursorRow, cb.cursorX, cb.cols, st)
		for row := cb.cursorRow + 1; row < cb.rows; row++ {
			cb.clearSpan(top+row, 0, cb.cols, st)
		}
	}
}

// EraseLine clears part of the cursor line per CSI K semantics.
func (cb *CellBuffer) EraseLine(mode int, st CellStyle) {
	cb.snapToLive()
	abs := cb.liveTop() + cb.cursorRow
	switch mode {
	case 1:
		cb.clearSpan(abs, 0, cb.cursorX+1, st)
	case 2:
		cb.clearSpan(abs, 0, cb.cols, st)
	default:
		cb.clearSpan(abs, cb.cursorX, cb.cols, st)
	}
}

func (cb *CellBuffer) clearSpan(absRow, from, to int, st CellStyle) {
	if absRow < 0 || absRow >= len(cb.lines) {
		return
	}
	line := cb.lines[absRow]
	for i := from; i < to && i < cb.cols; i++ {
		line[i] = Cell{Style: st}
	}
}

// VisibleCell returns the cell at display position (col, vrow), which
// accounts for any scrollback offset of the viewport.
func (cb *CellBuffer) VisibleCell(col, vrow int) Cell {
	absRow := cb.viewportTop + vrow
	if col < 0 || col >= cb.cols || absRow < 0 || absRow >= len(cb.lines) {
		return Cell{}
	}
	return cb.lines[absRow][col]
}

// CursorVisible reports whether the cursor's line is inside the current
// viewport, and where.
func (cb *CellBuffer) CursorVisible() (col, vrow int, ok bool) {
	abs := cb.liveTop() + cb.cursorRow
	vrow = abs - cb.viewportTop
	if vrow < 0 || vrow >= cb.rows {
		return 0, 0, false
	}
	return cb.cursorX, vrow, true
}

// ScrollViewport moves the display window delta lines (negative = into
// history). The cursor and live window are unaffected.
func (cb *CellBuffer) ScrollViewport(delta int) {
	cb.viewportTop = clampInt(cb.viewportTop+delta, 0, cb.liveTop())
}

// AtLiveTail reports whether the viewport is showing the live window.
func (cb *CellBuffer) AtLiveTail() bool {
	return cb.viewportTop == cb.liveTop()
}

// HistoryLines returns how many lines of scrollback exist above the live
// window.
func (cb *CellBuffer) HistoryLines() int {
	return cb.liveTop()
}

func (cb *CellBuffer) snapToLive() {
	cb.viewportTop = cb.liveTop()
}

func (cb *CellBuffer) trim() {
	if len(cb.lines) <= cb.maxLines {
		return
	}
	drop := len(cb.lines) - cb.maxLines
	cb.lines = cb.lines[drop:]
	cb.viewportTop -= drop
	if cb.viewportTop < 0 {
		cb.viewportTop = 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
