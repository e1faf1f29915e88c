// screen.go - Screen capability interface shared by the native and virtual hosts

package main

import (
	"errors"
	"io"
	"sync"
	"time"
	"unicode/utf8"
)

// ErrInputClosed is returned by PollEvent once the event source is
// permanently gone. The loop observing it is expected to wind down.
var ErrInputClosed = errors.New("screen: input source closed")

type EventKind int

const (
	EventKeyText EventKind = iota
	EventResize
)

// InputEvent is the unit carried from the hosting environment to the
// application loop. KeyText carries the raw key string (a single rune or a
// full escape sequence); Resize carries a new terminal grid size.
type InputEvent struct {
	Kind EventKind
	Text string
	Cols int
	Rows int
}

func KeyTextEvent(s string) InputEvent {
	return InputEvent{Kind: EventKeyText, Text: s}
}

func ResizeEvent(cols, rows int) InputEvent {
	return InputEvent{Kind: EventResize, Cols: cols, Rows: rows}
}

// Screen abstracts the hosting environment the application runs against.
// Exactly two implementations exist: NativeScreen (real host terminal) and
// VirtualScreen (window-hosted embedded terminal). One is chosen at startup.
type Screen interface {
	// PollEvent blocks for at most timeout waiting for the next input
	// event. ok is false when the timeout elapsed with no event. A non-nil
	// error means the source is permanently closed.
	PollEvent(timeout time.Duration) (ev InputEvent, ok bool, err error)

	// EnableRawMode and DisableRawMode toggle the host terminal's line
	// discipline. Window input has no line discipline, so the virtual
	// implementation treats both as no-ops.
	EnableRawMode() error
	DisableRawMode() error

	// CreateBackend returns a rendering backend bound to w.
	CreateBackend(w io.Writer) Backend

	// Resize updates the geometry reported to backends created by this
	// screen. The native implementation ignores it: the real terminal's
	// size is authoritative.
	Resize(cols, rows int)
}

// Geometry is the shared logical (columns, rows) pair reported to the
// virtual backend. Readers always observe a fully formed pair.
type Geometry struct {
	mu   sync.Mutex
	cols int
	rows int
}

func NewGeometry(cols, rows int) *Geometry {
	return &Geometry{cols: cols, rows: rows}
}

func (g *Geometry) Get() (cols, rows int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols, g.rows
}

func (g *Geometry) Set(cols, rows int) {
	g.mu.Lock()
	g.cols = cols
	g.rows = rows
	g.mu.Unlock()
}

// SplitKeyInput splits a chunk of terminal-protocol bytes into per-key
// strings. Escape sequences (CSI and SS3) stay whole; everything else is
// split per rune. Bytes that do not form valid UTF-8 are dropped, matching
// the silent-drop policy for unparseable protocol input.
func SplitKeyInput(data []byte) []string {
	var keys []string
	for len(data) > 0 {
		if data[0] == 0x1B {
			n := escapeLen(data)
			keys = append(keys, string(data[:n]))
			data = data[n:]
			continue
		}
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			data = data[1:]
			continue
		}
		keys = append(keys, string(data[:size]))
		data = data[size:]
	}
	return keys
}

// escapeLen returns the length of the escape sequence at the start of data.
// data[0] must be ESC. A bare ESC (nothing recognizable after it) has
// length 1.
func escapeLen(data []byte) int {
	if len(data) < 2 {
		return 1
	}
	switch data[1] {
	case '[':
		// CSI: parameters then a final byte in 0x40..0x7E.
		for i := 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7E {
				return i + 1
			}
		}
		return len(data)
	case 'O':
		// SS3: single final byte.
		if len(data) >= 3 {
			return 3
		}
		return 2
	default:
		return 1
	}
}
