// tui_backend.go - Byte-stream rendering backend and the geometry adapter
// that virtualizes its reported size.

package main

import (
	"bufio"
	"fmt"
	"io"
)

// Style is the backend-level text style. Fg/Bg are ANSI palette indexes
// 0-15, or -1 for the terminal default.
type Style struct {
	Fg      int
	Bg      int
	Bold    bool
	Reverse bool
}

func DefaultStyle() Style { return Style{Fg: -1, Bg: -1} }

// Backend is the rendering surface the application draws through. It is a
// thin cursor/style/text protocol over a byte stream; both hosting
// environments satisfy it with the same ANSI emitter, differing only in
// where the stream goes and where the size comes from.
type Backend interface {
	Size() (cols, rows int, err error)
	WindowSize() (cols, rows, pixelW, pixelH int, err error)
	EnterAltScreen() error
	LeaveAltScreen() error
	Clear() error
	ClearToEOL() error
	HideCursor() error
	ShowCursor() error
	SetCursor(col, row int) error
	SetStyle(st Style) error
	Print(s string) error
	Flush() error
}

// AnsiBackend renders by emitting ANSI control sequences to an output
// stream. The size query is pluggable: the native screen wires it to the
// real terminal, the virtual screen never uses it directly (the geometry
// adapter overrides it).
type AnsiBackend struct {
	w      *bufio.Writer
	sizeFn func() (int, int, error)
}

func NewAnsiBackend(w io.Writer, sizeFn func() (int, int, error)) *AnsiBackend {
	return &AnsiBackend{w: bufio.NewWriter(w), sizeFn: sizeFn}
}

func (b *AnsiBackend) Size() (int, int, error) {
	if b.sizeFn == nil {
		return 80, 24, nil
	}
	return b.sizeFn()
}

func (b *AnsiBackend) WindowSize() (int, int, int, int, error) {
	cols, rows, err := b.Size()
	return cols, rows, 0, 0, err
}

func (b *AnsiBackend) EnterAltScreen() error { return b.emit("\x1b[?1049h") }
func (b *AnsiBackend) LeaveAltScreen() error { return b.emit("\x1b[?1049l") }
func (b *AnsiBackend) Clear() error          { return b.emit("\x1b[2J\x1b[H") }
func (b *AnsiBackend) ClearToEOL() error     { return b.emit("\x1b[K") }
func (b *AnsiBackend) HideCursor() error     { return b.emit("\x1b[?25l") }
func (b *AnsiBackend) ShowCursor() error     { return b.emit("\x1b[?25h") }

func (b *AnsiBackend) SetCursor(col, row int) error {
	_, err := fmt.Fprintf(b.w, "\x1b[%d;%dH", row+1, col+1)
	return err
}

func (b *AnsiBackend) SetStyle(st Style) error {
	if err := b.emit("\x1b[0m"); err != nil {
		return err
	}
	if st.Bold {
		if err := b.emit("\x1b[1m"); err != nil {
			return err
		}
	}
	if st.Reverse {
		if err := b.emit("\x1b[7m"); err != nil {
			return err
		}
	}
	if st.Fg >= 0 {
		if err := b.emitColor(st.Fg, 30, 90); err != nil {
			return err
		}
	}
	if st.Bg >= 0 {
		if err := b.emitColor(st.Bg, 40, 100); err != nil {
			return err
		}
	}
	return nil
}

func (b *AnsiBackend) emitColor(idx, base, brightBase int) error {
	if idx >= 8 {
		_, err := fmt.Fprintf(b.w, "\x1b[%dm", brightBase+idx-8)
		return err
	}
	_, err := fmt.Fprintf(b.w, "\x1b[%dm", base+idx)
	return err
}

func (b *AnsiBackend) Print(s string) error {
	_, err := b.w.WriteString(s)
	return err
}

func (b *AnsiBackend) Flush() error { return b.w.Flush() }

func (b *AnsiBackend) emit(seq string) error {
	_, err := b.w.WriteString(seq)
	return err
}

// VirtualBackend is the geometry adapter: every drawing and cursor
// primitive delegates to the wrapped backend unchanged, while size queries
// read the shared geometry pair instead of asking the output stream. The
// pair is mutex-guarded, so a resize observed between two draws is applied
// whole; no draw sees a torn (cols, rows).
type VirtualBackend struct {
	Backend
	geo *Geometry
}

func NewVirtualBackend(inner Backend, geo *Geometry) *VirtualBackend {
	return &VirtualBackend{Backend: inner, geo: geo}
}

func (b *VirtualBackend) Size() (int, int, error) {
	cols, rows := b.geo.Get()
	return cols, rows, nil
}

func (b *VirtualBackend) WindowSize() (int, int, int, int, error) {
	cols, rows := b.geo.Get()
	return cols, rows, 0, 0, nil
}
