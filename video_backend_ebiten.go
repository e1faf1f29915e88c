// video_backend_ebiten.go - Window/event host presenting the shared
// framebuffer and feeding hardware input into the embedded terminal.

package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowHost owns the OS window and a fixed-size presentation surface
// matching the framebuffer exactly. It runs on the process's main
// goroutine; the application loop runs beside it and the two meet only at
// the terminal host's lock and event queue.
type WindowHost struct {
	host   *TerminalHost
	fb     *FrameBuffer
	keymap Keymap
	scroll *ScrollAccumulator
	done   <-chan struct{}

	img   *ebiten.Image
	frame []byte
	keys  []ebiten.Key
	chars []rune
	title string
}

func NewWindowHost(host *TerminalHost, fb *FrameBuffer, keymap Keymap, scroll *ScrollAccumulator, done <-chan struct{}) *WindowHost {
	return &WindowHost{
		host:   host,
		fb:     fb,
		keymap: keymap,
		scroll: scroll,
		done:   done,
		frame:  make([]byte, fb.Width()*fb.Height()*4),
		title:  "Terminal",
	}
}

// Run configures the window and blocks in the event loop until the user
// closes the window or the application loop signals completion. The
// initial Resize event is pushed before the loop starts so the
// application's first draw already has real geometry.
func (w *WindowHost) Run() error {
	eng := w.host.Engine()
	w.host.PushResize(eng.Columns(), eng.Rows())

	ebiten.SetWindowSize(w.fb.Width(), w.fb.Height())
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetScreenClearedEveryFrame(false)

	return ebiten.RunGame(w)
}

// Update handles one input pass: committed text, key transitions through
// the scancode table, and wheel deltas through the accumulator. Returning
// ebiten.Termination ends the event loop.
func (w *WindowHost) Update() error {
	select {
	case <-w.done:
		// The application loop has finished.
		return ebiten.Termination
	default:
	}
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	w.chars = ebiten.AppendInputChars(w.chars[:0])
	if len(w.chars) > 0 {
		w.host.InjectText(string(w.chars))
	}

	w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
	for _, key := range w.keys {
		w.injectKey(key, false)
	}
	w.keys = inpututil.AppendJustReleasedKeys(w.keys[:0])
	for _, key := range w.keys {
		w.injectKey(key, true)
	}

	if _, y := ebiten.Wheel(); y != 0 {
		if lines := w.scroll.AddWheel(y); lines != 0 {
			w.host.InjectScroll(lines)
		}
	}
	return nil
}

func (w *WindowHost) injectKey(key ebiten.Key, released bool) {
	for _, b := range w.keymap.Translate(key, released) {
		w.host.InjectKey(b)
	}
}

// Draw presents at display-refresh cadence. Only a claimed dirty flag
// costs a flush and pixel upload; idle frames redraw the cached image.
func (w *WindowHost) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(w.fb.Width(), w.fb.Height())
	}
	if w.host.TakePendingDraw() {
		w.host.FlushFrame(w.frame)
		w.img.WritePixels(w.frame)
	}
	screen.DrawImage(w.img, nil)
}

func (w *WindowHost) Layout(_, _ int) (int, int) {
	return w.fb.Width(), w.fb.Height()
}
