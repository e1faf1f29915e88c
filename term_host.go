// term_host.go - Embedded terminal host: owns the engine lock, the
// framebuffer handoff, and the window->application event channel.

package main

import (
	"sync"
	"sync/atomic"

	"golang.design/x/clipboard"
)

// TerminalHost brokers all access to the emulation engine. The application
// thread enters through Write (its backend's output stream); the window
// thread enters through the Inject* methods. Both paths take the same
// mutex; critical sections are one decode/encode call.
type TerminalHost struct {
	mu     sync.Mutex
	engine *TermEngine
	fb     *FrameBuffer

	pendingDraw atomic.Bool
	events      *inputQueue
	closeOnce   sync.Once
}

func NewTerminalHost(engine *TermEngine, fb *FrameBuffer) *TerminalHost {
	h := &TerminalHost{
		engine: engine,
		fb:     fb,
		events: newInputQueue(),
	}
	// Protocol bytes come back synchronously while the lock is held; the
	// queue push never blocks, so this cannot deadlock.
	engine.SetOutput(h.deliverProtocol)
	return h
}

func (h *TerminalHost) Engine() *TermEngine { return h.engine }

// Write is the application output path: bytes from the rendering backend
// feed the engine, and any write marks the frame dirty.
func (h *TerminalHost) Write(p []byte) (int, error) {
	h.mu.Lock()
	h.engine.Process(p)
	h.mu.Unlock()
	h.pendingDraw.Store(true)
	return len(p), nil
}

// InjectKey feeds one translated hardware scancode into the engine.
func (h *TerminalHost) InjectKey(scancode byte) {
	h.mu.Lock()
	h.engine.HandleKeyboard(scancode)
	h.mu.Unlock()
	h.pendingDraw.Store(true)
}

// InjectScroll feeds whole wheel lines into the engine (positive = up).
func (h *TerminalHost) InjectScroll(lines int) {
	h.mu.Lock()
	h.engine.HandleScroll(lines)
	h.mu.Unlock()
	h.pendingDraw.Store(true)
}

// InjectText forwards committed text (typed characters, IME commits)
// directly to the application as KeyText events. Composed text never
// passes through the scancode path.
func (h *TerminalHost) InjectText(text string) {
	for _, key := range SplitKeyInput([]byte(text)) {
		h.events.Push(KeyTextEvent(key))
	}
}

// PushResize reports a new logical grid size to the application.
func (h *TerminalHost) PushResize(cols, rows int) {
	h.events.Push(ResizeEvent(cols, rows))
}

// Events exposes the window->application queue for the virtual screen.
func (h *TerminalHost) Events() *inputQueue { return h.events }

// CloseInput permanently closes the event channel; the application's next
// poll after draining observes the disconnection.
func (h *TerminalHost) CloseInput() {
	h.closeOnce.Do(h.events.Close)
}

// TakePendingDraw atomically claims the dirty flag. N writes between two
// presentation ticks coalesce into one claimed paint.
func (h *TerminalHost) TakePendingDraw() bool {
	return h.pendingDraw.Swap(false)
}

// FlushFrame finalizes buffered engine state and snapshots the framebuffer
// into dst as RGBA bytes for presentation.
func (h *TerminalHost) FlushFrame(dst []byte) {
	h.mu.Lock()
	h.engine.Flush()
	h.mu.Unlock()
	h.fb.Snapshot(dst)
}

func (h *TerminalHost) deliverProtocol(data []byte) {
	for _, key := range SplitKeyInput(data) {
		h.events.Push(KeyTextEvent(key))
	}
}

// systemClipboard adapts golang.design/x/clipboard to the engine's hook.
// Init failure (headless host, missing X11) degrades every read to "" and
// drops every write.
type systemClipboard struct {
	once sync.Once
	ok   bool
}

func (c *systemClipboard) init() {
	c.once.Do(func() {
		c.ok = clipboard.Init() == nil
	})
}

func (c *systemClipboard) GetText() string {
	c.init()
	if !c.ok {
		return ""
	}
	return string(clipboard.Read(clipboard.FmtText))
}

func (c *systemClipboard) SetText(text string) {
	c.init()
	if !c.ok {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
}
