// screen_native.go - Screen implementation backed by the real host terminal

package main

import (
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// NativeScreen runs the application against the controlling terminal: raw
// mode on the real tty, input read from stdin, size queried from the
// terminal itself. Resize notifications come from the platform watcher
// (SIGWINCH where available).
type NativeScreen struct {
	in  *os.File
	out *os.File

	events     *inputQueue
	readerOnce sync.Once

	mu       sync.Mutex
	oldState *term.State
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewNativeScreen() *NativeScreen {
	return &NativeScreen{
		in:     os.Stdin,
		out:    os.Stdout,
		events: newInputQueue(),
		stopCh: make(chan struct{}),
	}
}

func (s *NativeScreen) EnableRawMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(int(s.in.Fd()))
	if err != nil {
		return err
	}
	s.oldState = state
	s.readerOnce.Do(func() {
		go s.readLoop()
		watchResize(s)
	})
	return nil
}

func (s *NativeScreen) DisableRawMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.oldState == nil {
		return nil
	}
	err := term.Restore(int(s.in.Fd()), s.oldState)
	s.oldState = nil
	s.stop()
	return err
}

// stop releases the resize watcher and its signal registration.
func (s *NativeScreen) stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *NativeScreen) PollEvent(timeout time.Duration) (InputEvent, bool, error) {
	return s.events.Poll(timeout)
}

func (s *NativeScreen) CreateBackend(w io.Writer) Backend {
	return NewAnsiBackend(w, func() (int, int, error) {
		return term.GetSize(int(s.out.Fd()))
	})
}

// Resize is a no-op: the real terminal's size is authoritative.
func (s *NativeScreen) Resize(cols, rows int) {}

// readLoop pulls raw bytes off stdin and splits them into per-key events.
// A read error or EOF permanently closes the event source.
func (s *NativeScreen) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := s.in.Read(buf)
		if n > 0 {
			for _, key := range SplitKeyInput(buf[:n]) {
				s.events.Push(KeyTextEvent(key))
			}
		}
		if err != nil {
			s.events.Close()
			return
		}
	}
}

// pushSize queries the terminal and reports its size as a Resize event.
func (s *NativeScreen) pushSize() {
	cols, rows, err := term.GetSize(int(s.out.Fd()))
	if err != nil {
		return
	}
	s.events.Push(ResizeEvent(cols, rows))
}
