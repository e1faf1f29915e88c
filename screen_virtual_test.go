// screen_virtual_test.go - Virtual screen tests

package main

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestVirtualScreen_InitialGeometryFromEngine(t *testing.T) {
	h := newTestHost(t)
	s := NewVirtualScreen(h)

	b := s.CreateBackend(&bytes.Buffer{})
	cols, rows, err := b.Size()
	if err != nil {
		t.Fatalf("unexpected size error: %v", err)
	}
	if cols != h.Engine().Columns() || rows != h.Engine().Rows() {
		t.Fatalf("expected engine grid %dx%d, got %dx%d",
			h.Engine().Columns(), h.Engine().Rows(), cols, rows)
	}
}

func TestVirtualScreen_ResizeReachesBackend(t *testing.T) {
	h := newTestHost(t)
	s := NewVirtualScreen(h)
	b := s.CreateBackend(&bytes.Buffer{})

	s.Resize(132, 43)
	cols, rows, err := b.Size()
	if err != nil || cols != 132 || rows != 43 {
		t.Fatalf("expected 132x43 after resize, got %dx%d err=%v", cols, rows, err)
	}
	cols, rows, _, _, err = b.WindowSize()
	if err != nil || cols != 132 || rows != 43 {
		t.Fatalf("expected window size to track resize, got %dx%d err=%v", cols, rows, err)
	}
}

func TestVirtualScreen_PollDeliversHostEvents(t *testing.T) {
	h := newTestHost(t)
	s := NewVirtualScreen(h)

	h.InjectText("x")
	ev, ok, err := s.PollEvent(time.Second)
	if err != nil || !ok || ev.Text != "x" {
		t.Fatalf("expected injected key, got %+v ok=%v err=%v", ev, ok, err)
	}
}

func TestVirtualScreen_PollTimeout(t *testing.T) {
	h := newTestHost(t)
	s := NewVirtualScreen(h)

	_, ok, err := s.PollEvent(10 * time.Millisecond)
	if ok || err != nil {
		t.Fatalf("expected quiet timeout, got ok=%v err=%v", ok, err)
	}
}

func TestVirtualScreen_PollAfterClose(t *testing.T) {
	h := newTestHost(t)
	s := NewVirtualScreen(h)

	h.CloseInput()
	_, _, err := s.PollEvent(10 * time.Millisecond)
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
}

func TestVirtualScreen_RawModeIsNoop(t *testing.T) {
	h := newTestHost(t)
	s := NewVirtualScreen(h)

	if err := s.EnableRawMode(); err != nil {
		t.Fatalf("expected no-op enable, got %v", err)
	}
	if err := s.DisableRawMode(); err != nil {
		t.Fatalf("expected no-op disable, got %v", err)
	}
}
