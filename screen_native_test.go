// screen_native_test.go - Native screen lifecycle tests

package main

import (
	"testing"
	"time"
)

func TestNativeScreen_StopReleasesResizeWatcher(t *testing.T) {
	s := NewNativeScreen()
	watchResize(s)

	s.stop()
	s.stop() // idempotent

	select {
	case <-s.stopCh:
	case <-time.After(time.Second):
		t.Fatalf("expected stop channel closed")
	}
}

func TestNativeScreen_DisableBeforeEnableIsNoop(t *testing.T) {
	s := NewNativeScreen()
	if err := s.DisableRawMode(); err != nil {
		t.Fatalf("expected no-op disable without raw mode, got %v", err)
	}
}
