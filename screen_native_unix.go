//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// watchResize forwards SIGWINCH as Resize events.
func watchResize(s *NativeScreen) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for {
			select {
			case <-ch:
				s.pushSize()
			case <-s.stopCh:
				signal.Stop(ch)
				return
			}
		}
	}()
}
