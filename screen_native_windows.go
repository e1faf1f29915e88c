//go:build windows

package main

// watchResize is a no-op on Windows: there is no SIGWINCH, and the size is
// re-queried on every backend Size call anyway.
func watchResize(s *NativeScreen) {}
