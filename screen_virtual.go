// screen_virtual.go - Screen implementation backed by the window-hosted
// embedded terminal.

package main

import (
	"io"
	"time"
)

// VirtualScreen runs the application against the embedded terminal host.
// There is no line discipline to toggle; input arrives on the host's event
// queue and the reported geometry lives in a shared pair updated by Resize
// events.
type VirtualScreen struct {
	host *TerminalHost
	geo  *Geometry
}

func NewVirtualScreen(host *TerminalHost) *VirtualScreen {
	eng := host.Engine()
	return &VirtualScreen{
		host: host,
		geo:  NewGeometry(eng.Columns(), eng.Rows()),
	}
}

func (s *VirtualScreen) PollEvent(timeout time.Duration) (InputEvent, bool, error) {
	return s.host.Events().Poll(timeout)
}

// EnableRawMode and DisableRawMode are no-ops: window input never passes
// through a line discipline.
func (s *VirtualScreen) EnableRawMode() error  { return nil }
func (s *VirtualScreen) DisableRawMode() error { return nil }

func (s *VirtualScreen) CreateBackend(w io.Writer) Backend {
	return NewVirtualBackend(NewAnsiBackend(w, nil), s.geo)
}

func (s *VirtualScreen) Resize(cols, rows int) {
	s.geo.Set(cols, rows)
}

// Geometry exposes the shared pair for tests.
func (s *VirtualScreen) Geometry() *Geometry { return s.geo }
