// tui_app.go - Demo application: a navigable list and a tick-driven signal
// readout, driven entirely by discrete input actions.

package main

import (
	"fmt"
	"math/rand"
)

// Action is the small vocabulary of discrete application actions decoded
// from KeyText input.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionQuit
	ActionKey
)

// DecodeAction maps one KeyText string to an application action. Arrow CSI
// sequences and vi-style keys navigate, "q" and Ctrl-C quit, anything else
// is a generic key action.
func DecodeAction(text string) Action {
	switch text {
	case "\x1b[A", "k":
		return ActionUp
	case "\x1b[B", "j":
		return ActionDown
	case "q", "\x03":
		return ActionQuit
	case "":
		return ActionNone
	default:
		return ActionKey
	}
}

type App struct {
	title    string
	items    []string
	selected int
	ticks    int
	signal   []int
	level    int
	lastKey  string
	rng      *rand.Rand
	quit     bool
}

func NewApp(title string) *App {
	return &App{
		title: title,
		items: []string{
			"Overview",
			"Processes",
			"Network",
			"Storage",
			"Sensors",
			"Logs",
			"About",
		},
		level: 5,
		rng:   rand.New(rand.NewSource(0x5EED)),
	}
}

func (a *App) ShouldQuit() bool { return a.quit }

// OnKey applies one KeyText event to the application state.
func (a *App) OnKey(text string) {
	switch DecodeAction(text) {
	case ActionUp:
		if a.selected > 0 {
			a.selected--
		}
	case ActionDown:
		if a.selected < len(a.items)-1 {
			a.selected++
		}
	case ActionQuit:
		a.quit = true
	case ActionKey:
		a.lastKey = text
	}
}

// OnTick advances time-based state; it runs every tick whether or not any
// input arrived.
func (a *App) OnTick() {
	a.ticks++
	a.level += a.rng.Intn(5) - 2
	if a.level < 0 {
		a.level = 0
	}
	if a.level > 9 {
		a.level = 9
	}
	a.signal = append(a.signal, a.level)
	if len(a.signal) > 256 {
		a.signal = a.signal[1:]
	}
}

var signalRamp = []byte(" .:-=+*#%@")

// Render repaints the whole frame through the backend. The presentation
// side coalesces repaints, so unconditional full redraw per tick is fine.
func (a *App) Render(b Backend) error {
	cols, rows, err := b.Size()
	if err != nil {
		return err
	}
	if cols < 4 || rows < 4 {
		return nil
	}

	// Title bar.
	if err := b.SetCursor(0, 0); err != nil {
		return err
	}
	if err := b.SetStyle(Style{Fg: 0, Bg: 6}); err != nil {
		return err
	}
	if err := b.Print(padLine(" "+a.title, cols)); err != nil {
		return err
	}

	// Menu list.
	listRows := rows - 4
	for i, item := range a.items {
		if i >= listRows {
			break
		}
		if err := b.SetCursor(0, 1+i); err != nil {
			return err
		}
		st := DefaultStyle()
		marker := "  "
		if i == a.selected {
			st = Style{Fg: 0, Bg: 7, Bold: true}
			marker = "> "
		}
		if err := b.SetStyle(st); err != nil {
			return err
		}
		if err := b.Print(padLine(marker+item, min(cols, 28))); err != nil {
			return err
		}
		if err := b.SetStyle(DefaultStyle()); err != nil {
			return err
		}
		if err := b.ClearToEOL(); err != nil {
			return err
		}
	}

	// Signal readout above the footer.
	if err := b.SetCursor(0, rows-3); err != nil {
		return err
	}
	if err := b.SetStyle(Style{Fg: 2, Bg: -1}); err != nil {
		return err
	}
	if err := b.Print(padLine(a.signalLine(cols), cols)); err != nil {
		return err
	}

	// Footer.
	if err := b.SetCursor(0, rows-1); err != nil {
		return err
	}
	if err := b.SetStyle(Style{Fg: 8, Bg: -1}); err != nil {
		return err
	}
	status := fmt.Sprintf(" j/k or arrows: move   q: quit   tick %d", a.ticks)
	if a.lastKey != "" {
		status += fmt.Sprintf("   key %q", a.lastKey)
	}
	if err := b.Print(padLine(status, cols)); err != nil {
		return err
	}
	return b.SetStyle(DefaultStyle())
}

func (a *App) signalLine(cols int) string {
	buf := make([]byte, 0, cols)
	start := 0
	if len(a.signal) > cols {
		start = len(a.signal) - cols
	}
	for _, v := range a.signal[start:] {
		buf = append(buf, signalRamp[clampInt(v, 0, len(signalRamp)-1)])
	}
	return string(buf)
}

// padLine fits s to width cells, counting runes so multibyte input is
// never split mid-sequence.
func padLine(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	buf := make([]rune, width)
	copy(buf, runes)
	for i := len(runes); i < width; i++ {
		buf[i] = ' '
	}
	return string(buf)
}
