// tui_run.go - Application thread loop

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// RunApp drives the interactive application against a Screen until the
// application quits or the input source disconnects. Raw mode and the
// alternate screen are restored on every exit path; teardown must leave no
// partial terminal state behind.
func RunApp(screen Screen, out io.Writer, tickRate time.Duration) error {
	if tickRate <= 0 {
		tickRate = 250 * time.Millisecond
	}

	if err := screen.EnableRawMode(); err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if err := screen.DisableRawMode(); err != nil {
			fmt.Fprintf(os.Stderr, "disable raw mode: %v\n", err)
		}
	}()

	b := screen.CreateBackend(out)
	if err := b.EnterAltScreen(); err != nil {
		return err
	}
	if err := b.HideCursor(); err != nil {
		return err
	}
	defer func() {
		_ = b.ShowCursor()
		_ = b.LeaveAltScreen()
		_ = b.Flush()
	}()

	app := NewApp("Terminal Bridge Demo")
	lastTick := time.Now()

	for {
		if err := app.Render(b); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := b.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		timeout := tickRate - time.Since(lastTick)
		if timeout < 0 {
			timeout = 0
		}
		ev, ok, err := screen.PollEvent(timeout)
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				return err
			}
			return fmt.Errorf("poll: %w", err)
		}
		if ok {
			switch ev.Kind {
			case EventKeyText:
				app.OnKey(ev.Text)
			case EventResize:
				screen.Resize(ev.Cols, ev.Rows)
			}
		}

		if time.Since(lastTick) >= tickRate {
			app.OnTick()
			lastTick = time.Now()
		}
		if app.ShouldQuit() {
			return nil
		}
	}
}
