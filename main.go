// main.go - Entry point: run the bundled application on the real
// terminal, or inside the window-hosted embedded terminal.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	displayWidth  = 1024
	displayHeight = 768
)

func main() {
	var (
		virtual    bool
		tickMs     int
		fontPath   string
		fontSize   float64
		configPath string
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&virtual, "virtual", false, "Run inside the windowed embedded terminal")
	flagSet.IntVar(&tickMs, "tick", 0, "Application tick interval in milliseconds")
	flagSet.StringVar(&fontPath, "font", "", "TTF font file for the embedded terminal")
	flagSet.Float64Var(&fontSize, "font-size", 0, "Font size for the embedded terminal")
	flagSet.StringVar(&configPath, "config", "", "Lua configuration script")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./termframe [-virtual] [-tick ms] [-font file.ttf] [-font-size pt] [-config file.lua]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override the script.
	if tickMs > 0 {
		cfg.TickMs = tickMs
	}
	if fontPath != "" {
		cfg.FontPath = fontPath
	}
	if fontSize > 0 {
		cfg.FontSize = fontSize
	}

	if virtual {
		err = runVirtual(cfg)
	} else {
		err = runNative(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runNative drives the application on the controlling terminal.
func runNative(cfg Config) error {
	screen := NewNativeScreen()
	return RunApp(screen, os.Stdout, time.Duration(cfg.TickMs)*time.Millisecond)
}

// runVirtual builds the embedded terminal stack and splits execution in
// two: the application loop runs on its own goroutine against the
// terminal host, while the window event loop occupies the main goroutine
// as the graphics layer requires.
func runVirtual(cfg Config) error {
	fb := NewFrameBuffer(displayWidth, displayHeight)

	glyphs, err := LoadGlyphSet(cfg.FontPath, cfg.FontSize)
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}

	engine := NewTermEngine(fb, glyphs, EngineConfig{
		DefaultFg:   cfg.Fg,
		DefaultBg:   cfg.Bg,
		Scrollback:  cfg.Scrollback,
		ScrollSpeed: cfg.ScrollSpeed,
	})
	host := NewTerminalHost(engine, fb)

	engine.SetClipboard(&systemClipboard{})
	if beeper, err := NewBeeper(); err == nil {
		engine.SetBell(beeper.Beep)
	} else {
		fmt.Fprintf(os.Stderr, "audio unavailable, bell disabled: %v\n", err)
	}

	keymap := DefaultKeymap()
	keymap.ApplyOverrides(cfg.Keymap)

	done := make(chan struct{})
	go func() {
		defer close(done)
		screen := NewVirtualScreen(host)
		if err := RunApp(screen, host, time.Duration(cfg.TickMs)*time.Millisecond); err != nil {
			fmt.Fprintf(os.Stderr, "application error: %v\n", err)
		}
	}()

	scroll := NewScrollAccumulator(cfg.ScrollMultiplier)
	err = NewWindowHost(host, fb, keymap, scroll, done).Run()

	// The window is gone. Unblock the application loop if it is still
	// polling, then give it a moment to restore terminal state.
	host.CloseInput()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return err
}
