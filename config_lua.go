// config_lua.go - Optional Lua configuration script
//
// The scancode table, colors, tick rate and scroll behavior are
// configuration, not code: a Lua script can override any of them without
// rebuilding. Example:
//
//	tick_ms = 100
//	font = "/usr/share/fonts/TTF/FiraCode-Regular.ttf"
//	font_size = 14
//	scroll_speed = 3
//	fg = 0xE0E0E0
//	bg = 0x101418
//	keymap = { F1 = 0x3B, CapsLock = 0x1D }

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

type Config struct {
	TickMs           int
	FontPath         string
	FontSize         float64
	Fg               uint32
	Bg               uint32
	Scrollback       int
	ScrollSpeed      int
	ScrollMultiplier float64
	Keymap           map[string]uint16
}

func DefaultConfig() Config {
	return Config{
		TickMs:           250,
		FontSize:         defaultFontSize,
		Fg:               0xD3D7CF,
		Bg:               0x000000,
		Scrollback:       1000,
		ScrollSpeed:      5,
		ScrollMultiplier: touchpadScrollMultiplier,
	}
}

// LoadConfig evaluates a Lua script and applies its globals over the
// defaults. With an empty path the defaults are returned untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if v, ok := luaInt(L, "tick_ms"); ok && v > 0 {
		cfg.TickMs = v
	}
	if v, ok := luaString(L, "font"); ok {
		cfg.FontPath = v
	}
	if v, ok := luaNumber(L, "font_size"); ok && v > 0 {
		cfg.FontSize = v
	}
	if v, ok := luaInt(L, "fg"); ok {
		cfg.Fg = uint32(v)
	}
	if v, ok := luaInt(L, "bg"); ok {
		cfg.Bg = uint32(v)
	}
	if v, ok := luaInt(L, "scrollback"); ok && v >= 0 {
		cfg.Scrollback = v
	}
	if v, ok := luaInt(L, "scroll_speed"); ok && v > 0 {
		cfg.ScrollSpeed = v
	}
	if v, ok := luaNumber(L, "scroll_multiplier"); ok && v > 0 {
		cfg.ScrollMultiplier = v
	}

	if tbl, ok := L.GetGlobal("keymap").(*lua.LTable); ok {
		cfg.Keymap = make(map[string]uint16)
		tbl.ForEach(func(k, v lua.LValue) {
			name, okK := k.(lua.LString)
			code, okV := v.(lua.LNumber)
			if okK && okV && code >= 0 && code <= 0xFFFF {
				cfg.Keymap[string(name)] = uint16(code)
			}
		})
	}
	return cfg, nil
}

func luaNumber(L *lua.LState, name string) (float64, bool) {
	if n, ok := L.GetGlobal(name).(lua.LNumber); ok {
		return float64(n), true
	}
	return 0, false
}

func luaInt(L *lua.LState, name string) (int, bool) {
	n, ok := luaNumber(L, name)
	return int(n), ok
}

func luaString(L *lua.LState, name string) (string, bool) {
	if s, ok := L.GetGlobal(name).(lua.LString); ok {
		return string(s), true
	}
	return "", false
}
