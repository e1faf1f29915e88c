// input_keymap.go - Physical-key to hardware-scancode translation

package main

import "github.com/hajimehoshi/ebiten/v2"

const (
	// keyReleaseOffset is added to a scancode when the key transition is a
	// release rather than a press.
	keyReleaseOffset = 0x80
	// extendedThreshold marks 0xE0-prefixed scancodes. Codes at or above
	// it translate to two injections: the escape byte, then the base code
	// with the threshold subtracted.
	extendedThreshold = 0xE000
	extendedEscape    = 0xE0
)

// Keymap maps ebiten physical keys to 16-bit set-1 ("windows extended")
// scancodes. The table is one hardware convention by construction; entries
// can be replaced through the config file rather than by editing code.
type Keymap map[ebiten.Key]uint16

// Translate converts one physical key transition into the scancode bytes
// to inject, in order. Unmapped keys return nil and are silently ignored.
func (m Keymap) Translate(key ebiten.Key, released bool) []byte {
	sc, ok := m[key]
	if !ok {
		return nil
	}
	if released {
		sc += keyReleaseOffset
	}
	if sc >= extendedThreshold {
		return []byte{extendedEscape, byte(sc - extendedThreshold)}
	}
	return []byte{byte(sc)}
}

// ApplyOverrides replaces table entries by ebiten key name (for example
// "F1", "ArrowUp", "A"). Unknown names are ignored.
func (m Keymap) ApplyOverrides(overrides map[string]uint16) {
	if len(overrides) == 0 {
		return
	}
	byName := make(map[string]ebiten.Key, int(ebiten.KeyMax)+1)
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		byName[k.String()] = k
	}
	for name, sc := range overrides {
		if key, ok := byName[name]; ok {
			m[key] = sc
		}
	}
}

// DefaultKeymap returns a fresh copy of the built-in table.
func DefaultKeymap() Keymap {
	m := make(Keymap, len(baseKeymap))
	for k, v := range baseKeymap {
		m[k] = v
	}
	return m
}

var baseKeymap = Keymap{
	ebiten.KeyEscape:       0x01,
	ebiten.KeyDigit1:       0x02,
	ebiten.KeyDigit2:       0x03,
	ebiten.KeyDigit3:       0x04,
	ebiten.KeyDigit4:       0x05,
	ebiten.KeyDigit5:       0x06,
	ebiten.KeyDigit6:       0x07,
	ebiten.KeyDigit7:       0x08,
	ebiten.KeyDigit8:       0x09,
	ebiten.KeyDigit9:       0x0A,
	ebiten.KeyDigit0:       0x0B,
	ebiten.KeyMinus:        0x0C,
	ebiten.KeyEqual:        0x0D,
	ebiten.KeyBackspace:    0x0E,
	ebiten.KeyTab:          0x0F,
	ebiten.KeyQ:            0x10,
	ebiten.KeyW:            0x11,
	ebiten.KeyE:            0x12,
	ebiten.KeyR:            0x13,
	ebiten.KeyT:            0x14,
	ebiten.KeyY:            0x15,
	ebiten.KeyU:            0x16,
	ebiten.KeyI:            0x17,
	ebiten.KeyO:            0x18,
	ebiten.KeyP:            0x19,
	ebiten.KeyBracketLeft:  0x1A,
	ebiten.KeyBracketRight: 0x1B,
	ebiten.KeyEnter:        0x1C,
	ebiten.KeyControlLeft:  0x1D,
	ebiten.KeyA:            0x1E,
	ebiten.KeyS:            0x1F,
	ebiten.KeyD:            0x20,
	ebiten.KeyF:            0x21,
	ebiten.KeyG:            0x22,
	ebiten.KeyH:            0x23,
	ebiten.KeyJ:            0x24,
	ebiten.KeyK:            0x25,
	ebiten.KeyL:            0x26,
	ebiten.KeySemicolon:    0x27,
	ebiten.KeyQuote:        0x28,
	ebiten.KeyBackquote:    0x29,
	ebiten.KeyShiftLeft:    0x2A,
	ebiten.KeyBackslash:    0x2B,
	ebiten.KeyZ:            0x2C,
	ebiten.KeyX:            0x2D,
	ebiten.KeyC:            0x2E,
	ebiten.KeyV:            0x2F,
	ebiten.KeyB:            0x30,
	ebiten.KeyN:            0x31,
	ebiten.KeyM:            0x32,
	ebiten.KeyComma:        0x33,
	ebiten.KeyPeriod:       0x34,
	ebiten.KeySlash:        0x35,
	ebiten.KeyShiftRight:   0x36,
	ebiten.KeyNumpadMultiply: 0x37,
	ebiten.KeyAltLeft:      0x38,
	ebiten.KeySpace:        0x39,
	ebiten.KeyCapsLock:     0x3A,
	ebiten.KeyF1:           0x3B,
	ebiten.KeyF2:           0x3C,
	ebiten.KeyF3:           0x3D,
	ebiten.KeyF4:           0x3E,
	ebiten.KeyF5:           0x3F,
	ebiten.KeyF6:           0x40,
	ebiten.KeyF7:           0x41,
	ebiten.KeyF8:           0x42,
	ebiten.KeyF9:           0x43,
	ebiten.KeyF10:          0x44,
	ebiten.KeyNumLock:      0x45,
	ebiten.KeyScrollLock:   0x46,
	ebiten.KeyNumpad7:      0x47,
	ebiten.KeyNumpad8:      0x48,
	ebiten.KeyNumpad9:      0x49,
	ebiten.KeyNumpadSubtract: 0x4A,
	ebiten.KeyNumpad4:      0x4B,
	ebiten.KeyNumpad5:      0x4C,
	ebiten.KeyNumpad6:      0x4D,
	ebiten.KeyNumpadAdd:    0x4E,
	ebiten.KeyNumpad1:      0x4F,
	ebiten.KeyNumpad2:      0x50,
	ebiten.KeyNumpad3:      0x51,
	ebiten.KeyNumpad0:      0x52,
	ebiten.KeyNumpadDecimal: 0x53,
	ebiten.KeyF11:          0x57,
	ebiten.KeyF12:          0x58,

	ebiten.KeyNumpadEnter:  0xE01C,
	ebiten.KeyControlRight: 0xE01D,
	ebiten.KeyNumpadDivide: 0xE035,
	ebiten.KeyAltRight:     0xE038,
	ebiten.KeyHome:         0xE047,
	ebiten.KeyArrowUp:      0xE048,
	ebiten.KeyPageUp:       0xE049,
	ebiten.KeyArrowLeft:    0xE04B,
	ebiten.KeyArrowRight:   0xE04D,
	ebiten.KeyEnd:          0xE04F,
	ebiten.KeyArrowDown:    0xE050,
	ebiten.KeyPageDown:     0xE051,
	ebiten.KeyInsert:       0xE052,
	ebiten.KeyDelete:       0xE053,
	ebiten.KeyMetaLeft:     0xE05B,
	ebiten.KeyMetaRight:    0xE05C,
}
