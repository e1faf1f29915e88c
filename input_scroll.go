// input_scroll.go - Mouse-wheel delta normalization

package main

import "math"

// touchpadScrollMultiplier scales continuous pixel-style deltas down to
// line units before accumulation.
const touchpadScrollMultiplier = 0.25

// ScrollAccumulator converts a stream of fractional scroll deltas into
// whole-line events. Whenever the accumulated magnitude reaches a full
// line, the integral part (truncated toward zero) is emitted and the
// fractional remainder carries over, so no motion is lost to rounding,
// only delayed.
type ScrollAccumulator struct {
	acc        float64
	pixelScale float64
}

func NewScrollAccumulator(pixelScale float64) *ScrollAccumulator {
	if pixelScale <= 0 {
		pixelScale = touchpadScrollMultiplier
	}
	return &ScrollAccumulator{pixelScale: pixelScale}
}

// AddLines accumulates a discrete line delta and returns the whole lines
// to emit now (0 if the magnitude is still below one line).
func (s *ScrollAccumulator) AddLines(delta float64) int {
	s.acc += delta
	lines := int(s.acc)
	s.acc -= float64(lines)
	return lines
}

// AddPixels accumulates a continuous pixel delta, scaled by the touchpad
// multiplier.
func (s *ScrollAccumulator) AddPixels(delta float64) int {
	return s.AddLines(delta * s.pixelScale)
}

// AddWheel routes one wheel delta by kind. Whole-number deltas are
// discrete wheel clicks and count as lines directly; fractional deltas
// are continuous touchpad motion and go through the pixel multiplier.
func (s *ScrollAccumulator) AddWheel(delta float64) int {
	if delta == math.Trunc(delta) {
		return s.AddLines(delta)
	}
	return s.AddPixels(delta)
}

// Pending returns the fractional remainder currently held back.
func (s *ScrollAccumulator) Pending() float64 { return s.acc }
