// audio_bell.go - Terminal bell on the oto audio backend

package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	bellSampleRate = 44100
	bellFrequency  = 880.0
	bellDuration   = 90 * time.Millisecond
	bellCooldown   = 120 * time.Millisecond
)

// Beeper plays the BEL tone. It is invoked from inside the engine's
// critical section, so Beep must never block: players are fire-and-forget.
type Beeper struct {
	ctx *oto.Context
	buf []byte

	mu   sync.Mutex
	last time.Time
}

func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   bellSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &Beeper{ctx: ctx, buf: renderBellTone()}, nil
}

// Beep schedules one bell tone. Rapid BEL bursts are rate-limited to one
// audible tone per cooldown window.
func (b *Beeper) Beep() {
	b.mu.Lock()
	now := time.Now()
	if now.Sub(b.last) < bellCooldown {
		b.mu.Unlock()
		return
	}
	b.last = now
	b.mu.Unlock()

	p := b.ctx.NewPlayer(bytes.NewReader(b.buf))
	p.Play()
	go func() {
		time.Sleep(bellDuration + 50*time.Millisecond)
		_ = p.Close()
	}()
}

// renderBellTone pre-renders a sine burst with a linear fade-out so the
// tone ends without a click.
func renderBellTone() []byte {
	samples := int(float64(bellSampleRate) * bellDuration.Seconds())
	buf := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		fade := 1.0 - float64(i)/float64(samples)
		v := float32(0.25 * fade * math.Sin(2*math.Pi*bellFrequency*float64(i)/bellSampleRate))
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
