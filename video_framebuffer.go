// video_framebuffer.go - Fixed-size shared pixel framebuffer

package main

import "sync/atomic"

// FrameBuffer is a fixed-size grid of packed 0xRRGGBB pixels. Each cell is
// independently atomic: the write path stores cells while the presentation
// path snapshots them without a lock. Dimensions never change after
// creation. A torn frame is a one-frame visual artifact, not a correctness
// problem; writes are serialized upstream by the engine lock anyway.
type FrameBuffer struct {
	width  int
	height int
	pixels []atomic.Uint32
}

func NewFrameBuffer(width, height int) *FrameBuffer {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pixels: make([]atomic.Uint32, width*height),
	}
}

func (fb *FrameBuffer) Width() int  { return fb.width }
func (fb *FrameBuffer) Height() int { return fb.height }

// SetPixel stores one packed 0xRRGGBB pixel. Out-of-bounds writes are
// dropped rather than panicking in the render path.
func (fb *FrameBuffer) SetPixel(x, y int, rgb uint32) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.pixels[y*fb.width+x].Store(rgb)
}

// Pixel returns the packed 0xRRGGBB value at (x, y), or 0 out of bounds.
func (fb *FrameBuffer) Pixel(x, y int) uint32 {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return 0
	}
	return fb.pixels[y*fb.width+x].Load()
}

// Snapshot copies the framebuffer into dst as RGBA bytes (alpha forced
// opaque), the layout the presentation surface consumes. dst must hold
// width*height*4 bytes.
func (fb *FrameBuffer) Snapshot(dst []byte) {
	n := len(fb.pixels)
	if len(dst) < n*4 {
		return
	}
	for i := 0; i < n; i++ {
		rgb := fb.pixels[i].Load()
		dst[i*4] = byte(rgb >> 16)
		dst[i*4+1] = byte(rgb >> 8)
		dst[i*4+2] = byte(rgb)
		dst[i*4+3] = 0xFF
	}
}
