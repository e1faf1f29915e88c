// video_framebuffer_test.go - Shared framebuffer tests

package main

import "testing"

func TestFrameBuffer_SetAndReadPixel(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	fb.SetPixel(2, 1, 0x112233)

	if got := fb.Pixel(2, 1); got != 0x112233 {
		t.Fatalf("expected 0x112233, got 0x%06X", got)
	}
	if got := fb.Pixel(0, 0); got != 0 {
		t.Fatalf("expected untouched pixel to be 0, got 0x%06X", got)
	}
}

func TestFrameBuffer_OutOfBoundsIgnored(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	fb.SetPixel(-1, 0, 0xFFFFFF)
	fb.SetPixel(4, 0, 0xFFFFFF)
	fb.SetPixel(0, 3, 0xFFFFFF)

	if got := fb.Pixel(-1, 0); got != 0 {
		t.Fatalf("expected 0 for out-of-bounds read, got 0x%06X", got)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if fb.Pixel(x, y) != 0 {
				t.Fatalf("out-of-bounds write landed at (%d,%d)", x, y)
			}
		}
	}
}

func TestFrameBuffer_SnapshotRGBA(t *testing.T) {
	fb := NewFrameBuffer(2, 1)
	fb.SetPixel(0, 0, 0x112233)
	fb.SetPixel(1, 0, 0xAABBCC)

	dst := make([]byte, 2*1*4)
	fb.Snapshot(dst)

	want := []byte{0x11, 0x22, 0x33, 0xFF, 0xAA, 0xBB, 0xCC, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: expected 0x%02X, got 0x%02X", i, want[i], dst[i])
		}
	}
}

func TestFrameBuffer_SnapshotShortBuffer(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	dst := make([]byte, 3)
	// Must not panic or write past dst.
	fb.Snapshot(dst)
}
