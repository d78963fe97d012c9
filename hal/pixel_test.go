//go:build !tinygo

package hal

import (
	"bytes"
	"image/color"
	"testing"
)

func TestFramebufferDisplaySetPixel(t *testing.T) {
	fb := newHostFramebuffer(3, 2)
	d := FramebufferDisplay{FB: fb}
	if w, h := d.Size(); w != 3 || h != 2 {
		t.Fatalf("Size = %d,%d", w, h)
	}

	red := color.RGBA{R: 255, A: 255}
	d.SetPixel(2, 1, red)
	d.SetPixel(3, 0, red)
	d.SetPixel(-1, 0, red)

	want := make([]byte, 12)
	want[fb.StrideBytes()+4] = 0x00
	want[fb.StrideBytes()+5] = 0xF8
	if !bytes.Equal(fb.Buffer(), want) {
		t.Fatalf("buffer = %x, want %x", fb.Buffer(), want)
	}
}

func TestHostFramebufferSetPixelMatchesDisplay(t *testing.T) {
	a := newHostFramebuffer(2, 2)
	b := newHostFramebuffer(2, 2)
	c := color.RGBA{R: 40, G: 180, B: 90, A: 255}

	a.SetPixel(1, 1, c)
	FramebufferDisplay{FB: b}.SetPixel(1, 1, c)
	if !bytes.Equal(a.Buffer(), b.Buffer()) {
		t.Fatalf("host %x, display %x", a.Buffer(), b.Buffer())
	}
	if p := uint16(a.Buffer()[6]) | uint16(a.Buffer()[7])<<8; p != rgb565(40, 180, 90) {
		t.Fatalf("pixel = %04x", p)
	}
}
