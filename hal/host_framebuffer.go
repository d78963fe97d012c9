//go:build !tinygo

package hal

import (
	"image/color"
	"sync"
)

// hostFramebuffer is an RGB565 buffer. The window redraws it every frame
// until Present is called; from then on it shows the presented content.
type hostFramebuffer struct {
	mu        sync.Mutex
	width     int
	height    int
	stride    int
	buf       []byte
	presented bool
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	f.presented = true
	f.mu.Unlock()
	return nil
}

func (f *hostFramebuffer) isPresented() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presented
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.fillRect(0, 0, f.width, f.height, rgb565(r, g, b))
}

func (f *hostFramebuffer) fillRect(x, y, w, h int, pixel uint16) {
	f.mu.Lock()
	defer f.mu.Unlock()

	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, f.width), min(y+h, f.height)
	lo, hi := byte(pixel), byte(pixel>>8)
	for yy := y0; yy < y1; yy++ {
		off := yy*f.stride + x0*2
		for xx := x0; xx < x1; xx++ {
			f.buf[off] = lo
			f.buf[off+1] = hi
			off += 2
		}
	}
}

// Size, SetPixel and Display make the buffer a tinyfont target.
func (f *hostFramebuffer) Size() (x, y int16) {
	return int16(f.width), int16(f.height)
}

func (f *hostFramebuffer) SetPixel(x, y int16, c color.RGBA) {
	f.mu.Lock()
	putRGB565(f.buf, f.stride, f.width, f.height, int(x), int(y), c)
	f.mu.Unlock()
}

func (f *hostFramebuffer) Display() error { return nil }

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
