package hal

import "image/color"

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// putRGB565 stores c little-endian at (x, y) of an RGB565 buffer and
// reports whether the pixel was inside it.
func putRGB565(buf []byte, stride, width, height, x, y int, c color.RGBA) bool {
	if x < 0 || x >= width || y < 0 || y >= height {
		return false
	}
	off := y*stride + x*2
	if off < 0 || off+1 >= len(buf) {
		return false
	}
	pixel := rgb565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
	return true
}

// FramebufferDisplay adapts an RGB565 Framebuffer to the drivers.Displayer
// shape tinyfont draws into. Display is a no-op; call Present on the
// framebuffer to show the result.
type FramebufferDisplay struct {
	FB Framebuffer
}

func (d FramebufferDisplay) Size() (x, y int16) {
	return int16(d.FB.Width()), int16(d.FB.Height())
}

func (d FramebufferDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.FB.Format() != PixelFormatRGB565 {
		return
	}
	putRGB565(d.FB.Buffer(), d.FB.StrideBytes(), d.FB.Width(), d.FB.Height(), int(x), int(y), c)
}

func (d FramebufferDisplay) Display() error { return nil }
