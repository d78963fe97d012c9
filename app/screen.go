package app

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"

	"splitkb/hal"
)

// Halt screen text metrics for tinyfont.TomThumb.
const (
	haltFontWidth  = 4
	haltFontHeight = 8
	haltFontOffset = 6
	haltMargin     = 4
)

// paintHalt draws msg on the display once, if there is one.
func (f *Firmware) paintHalt(msg string) {
	disp := f.h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return
	}
	paintMessage(fb, []string{"splitkb halted", "", msg})
}

func paintMessage(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(160, 0, 0)

	d := hal.FramebufferDisplay{FB: fb}
	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	cols := int16((fb.Width() - 2*haltMargin) / haltFontWidth)
	if cols <= 0 {
		cols = 1
	}
	maxH := int16(fb.Height() - haltMargin)

	y := int16(haltMargin)
	for _, line := range lines {
		if line == "" {
			y += haltFontHeight
			continue
		}
		for len(line) > 0 {
			if y+haltFontHeight > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, haltMargin, y, chunk, fg)
			y += haltFontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func drawTextLine(d hal.FramebufferDisplay, x0, y0 int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, &tinyfont.TomThumb, x, y0+haltFontOffset, r, fg)
		x += haltFontWidth
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
