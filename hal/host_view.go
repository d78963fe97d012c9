//go:build !tinygo

package hal

import (
	"image/color"

	"tinygo.org/x/tinyfont"

	"splitkb/internal/buildinfo"
)

// Board view geometry, in framebuffer pixels.
const (
	viewCell    = 18
	viewGap     = 2
	viewSplit   = 12
	viewLeft    = 20
	viewTop     = 40
	viewLEDSize = 12
)

var (
	viewBackground = rgb565(16, 16, 24)
	viewOpen       = rgb565(60, 60, 72)
	viewClosed     = rgb565(220, 220, 220)
	viewSeen       = rgb565(40, 180, 90)
	viewLEDOff     = rgb565(50, 20, 20)
	viewLEDOn      = rgb565(255, 60, 40)

	viewText = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	viewDim  = color.RGBA{R: 140, G: 140, B: 150, A: 255}
)

func cellOrigin(col, row int) (x, y int) {
	x = viewLeft + col*(viewCell+viewGap)
	if col >= remoteColumns {
		x += viewSplit
	}
	return x, viewTop + row*(viewCell+viewGap)
}

// keyAt maps a framebuffer position to the key drawn there.
func keyAt(x, y int) (col, row int, ok bool) {
	for c := 0; c < boardColumns; c++ {
		for r := 0; r < boardRows; r++ {
			cx, cy := cellOrigin(c, r)
			if x >= cx && x < cx+viewCell && y >= cy && y < cy+viewCell {
				return c, r, true
			}
		}
	}
	return 0, 0, false
}

// renderBoard draws the switch state (keys) and the merged snapshot (seen)
// side by side in each cell, plus the indicators and a status line.
func renderBoard(fb *hostFramebuffer, keys, seen [boardColumns]byte, leds byte, status string) {
	fb.fillRect(0, 0, fb.width, fb.height, viewBackground)
	tinyfont.WriteLine(fb, &tinyfont.TomThumb, viewLeft, 12, buildinfo.Name+" "+buildinfo.Short(), viewText)
	tinyfont.WriteLine(fb, &tinyfont.TomThumb, viewLeft, 24, status, viewDim)

	for c := 0; c < boardColumns; c++ {
		for r := 0; r < boardRows; r++ {
			x, y := cellOrigin(c, r)
			bit := byte(1) << uint(r)
			px := viewOpen
			if keys[c]&bit != 0 {
				px = viewClosed
			}
			fb.fillRect(x, y, viewCell, viewCell, px)
			if seen[c]&bit != 0 {
				fb.fillRect(x+4, y+4, viewCell-8, viewCell-8, viewSeen)
			}
		}
	}

	_, bottom := cellOrigin(0, boardRows)
	y := bottom + 8
	for i := 0; i < hostLEDs; i++ {
		x := viewLeft + i*(viewLEDSize+24)
		px := viewLEDOff
		if leds&(1<<uint(i)) != 0 {
			px = viewLEDOn
		}
		fb.fillRect(x, y, viewLEDSize, viewLEDSize, px)
		tinyfont.WriteLine(fb, &tinyfont.TomThumb, int16(x+viewLEDSize+4), int16(y+viewLEDSize-2), string(rune('a'+i)), viewText)
	}
	tinyfont.WriteLine(fb, &tinyfont.TomThumb, viewLeft, int16(y+viewLEDSize+16),
		"click: toggle key  D: remote  P: protocol", viewDim)
}
