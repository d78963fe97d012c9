//go:build !tinygo && cgo

package hal

import (
	"context"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"splitkb/internal/buildinfo"
	"splitkb/internal/config"
)

// RunWindow runs the firmware behind a desktop window that shows the
// virtual keyboard, the indicators and the halt screen. Clicking a key
// toggles it; D toggles the remote half and P the reduced protocol.
// It blocks until the window closes or run returns.
func RunWindow(ctx context.Context, cfg config.Config, run RunFunc) error {
	h := newHost(cfg)
	defer h.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if h.board != nil && len(cfg.Virtual.Script) > 0 {
		go playScript(ctx, h.board, cfg.Virtual.Script)
	}

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	g := &hostGame{
		h:    h,
		ctx:  ctx,
		done: done,
		view: newHostFramebuffer(h.fb.width, h.fb.height),
	}
	ebiten.SetWindowTitle(buildinfo.Title())
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	cancel()
	if g.finished {
		return g.runErr
	}
	return <-done
}

type hostGame struct {
	h    *hostHAL
	ctx  context.Context
	done <-chan error

	finished bool
	runErr   error

	view    *hostFramebuffer
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.finished = true
		g.runErr = err
		return ebiten.Termination
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if b := g.h.board; b != nil {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			if col, row, ok := keyAt(ebiten.CursorPosition()); ok {
				b.ToggleKey(col, row)
			}
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyD) {
			b.SetConnected(!b.Connected())
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			b.SetReduced(!b.ReducedProtocol())
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if !fb.isPresented() {
		g.drawBoard()
		fb = g.view
	}

	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) drawBoard() {
	var keys [boardColumns]byte
	connected, reduced := false, false
	if b := g.h.board; b != nil {
		keys = b.Keys()
		connected = b.Connected()
		reduced = b.ReducedProtocol()
	}
	status := fmt.Sprintf("remote: %s  protocol: %s", onOff(connected, "up", "down"), onOff(reduced, "boot", "report"))
	renderBoard(g.view, keys, g.h.published(), g.h.ledState(), status)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}
