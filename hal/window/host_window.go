//go:build !tinygo && cgo && !nowindow

package window

import (
	"context"
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"coop/hal"
)

// Run shows fb in a window while run executes and blocks until the window
// closes or ctx is done. Closing the window early cancels run's context. The
// window stays open after run returns so the final screen can be read.
func Run(ctx context.Context, fb hal.Framebuffer, title string, run func(context.Context) error) error {
	if fb == nil {
		return hal.ErrNotImplemented
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- run(runCtx) }()

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(fb.Width()*2, fb.Height()*2)
	ebiten.SetTPS(60)
	werr := ebiten.RunGame(newGame(ctx, fb))

	cancel()
	if err := <-errc; err != nil {
		return err
	}
	if werr != nil && !errors.Is(werr, ebiten.Termination) {
		return werr
	}
	return nil
}

type game struct {
	quit <-chan struct{}
	fb   hal.Framebuffer

	img   *image.RGBA
	fbImg *ebiten.Image
}

func newGame(ctx context.Context, fb hal.Framebuffer) *game {
	return &game{quit: ctx.Done(), fb: fb}
}

func (g *game) Update() error {
	select {
	case <-g.quit:
		return ebiten.Termination
	default:
		return nil
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	w, h := g.fb.Width(), g.fb.Height()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
	}

	hal.DrawRGBA(g.img, g.fb)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width(), g.fb.Height()
}
