//go:build cgo && !nopreview

package preview

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
)

// ShowFramebuffer opens a window presenting fb. It blocks until the window closes.
func ShowFramebuffer(fb *output.Framebuffer, title string, scale int) error {
	w, h := fb.Size()
	winW, winH := windowSize(int(w), int(h), scale)

	g := &previewGame{fb: fb}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(winW, winH)
	ebiten.SetTPS(30)
	return ebiten.RunGame(g)
}

type previewGame struct {
	fb    *output.Framebuffer
	fbImg *ebiten.Image
}

func (g *previewGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	img := g.fb.Image()
	if g.fbImg == nil {
		g.fbImg = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
	}
	g.fbImg.WritePixels(img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.fb.Size()
	return int(w), int(h)
}
