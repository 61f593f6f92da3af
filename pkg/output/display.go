package output

import (
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

var captionColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Blit copies the quantized buffer onto a display, clipped to the display
// size, and presents it.
func Blit(d drivers.Displayer, buf *renderer.Buffer) error {
	dw, dh := d.Size()
	w := min(buf.Width, int(dw))
	h := min(buf.Height, int(dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d.SetPixel(int16(x), int16(y), renderer.QuantizeColor(buf.At(x, y)))
		}
	}
	return d.Display()
}

// Caption draws a single line of text along the bottom-left edge of the display
func Caption(d drivers.Displayer, text string) error {
	if text == "" {
		return nil
	}
	font := &tinyfont.TomThumb
	_, h := d.Size()
	baseline := h - 2
	if baseline < int16(font.GetYAdvance()) {
		return nil
	}
	tinyfont.WriteLine(d, font, 1, baseline, text, captionColor)
	return d.Display()
}

// CaptionWidth returns the pixel width Caption uses for text
func CaptionWidth(text string) int {
	_, outboxWidth := tinyfont.LineWidth(&tinyfont.TomThumb, text)
	return int(outboxWidth)
}

// Framebuffer is an in-memory display backed by an RGBA image
type Framebuffer struct {
	img      *image.RGBA
	frames   int
	onUpdate func(*image.RGBA)
}

// NewFramebuffer creates a black framebuffer of the given size
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// OnDisplay registers a callback invoked on every Display call
func (f *Framebuffer) OnDisplay(fn func(*image.RGBA)) {
	f.onUpdate = fn
}

// Size reports the framebuffer size, clamped to the int16 coordinates of
// drivers.Displayer. Pixels beyond math.MaxInt16 cannot be addressed.
func (f *Framebuffer) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(min(b.Dx(), math.MaxInt16)), int16(min(b.Dy(), math.MaxInt16))
}

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(f.img.Bounds()) {
		return
	}
	f.img.SetRGBA(int(x), int(y), c)
}

func (f *Framebuffer) Display() error {
	f.frames++
	if f.onUpdate != nil {
		f.onUpdate(f.img)
	}
	return nil
}

// Image returns the backing image
func (f *Framebuffer) Image() *image.RGBA {
	return f.img
}

// Frames returns how many times Display has been called
func (f *Framebuffer) Frames() int {
	return f.frames
}

var _ drivers.Displayer = (*Framebuffer)(nil)
