package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// Buffer is a row-major grid of linear RGB colors, row 0 at the top of the image
type Buffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewBuffer allocates a black buffer
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// Set stores the color of pixel (x, y)
func (b *Buffer) Set(x, y int, c core.Vec3) {
	b.Pixels[y*b.Width+x] = c
}

// At returns the color of pixel (x, y)
func (b *Buffer) At(x, y int) core.Vec3 {
	return b.Pixels[y*b.Width+x]
}

// QuantizeChannel maps [0,1] to [0,255] as floor(255.999 * c).
// Values outside [0,1] are clamped first; NaN maps to 0.
func QuantizeChannel(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	c = max(0.0, min(1.0, c))
	return uint8(255.999 * c)
}

// QuantizeColor converts a color to an opaque 8-bit RGBA value
func QuantizeColor(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: QuantizeChannel(c.X),
		G: QuantizeChannel(c.Y),
		B: QuantizeChannel(c.Z),
		A: 255,
	}
}

// RGB8 returns the quantized pixels as packed R, G, B bytes in row-major order
func (b *Buffer) RGB8() []byte {
	out := make([]byte, 0, len(b.Pixels)*3)
	for _, p := range b.Pixels {
		out = append(out, QuantizeChannel(p.X), QuantizeChannel(p.Y), QuantizeChannel(p.Z))
	}
	return out
}

// ToRGBA converts the buffer to an image
func (b *Buffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.SetRGBA(x, y, QuantizeColor(b.At(x, y)))
		}
	}
	return img
}
