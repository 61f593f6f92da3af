package renderer

import (
	"image"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	HitPixels        int           // Pixels whose ray hit scene geometry
	AverageLuminance float64       // Mean luminance of the unquantized colors
	Duration         time.Duration // Wall time spent in the pixel loop
}

// BackgroundPixels returns the number of pixels shaded by the sky gradient
func (s RenderStats) BackgroundPixels() int {
	return s.TotalPixels - s.HitPixels
}

// HitRatio returns the fraction of pixels that hit geometry
func (s RenderStats) HitRatio() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.HitPixels) / float64(s.TotalPixels)
}

// AverageLuminance returns the mean luminance of the buffer
func (b *Buffer) AverageLuminance() float64 {
	if len(b.Pixels) == 0 {
		return 0
	}
	var sum float64
	for _, p := range b.Pixels {
		sum += p.Luminance()
	}
	return sum / float64(len(b.Pixels))
}

// CalculateAverageLuminance returns the mean luminance of an 8-bit image
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
			sum += c.Luminance()
		}
	}
	return sum / float64(count)
}
