// Package preview shows a rendered image in a desktop window.
package preview

import (
	"errors"

	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// ErrUnavailable is returned when the binary was built without window support
var ErrUnavailable = errors.New("preview window unavailable (build with CGO_ENABLED=1 and without the nopreview tag)")

// Largest window edge chosen by automatic scaling
const maxAutoWindowEdge = 1024

// Show blits buf into a framebuffer, captions it and displays it until the
// window is closed or Esc is pressed. A scale below 1 picks the largest
// integer scale that keeps the window within maxAutoWindowEdge.
func Show(buf *renderer.Buffer, caption, title string, scale int) error {
	fb, err := captionedFramebuffer(buf, caption)
	if err != nil {
		return err
	}
	return ShowFramebuffer(fb, title, scale)
}

// captionedFramebuffer copies buf into a framebuffer and draws caption along
// the bottom edge when it fits the image width
func captionedFramebuffer(buf *renderer.Buffer, caption string) (*output.Framebuffer, error) {
	fb := output.NewFramebuffer(buf.Width, buf.Height)
	if err := output.Blit(fb, buf); err != nil {
		return nil, err
	}
	if caption != "" && output.CaptionWidth(caption) < buf.Width {
		if err := output.Caption(fb, caption); err != nil {
			return nil, err
		}
	}
	return fb, nil
}

// windowSize returns the window dimensions for an image and scale
func windowSize(width, height, scale int) (int, int) {
	if scale < 1 {
		scale = 1
		for edge := max(width, height); edge > 0 && edge*(scale+1) <= maxAutoWindowEdge; {
			scale++
		}
	}
	return width * scale, height * scale
}
