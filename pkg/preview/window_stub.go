//go:build !cgo || nopreview

package preview

import "github.com/df07/go-pinhole-raytracer/pkg/output"

func ShowFramebuffer(_ *output.Framebuffer, _ string, _ int) error {
	return ErrUnavailable
}
