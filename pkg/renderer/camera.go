package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

// ErrInvalidCamera is returned for camera configurations that cannot produce an image
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains the recognised pinhole camera options.
// Everything else (image height, viewport width, ray basis) is derived.
type CameraConfig struct {
	Width          int     // Image width in pixels
	AspectRatio    float64 // Width / height
	ViewportHeight float64 // World-space height of the image plane
	FocalLength    float64 // Distance from the origin to the image plane
}

// DefaultCameraConfig returns sensible default values
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:          400,
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.ViewportHeight != 0 {
		result.ViewportHeight = override.ViewportHeight
	}
	if override.FocalLength != 0 {
		result.FocalLength = override.FocalLength
	}
	return result
}

// ImageHeight derives the image height from width and aspect ratio
func (c CameraConfig) ImageHeight() int {
	return int(math.Round(float64(c.Width) / c.AspectRatio))
}

// Validate checks that the configuration yields at least a 2x2 image
// with a finite, non-degenerate viewport.
func (c CameraConfig) Validate() error {
	if c.AspectRatio <= 0 || math.IsInf(c.AspectRatio, 0) || math.IsNaN(c.AspectRatio) {
		return fmt.Errorf("%w: aspect ratio must be positive, got %g", ErrInvalidCamera, c.AspectRatio)
	}
	if c.ViewportHeight <= 0 || math.IsNaN(c.ViewportHeight) {
		return fmt.Errorf("%w: viewport height must be positive, got %g", ErrInvalidCamera, c.ViewportHeight)
	}
	if c.FocalLength <= 0 || math.IsNaN(c.FocalLength) {
		return fmt.Errorf("%w: focal length must be positive, got %g", ErrInvalidCamera, c.FocalLength)
	}
	if c.Width < 2 {
		return fmt.Errorf("%w: width must be at least 2, got %d", ErrInvalidCamera, c.Width)
	}
	if h := c.ImageHeight(); h < 2 {
		return fmt.Errorf("%w: derived height must be at least 2, got %d", ErrInvalidCamera, h)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	config          CameraConfig
	width, height   int
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a pinhole camera at the world origin looking down -Z
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := core.NewVec3(0, 0, 0)
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		config:          config,
		width:           config.Width,
		height:          config.ImageHeight(),
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}, nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the derived image height in pixels
func (c *Camera) Height() int { return c.height }

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig { return c.config }

// GetRay generates a ray through image-plane coordinates (u, v)
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// PixelRay returns the ray for image pixel (x, y), with row 0 at the top of the frame.
// v is (height - y) / (height - 1), so the top row sits one pixel step above the viewport.
func (c *Camera) PixelRay(x, y int) core.Ray {
	u := float64(x) / float64(c.width-1)
	v := float64(c.height-y) / float64(c.height-1)
	return c.GetRay(u, v)
}
