package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
)

// Nearest-hit search window: no near offset and no far clip
const (
	hitTMin = 0.0
	hitTMax = math.MaxFloat64
)

var (
	white   = core.NewVec3(1, 1, 1)
	skyBlue = core.NewVec3(0.5, 0.7, 1.0)
)

// Scene interface to avoid circular imports
type Scene interface {
	GetCameraConfig() CameraConfig
	GetShapes() []geometry.Shape
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene  Scene
	camera *Camera
	logger core.Logger
}

// NewRaytracer creates a new raytracer for the scene's camera
func NewRaytracer(scene Scene, logger core.Logger) (*Raytracer, error) {
	camera, err := NewCamera(scene.GetCameraConfig())
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Raytracer{
		scene:  scene,
		camera: camera,
		logger: logger,
	}, nil
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// hitWorld finds the nearest hit across all shapes. Each shape is tested
// against the full window; a later shape replaces the current best only when
// strictly closer, so the first shape wins exact ties.
// The returned index is the position of the winning shape, or -1 on a miss.
func (rt *Raytracer) hitWorld(ray core.Ray, tMin, tMax float64) (geometry.HitRecord, int) {
	var closest geometry.HitRecord
	closestIndex := -1

	for i, shape := range rt.scene.GetShapes() {
		var scratch geometry.HitRecord
		if !shape.Hit(ray, tMin, tMax, &scratch) {
			continue
		}
		if closestIndex < 0 || scratch.T < closest.T {
			closest = scratch
			closestIndex = i
		}
	}

	return closest, closestIndex
}

// RayColor returns the color seen along a ray: the surface normal mapped to
// RGB for the nearest hit, otherwise the sky gradient.
func (rt *Raytracer) RayColor(ray core.Ray) (core.Vec3, error) {
	color, _, err := rt.trace(ray)
	return color, err
}

// trace is RayColor that also reports whether geometry was hit
func (rt *Raytracer) trace(ray core.Ray) (core.Vec3, bool, error) {
	if err := ray.Validate(); err != nil {
		return core.Vec3{}, false, err
	}

	if hit, index := rt.hitWorld(ray, hitTMin, hitTMax); index >= 0 {
		if !hit.Normal.IsFinite() {
			return core.Vec3{}, true, fmt.Errorf("shape %d at t=%g: %w", index, hit.T, geometry.ErrDegenerateGeometry)
		}
		return shadeNormal(hit.Normal), true, nil
	}
	color, err := backgroundGradient(ray)
	return color, false, err
}

// shadeNormal maps each normal component from [-1,1] to [0,1]
func shadeNormal(normal core.Vec3) core.Vec3 {
	return normal.Add(white).Multiply(0.5)
}

// backgroundGradient returns a gradient color based on ray direction
func backgroundGradient(ray core.Ray) (core.Vec3, error) {
	unitDirection, err := ray.Direction.Unit()
	if err != nil {
		return core.Vec3{}, fmt.Errorf("background gradient: %w", err)
	}

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*white + t*blue
	return white.Multiply(1.0 - t).Add(skyBlue.Multiply(t)), nil
}

// PixelInspection describes what the primary ray through a pixel sees
type PixelInspection struct {
	X, Y       int
	Ray        core.Ray
	Hit        bool
	ShapeIndex int // -1 when the ray reaches the background
	Record     geometry.HitRecord
	Color      core.Vec3
}

// InspectPixel traces the ray for pixel (x, y) and reports the nearest hit
func (rt *Raytracer) InspectPixel(x, y int) (PixelInspection, error) {
	if x < 0 || y < 0 || x >= rt.camera.Width() || y >= rt.camera.Height() {
		return PixelInspection{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image",
			x, y, rt.camera.Width(), rt.camera.Height())
	}

	ray := rt.camera.PixelRay(x, y)
	color, err := rt.RayColor(ray)
	if err != nil {
		return PixelInspection{}, err
	}

	rec, index := rt.hitWorld(ray, hitTMin, hitTMax)
	return PixelInspection{
		X:          x,
		Y:          y,
		Ray:        ray,
		Hit:        index >= 0,
		ShapeIndex: index,
		Record:     rec,
		Color:      color,
	}, nil
}

// Render traces one ray per pixel, top row first, and returns the color buffer
func (rt *Raytracer) Render() (*Buffer, RenderStats, error) {
	width, height := rt.camera.Width(), rt.camera.Height()
	buffer := NewBuffer(width, height)
	stats := RenderStats{TotalPixels: width * height}
	startTime := time.Now()

	for y := 0; y < height; y++ {
		rt.logger.Printf("Scanlines remaining: %d\n", height-y)

		for x := 0; x < width; x++ {
			color, isHit, err := rt.trace(rt.camera.PixelRay(x, y))
			if err != nil {
				return nil, stats, fmt.Errorf("pixel (%d, %d): %w", x, y, err)
			}
			if isHit {
				stats.HitPixels++
			}
			buffer.Set(x, y, color)
		}
	}

	stats.Duration = time.Since(startTime)
	stats.AverageLuminance = buffer.AverageLuminance()
	rt.logger.Printf("Done. %dx%d in %v (%d of %d pixels hit geometry)\n",
		width, height, stats.Duration, stats.HitPixels, stats.TotalPixels)

	return buffer, stats, nil
}
