package renderer

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
)

const tolerance = 1e-9

// MockShape implements geometry.Shape for testing
type MockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool
}

func (m MockShape) Hit(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool {
	return m.hitFn(ray, tMin, tMax, rec)
}

// fixedHit returns a shape that always reports a hit at t with the given normal
func fixedHit(t float64, normal core.Vec3) MockShape {
	return MockShape{hitFn: func(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool {
		rec.T = t
		rec.Point = ray.At(t)
		rec.Normal = normal
		rec.FrontFace = true
		return true
	}}
}

// MockScene implements Scene for testing
type MockScene struct {
	config CameraConfig
	shapes []geometry.Shape
}

func (m MockScene) GetCameraConfig() CameraConfig { return m.config }
func (m MockScene) GetShapes() []geometry.Shape { return m.shapes }

func newTestRaytracer(t *testing.T, config CameraConfig, shapes ...geometry.Shape) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(MockScene{config: config, shapes: shapes}, NopLogger{})
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}
	return rt
}

func colorNear(a, b core.Vec3) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestRaytracer_BackgroundGradient(t *testing.T) {
	rt := newTestRaytracer(t, DefaultCameraConfig())

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up is sky blue", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down is white", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"unnormalized up", core.NewVec3(0, 7, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"horizontal is halfway", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, err := rt.RayColor(core.NewRay(core.Vec3{}, tt.direction))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !colorNear(color, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestRaytracer_BackgroundIgnoresHorizontalAngle(t *testing.T) {
	rt := newTestRaytracer(t, DefaultCameraConfig())

	a, _ := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0.3, -1)))
	b, _ := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(1, 0.3, 0)))
	if !colorNear(a, b) {
		t.Errorf("Gradient should only depend on the vertical component: %v vs %v", a, b)
	}
}

func TestRaytracer_NormalShading(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5)
	rt := newTestRaytracer(t, DefaultCameraConfig(), sphere)

	// Straight at the sphere: normal (0,0,1) maps to (0.5,0.5,1)
	color, err := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := core.NewVec3(0.5, 0.5, 1.0)
	if !colorNear(color, expected) {
		t.Errorf("Expected %v, got %v", expected, color)
	}
}

func TestRaytracer_HitWorldNearest(t *testing.T) {
	// Along -Z from the origin: far sphere is hit at t=2, near sphere at t=1.5
	far := geometry.NewSphere(core.NewVec3(0, 0, -3), 1)
	near := geometry.NewSphere(core.NewVec3(0, 0, -2.5), 1)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	tests := []struct {
		name          string
		shapes        []geometry.Shape
		expectedIndex int
	}{
		{"far first", []geometry.Shape{far, near}, 1},
		{"near first", []geometry.Shape{near, far}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newTestRaytracer(t, DefaultCameraConfig(), tt.shapes...)
			hit, index := rt.hitWorld(ray, hitTMin, hitTMax)
			if index != tt.expectedIndex {
				t.Fatalf("Expected shape %d to win, got %d", tt.expectedIndex, index)
			}
			if math.Abs(hit.T-1.5) > tolerance {
				t.Errorf("Expected nearest t=1.5, got %f", hit.T)
			}
		})
	}
}

func TestRaytracer_HitWorldTieFirstWins(t *testing.T) {
	first := fixedHit(2, core.NewVec3(1, 0, 0))
	second := fixedHit(2, core.NewVec3(0, 1, 0))
	rt := newTestRaytracer(t, DefaultCameraConfig(), first, second)

	hit, index := rt.hitWorld(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), hitTMin, hitTMax)
	if index != 0 {
		t.Fatalf("Expected the first shape to win, got %d", index)
	}
	if hit.Normal != core.NewVec3(1, 0, 0) {
		t.Errorf("Exact tie should keep the first shape, got normal %v", hit.Normal)
	}
}

func TestRaytracer_HitWorldUsesFullWindow(t *testing.T) {
	var windows [][2]float64
	recorder := MockShape{hitFn: func(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool {
		windows = append(windows, [2]float64{tMin, tMax})
		rec.T = 1
		return true
	}}
	rt := newTestRaytracer(t, DefaultCameraConfig(), recorder, recorder)

	if _, err := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("Expected 2 Hit calls, got %d", len(windows))
	}
	for i, w := range windows {
		if w[0] != 0 || w[1] != math.MaxFloat64 {
			t.Errorf("Call %d used window [%g, %g], expected [0, MaxFloat64]", i, w[0], w[1])
		}
	}
}

func TestRaytracer_MissedShapeDoesNotLeak(t *testing.T) {
	// A shape that scribbles on the record but reports a miss must not affect the result
	scribbler := MockShape{hitFn: func(ray core.Ray, tMin, tMax float64, rec *geometry.HitRecord) bool {
		rec.T = 0.1
		rec.Normal = core.NewVec3(-1, -1, -1)
		return false
	}}
	rt := newTestRaytracer(t, DefaultCameraConfig(), scribbler, fixedHit(5, core.NewVec3(0, 0, 1)))

	color, err := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !colorNear(color, core.NewVec3(0.5, 0.5, 1)) {
		t.Errorf("Expected shading of the real hit, got %v", color)
	}
}

func TestRaytracer_DegenerateRay(t *testing.T) {
	rt := newTestRaytracer(t, DefaultCameraConfig(), geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))

	_, err := rt.RayColor(core.NewRay(core.Vec3{}, core.Vec3{}))
	if !errors.Is(err, core.ErrDegenerateRay) {
		t.Errorf("Expected ErrDegenerateRay, got %v", err)
	}
}

func TestRaytracer_DegenerateGeometry(t *testing.T) {
	// A zero-radius sphere on the optical axis: pixel (1, 2) of a 3x3 image looks straight at it
	point := &geometry.Sphere{Center: core.NewVec3(0, 0, -2), Radius: 0}
	rt := newTestRaytracer(t, goldenConfig(3), point)

	color, err := rt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	if !errors.Is(err, geometry.ErrDegenerateGeometry) {
		t.Errorf("Expected ErrDegenerateGeometry, got color %v err %v", color, err)
	}

	if _, _, err := rt.Render(); !errors.Is(err, geometry.ErrDegenerateGeometry) {
		t.Errorf("Render should fail on degenerate geometry, got %v", err)
	}
}

func TestRaytracer_InvalidCamera(t *testing.T) {
	_, err := NewRaytracer(MockScene{config: CameraConfig{Width: 1, AspectRatio: 1}}, nil)
	if !errors.Is(err, ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera, got %v", err)
	}
}

func goldenConfig(width int) CameraConfig {
	return CameraConfig{Width: width, AspectRatio: 1.0, ViewportHeight: 2.0, FocalLength: 1.0}
}

func TestRaytracer_RenderGolden2x2(t *testing.T) {
	rt := newTestRaytracer(t, goldenConfig(2), geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))

	buffer, stats, err := rt.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buffer.Width != 2 || buffer.Height != 2 {
		t.Fatalf("Expected 2x2 buffer, got %dx%d", buffer.Width, buffer.Height)
	}

	// Top row looks through v=2, bottom row through v=1; neither reaches the sphere
	expectedFloat := []core.Vec3{
		core.NewVec3(0.5238664915666773, 0.7143198949400064, 1.0),
		core.NewVec3(0.5238664915666773, 0.7143198949400064, 1.0),
		core.NewVec3(0.6056624327025936, 0.7633974596215561, 1.0),
		core.NewVec3(0.6056624327025936, 0.7633974596215561, 1.0),
	}
	for i, expected := range expectedFloat {
		if !colorNear(buffer.Pixels[i], expected) {
			t.Errorf("Pixel %d: expected %v, got %v", i, expected, buffer.Pixels[i])
		}
	}

	expectedBytes := []byte{
		134, 182, 255, 134, 182, 255,
		155, 195, 255, 155, 195, 255,
	}
	if got := buffer.RGB8(); !bytes.Equal(got, expectedBytes) {
		t.Errorf("Golden mismatch:\n got %v\nwant %v", got, expectedBytes)
	}

	if stats.TotalPixels != 4 || stats.HitPixels != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestRaytracer_RenderGolden5x5(t *testing.T) {
	rt := newTestRaytracer(t, goldenConfig(5), geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))

	buffer, stats, err := rt.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := []byte{
		145, 189, 255, 140, 186, 255, 138, 185, 255, 140, 186, 255, 145, 189, 255,
		155, 195, 255, 149, 191, 255, 146, 190, 255, 149, 191, 255, 155, 195, 255,
		170, 204, 255, 165, 201, 255, 127, 204, 230, 165, 201, 255, 170, 204, 255,
		191, 217, 255, 51, 127, 230, 127, 127, 255, 204, 127, 230, 191, 217, 255,
		213, 230, 255, 218, 233, 255, 127, 51, 230, 218, 233, 255, 213, 230, 255,
	}
	if got := buffer.RGB8(); !bytes.Equal(got, expected) {
		t.Errorf("Golden mismatch:\n got %v\nwant %v", got, expected)
	}

	if stats.HitPixels != 5 || stats.BackgroundPixels() != 20 {
		t.Errorf("Expected 5 hit and 20 background pixels, got %+v", stats)
	}

	// Pixel (2,3) looks straight down -Z at the sphere's front pole
	if c := buffer.At(2, 3); !colorNear(c, core.NewVec3(0.5, 0.5, 1.0)) {
		t.Errorf("Center pixel: expected (0.5, 0.5, 1), got %v", c)
	}
}

func TestRaytracer_RenderLogsProgress(t *testing.T) {
	var out bytes.Buffer
	rt, err := NewRaytracer(MockScene{config: goldenConfig(3)}, NewWriterLogger(&out))
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}
	if _, _, err := rt.Render(); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	log := out.String()
	for _, line := range []string{"Scanlines remaining: 3", "Scanlines remaining: 1", "Done."} {
		if !strings.Contains(log, line) {
			t.Errorf("Expected log to contain %q, got:\n%s", line, log)
		}
	}
}

func TestRaytracer_InspectPixel(t *testing.T) {
	rt := newTestRaytracer(t, goldenConfig(5), geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))

	// Pixel (2,3) of the 5x5 image looks straight down -Z at the front pole
	center, err := rt.InspectPixel(2, 3)
	if err != nil {
		t.Fatalf("InspectPixel error: %v", err)
	}
	if !center.Hit || center.ShapeIndex != 0 {
		t.Fatalf("Expected a hit on shape 0, got %+v", center)
	}
	if !center.Record.FrontFace {
		t.Error("Primary ray should hit the front face")
	}
	if QuantizeColor(center.Color) != QuantizeColor(shadeNormal(center.Record.Normal)) {
		t.Errorf("Color %v does not match the normal shading", center.Color)
	}

	corner, err := rt.InspectPixel(0, 0)
	if err != nil {
		t.Fatalf("InspectPixel error: %v", err)
	}
	if corner.Hit || corner.ShapeIndex != -1 {
		t.Errorf("Corner pixel should see the sky, got %+v", corner)
	}

	if _, err := rt.InspectPixel(5, 0); err == nil {
		t.Error("Expected error for a pixel outside the image")
	}
}
