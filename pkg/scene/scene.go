package scene

import (
	"fmt"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/geometry"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	CameraConfig renderer.CameraConfig
	Shapes       []geometry.Shape // Objects in the scene, in insertion order
}

// newScene applies camera overrides on top of the scene's own defaults
func newScene(name string, defaults renderer.CameraConfig, cameraOverrides ...renderer.CameraConfig) *Scene {
	cameraConfig := defaults
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(defaults, cameraOverrides[0])
	}
	return &Scene{
		Name:         name,
		CameraConfig: cameraConfig,
		Shapes:       make([]geometry.Shape, 0),
	}
}

// GetCameraConfig returns the camera configuration for the scene
func (s *Scene) GetCameraConfig() renderer.CameraConfig {
	return s.CameraConfig
}

// GetShapes returns the shapes in insertion order
func (s *Scene) GetShapes() []geometry.Shape {
	return s.Shapes
}

// AddSphere appends a sphere and returns it
func (s *Scene) AddSphere(center core.Vec3, radius float64) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius)
	s.Shapes = append(s.Shapes, sphere)
	return sphere
}

// SetExactFarRoot switches every sphere in the scene between the legacy and
// exact far-root formulas
func (s *Scene) SetExactFarRoot(exact bool) {
	for _, shape := range s.Shapes {
		if sphere, ok := shape.(*geometry.Sphere); ok {
			sphere.ExactFarRoot = exact
		}
	}
}

// Validate checks the camera and every sphere
func (s *Scene) Validate() error {
	if err := s.CameraConfig.Validate(); err != nil {
		return err
	}
	for i, shape := range s.Shapes {
		if sphere, ok := shape.(*geometry.Sphere); ok {
			if err := sphere.Validate(); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
		}
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}
