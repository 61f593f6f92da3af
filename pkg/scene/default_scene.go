package scene

import (
	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// NewDefaultScene creates a small sphere resting on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newScene("Default Scene", renderer.DefaultCameraConfig(), cameraOverrides...)

	s.AddSphere(core.NewVec3(0, 0, -1), 0.5)
	s.AddSphere(core.NewVec3(0, -100.5, -1), 100) // ground

	return s
}

// NewSingleSphereScene creates one unit-diameter sphere in front of a square camera
func NewSingleSphereScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaults := renderer.DefaultCameraConfig()
	defaults.Width = 256
	defaults.AspectRatio = 1.0

	s := newScene("Single Sphere", defaults, cameraOverrides...)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5)

	return s
}

// NewGoldenScene is the 2x2 single-sphere setup used for regression images.
// Every pixel lands on the sky gradient.
func NewGoldenScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	defaults := renderer.DefaultCameraConfig()
	defaults.Width = 2
	defaults.AspectRatio = 1.0

	s := newScene("Golden", defaults, cameraOverrides...)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5)

	return s
}
