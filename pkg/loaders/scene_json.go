package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// SceneFile is the on-disk JSON description of a sphere scene
type SceneFile struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Group        string       `json:"group,omitempty"`
	Camera       CameraFile   `json:"camera"`
	ExactFarRoot bool         `json:"exactFarRoot,omitempty"`
	Spheres      []SphereFile `json:"spheres"`
}

// CameraFile holds camera overrides; zero fields keep the renderer defaults
type CameraFile struct {
	Width          int     `json:"width,omitempty"`
	AspectRatio    float64 `json:"aspectRatio,omitempty"`
	ViewportHeight float64 `json:"viewportHeight,omitempty"`
	FocalLength    float64 `json:"focalLength,omitempty"`
}

// SphereFile is a single (center, radius) pair; Center holds x, y, z
type SphereFile struct {
	Center []float64 `json:"center"`
	Radius float64   `json:"radius"`
}

// LoadSceneFile reads and parses a JSON scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	sf, err := ParseSceneFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// ParseSceneFile decodes a JSON scene description.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var sf SceneFile
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("failed to parse scene JSON: %w", err)
	}
	for i, s := range sf.Spheres {
		if len(s.Center) != 3 {
			return nil, fmt.Errorf("sphere %d: center needs 3 components, got %d", i, len(s.Center))
		}
		if s.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, s.Radius)
		}
	}
	return &sf, nil
}
