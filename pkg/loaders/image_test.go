package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.png")

	// Create a simple 2x2 test image
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	imageData, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if imageData.Width != 2 || imageData.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
	}
	if imageData.Format != "png" {
		t.Errorf("Expected png format, got %q", imageData.Format)
	}

	checkColor := func(name string, got, expected core.Vec3) {
		const tolerance = 0.01
		if abs(got.X-expected.X) > tolerance ||
			abs(got.Y-expected.Y) > tolerance ||
			abs(got.Z-expected.Z) > tolerance {
			t.Errorf("%s: expected %v, got %v", name, expected, got)
		}
	}

	// Verify colors (row-major order)
	checkColor("Top-left (white)", imageData.Pixels[0], core.NewVec3(1.0, 1.0, 1.0))
	checkColor("Top-right (red)", imageData.Pixels[1], core.NewVec3(1.0, 0.0, 0.0))
	checkColor("Bottom-left (green)", imageData.Pixels[2], core.NewVec3(0.0, 1.0, 0.0))
	checkColor("Bottom-right (blue)", imageData.Pixels[3], core.NewVec3(0.0, 0.0, 1.0))

	expected := []byte{255, 255, 255, 255, 0, 0, 0, 255, 0, 0, 0, 255}
	if got := imageData.RGB8(); !bytes.Equal(got, expected) {
		t.Errorf("RGB8 = %v, expected %v", got, expected)
	}
}

func TestLoadImage_Missing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDecodeImage_PPM(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"ascii", "P3\n2 1 \n255\n134 182 255\n0 10 20\n"},
		{"ascii with comment", "P3\n# written by hand\n2 1\n255\n134 182 255 0 10 20"},
		{"binary", "P6\n2 1\n255\n" + string([]byte{134, 182, 255, 0, 10, 20})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := DecodeImage(strings.NewReader(tt.data))
			if err != nil {
				t.Fatalf("DecodeImage failed: %v", err)
			}
			if data.Format != "ppm" {
				t.Errorf("Expected ppm format, got %q", data.Format)
			}
			if data.Width != 2 || data.Height != 1 {
				t.Fatalf("Expected 2x1, got %dx%d", data.Width, data.Height)
			}
			expected := []byte{134, 182, 255, 0, 10, 20}
			if got := data.RGB8(); !bytes.Equal(got, expected) {
				t.Errorf("RGB8 = %v, expected %v", got, expected)
			}
		})
	}
}

func TestDecodePPM_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad width", "P3\nx 1\n255\n0 0 0"},
		{"truncated ascii", "P3\n2 1\n255\n1 2 3"},
		{"truncated binary", "P6\n2 1\n255\n\x01\x02"},
		{"sample above max", "P3\n1 1\n15\n16 0 0"},
		{"unsupported magic", "P5\n1 1\n255\n\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePPM(strings.NewReader(tt.data))
			if !errors.Is(err, ErrInvalidPPM) {
				t.Errorf("Expected ErrInvalidPPM, got %v", err)
			}
		})
	}
}

func TestDecodePPMConfig(t *testing.T) {
	cfg, err := DecodePPMConfig(strings.NewReader("P6 400 225 255\n"))
	if err != nil {
		t.Fatalf("DecodePPMConfig failed: %v", err)
	}
	if cfg.Width != 400 || cfg.Height != 225 {
		t.Errorf("Expected 400x225, got %dx%d", cfg.Width, cfg.Height)
	}
}
