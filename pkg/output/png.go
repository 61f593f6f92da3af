package output

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// WritePNG encodes the quantized buffer as PNG
func WritePNG(w io.Writer, buf *renderer.Buffer) error {
	if err := png.Encode(w, buf.ToRGBA()); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WriteFile creates filename (and its directory) and writes buf to it
func WriteFile(filename string, buf *renderer.Buffer, format Format) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(file, buf, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
