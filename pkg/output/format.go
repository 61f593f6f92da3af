package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// ErrUnknownFormat is returned for output formats other than png, p3 and p6
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects the image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatP3  Format = "p3" // ASCII portable pixmap
	FormatP6  Format = "p6" // binary portable pixmap
)

// ParseFormat accepts a format name, case-insensitively. "ppm" is an alias for p3.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "p3", "ppm":
		return FormatP3, nil
	case "p6":
		return FormatP6, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension returns the conventional file extension, including the dot
func (f Format) Extension() string {
	if f == FormatPNG {
		return ".png"
	}
	return ".ppm"
}

// ContentType returns the MIME type used when serving the image
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}

// Write encodes buf to w in the requested format
func Write(w io.Writer, buf *renderer.Buffer, format Format) error {
	switch format {
	case FormatPNG:
		return WritePNG(w, buf)
	case FormatP3:
		return WriteP3(w, buf)
	case FormatP6:
		return WriteP6(w, buf)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}
