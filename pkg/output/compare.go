package output

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// Layout of comparison sheets
const (
	compareGap         = 4
	compareLabelHeight = 18
)

// Compare places two renders side by side on a dark sheet, each with a
// centered label above it.
func Compare(left, right *renderer.Buffer, leftLabel, rightLabel string) image.Image {
	width := left.Width + compareGap + right.Width
	height := max(left.Height, right.Height) + compareLabelHeight

	dc := gg.NewContext(width, height)
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.Clear()

	dc.DrawImage(left.ToRGBA(), 0, compareLabelHeight)
	dc.DrawImage(right.ToRGBA(), left.Width+compareGap, compareLabelHeight)

	dc.SetRGB(1, 1, 1)
	labelY := float64(compareLabelHeight) / 2
	dc.DrawStringAnchored(leftLabel, float64(left.Width)/2, labelY, 0.5, 0.5)
	dc.DrawStringAnchored(rightLabel, float64(left.Width+compareGap)+float64(right.Width)/2, labelY, 0.5, 0.5)

	return dc.Image()
}

// WriteComparePNG encodes a comparison sheet as PNG
func WriteComparePNG(w io.Writer, left, right *renderer.Buffer, leftLabel, rightLabel string) error {
	dc := gg.NewContextForImage(Compare(left, right, leftLabel, rightLabel))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode comparison PNG: %w", err)
	}
	return nil
}
