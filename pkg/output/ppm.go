package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
)

// WriteP3 writes an ASCII portable pixmap: a "P3" header followed by one
// "r g b" line per pixel, top row first.
func WriteP3(w io.Writer, buf *renderer.Buffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", buf.Width, buf.Height); err != nil {
		return err
	}

	rgb := buf.RGB8()
	line := make([]byte, 0, 12)
	for i := 0; i < len(rgb); i += 3 {
		line = line[:0]
		line = strconv.AppendUint(line, uint64(rgb[i]), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(rgb[i+1]), 10)
		line = append(line, ' ')
		line = strconv.AppendUint(line, uint64(rgb[i+2]), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteP6 writes a binary portable pixmap
func WriteP6(w io.Writer, buf *renderer.Buffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", buf.Width, buf.Height); err != nil {
		return err
	}
	if _, err := bw.Write(buf.RGB8()); err != nil {
		return err
	}
	return bw.Flush()
}
