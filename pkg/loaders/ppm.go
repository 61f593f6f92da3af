package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// ErrInvalidPPM is returned for malformed portable pixmap data
var ErrInvalidPPM = errors.New("invalid PPM data")

func init() {
	image.RegisterFormat("ppm", "P3", DecodePPM, DecodePPMConfig)
	image.RegisterFormat("ppm", "P6", DecodePPM, DecodePPMConfig)
}

type ppmHeader struct {
	magic         string
	width, height int
	maxVal        int
}

// DecodePPMConfig reads only the PPM header
func DecodePPMConfig(r io.Reader) (image.Config, error) {
	h, err := readPPMHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}

// DecodePPM decodes an ASCII (P3) or binary (P6) portable pixmap
func DecodePPM(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readPPMHeader(br)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	count := h.width * h.height * 3
	samples := make([]int, count)

	switch h.magic {
	case "P3":
		for i := range samples {
			tok, err := readToken(br)
			if err != nil {
				return nil, fmt.Errorf("%w: sample %d: %v", ErrInvalidPPM, i, err)
			}
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: sample %d: %q", ErrInvalidPPM, i, tok)
			}
			samples[i] = v
		}
	case "P6":
		width := 1
		if h.maxVal > 255 {
			width = 2
		}
		raw := make([]byte, count*width)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("%w: pixel data: %v", ErrInvalidPPM, err)
		}
		for i := range samples {
			if width == 2 {
				samples[i] = int(raw[2*i])<<8 | int(raw[2*i+1])
			} else {
				samples[i] = int(raw[i])
			}
		}
	}

	for i := 0; i < h.width*h.height; i++ {
		var c [3]uint8
		for ch := 0; ch < 3; ch++ {
			v := samples[3*i+ch]
			if v < 0 || v > h.maxVal {
				return nil, fmt.Errorf("%w: sample %d out of range: %d", ErrInvalidPPM, 3*i+ch, v)
			}
			c[ch] = uint8((v*255 + h.maxVal/2) / h.maxVal)
		}
		img.SetRGBA(i%h.width, i/h.width, color.RGBA{R: c[0], G: c[1], B: c[2], A: 255})
	}

	return img, nil
}

func readPPMHeader(br *bufio.Reader) (ppmHeader, error) {
	var h ppmHeader
	var err error

	if h.magic, err = readToken(br); err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidPPM, err)
	}
	if h.magic != "P3" && h.magic != "P6" {
		return h, fmt.Errorf("%w: unsupported magic %q", ErrInvalidPPM, h.magic)
	}

	fields := []*int{&h.width, &h.height, &h.maxVal}
	names := []string{"width", "height", "max value"}
	for i, field := range fields {
		tok, err := readToken(br)
		if err != nil {
			return h, fmt.Errorf("%w: %s: %v", ErrInvalidPPM, names[i], err)
		}
		if *field, err = strconv.Atoi(tok); err != nil || *field <= 0 {
			return h, fmt.Errorf("%w: %s: %q", ErrInvalidPPM, names[i], tok)
		}
	}
	if h.maxVal > 65535 {
		return h, fmt.Errorf("%w: max value %d", ErrInvalidPPM, h.maxVal)
	}

	// Exactly one whitespace byte separates the header from binary data
	if h.magic == "P6" {
		if _, err := br.ReadByte(); err != nil {
			return h, fmt.Errorf("%w: %v", ErrInvalidPPM, err)
		}
	}
	return h, nil
}

// readToken returns the next whitespace-delimited token, skipping # comments.
// The delimiter following the token is left unread.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), br.UnreadByte()
			}
		default:
			tok = append(tok, b)
		}
	}
}
