// Package render paints parameter sets into pixel buffers.
//
// Every renderer is a pure function of (parameters, width, height). Float
// arithmetic converts each product explicitly (float64(a*b)) so the compiler
// cannot contract multiply-add pairs into FMA instructions; output is then
// bit-identical across architectures.
package render

import (
	"image"
	"image/color"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/params"
)

// MaxPixels bounds width*height for a single image.
const MaxPixels = 64 << 20

// Func is the common renderer signature.
type Func func(set params.Set, width, height int) (*image.RGBA, error)

// Render dispatches set to the renderer of its style.
func Render(set params.Set, width, height int) (*image.RGBA, error) {
	switch set.Style {
	case params.StyleColorBlocks:
		if set.ColorBlocks == nil {
			return nil, missing(set.Style)
		}
		return ColorBlocks(*set.ColorBlocks, width, height)
	case params.StyleCircles:
		if set.Circles == nil {
			return nil, missing(set.Style)
		}
		return Circles(*set.Circles, width, height)
	case params.StyleNoiseScape:
		if set.NoiseScape == nil {
			return nil, missing(set.Style)
		}
		return NoiseScape(*set.NoiseScape, width, height)
	case params.StyleMandelbrot:
		if set.Mandelbrot == nil {
			return nil, missing(set.Style)
		}
		return Mandelbrot(*set.Mandelbrot, width, height)
	default:
		return nil, fusionerr.Newf(fusionerr.KindUnknownStyle, "RF-STYLE-001", "unknown style %q", string(set.Style))
	}
}

// CheckDimensions validates a canvas size.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fusionerr.Newf(fusionerr.KindInvalidDimensions, "RF-DIM-001",
			"width and height must be positive, got %dx%d", width, height)
	}
	if width > MaxPixels/height {
		return fusionerr.Newf(fusionerr.KindInvalidDimensions, "RF-DIM-002",
			"%dx%d exceeds the %d pixel limit", width, height, MaxPixels)
	}
	return nil
}

func missing(style params.Style) error {
	return fusionerr.Newf(fusionerr.KindInternal, "RF-INT-003", "parameter set for %s is empty", style)
}

func newCanvas(width, height int) (*image.RGBA, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func fill(img *image.RGBA, c color.RGBA) {
	c.A = 0xff
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func put(img *image.RGBA, x, y int, c color.RGBA) {
	i := y*img.Stride + x*4
	img.Pix[i] = c.R
	img.Pix[i+1] = c.G
	img.Pix[i+2] = c.B
	img.Pix[i+3] = 0xff
}
