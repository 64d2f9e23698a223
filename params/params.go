// Package params derives renderer parameters from an expanded stream.
//
// Each style owns a fixed slot table (see Layout). Slots are read in table
// order through an explicit Cursor; every slot consumes its full width whether
// or not the caller overrides it, so overriding one parameter leaves every
// other derived parameter unchanged.
package params

import (
	"image/color"

	"github.com/khengari77/RandomFusion/fusionerr"
)

type ColorBlocks struct {
	GridSize int
	Palette  []color.RGBA
}

type Circles struct {
	Background color.RGBA
	NumCircles int
	// BaseStroke is the stroke width of the innermost ring; ring i of n is
	// drawn BaseStroke + BaseStroke*i/n pixels wide.
	BaseStroke int
	Palette    []color.RGBA
}

type NoiseScape struct {
	Seed    uint64
	Octaves int
	// Scale is the number of lattice cells of the first octave across the
	// limiting canvas dimension.
	Scale   int
	Palette []color.RGBA
}

type Mandelbrot struct {
	ReMin, ReMax  float64
	ImMin, ImMax  float64
	MaxIterations int
	Palette       []color.RGBA
	Interior      color.RGBA
}

// Set is a tagged union: Style selects which pointer is populated.
type Set struct {
	Style       Style
	ColorBlocks *ColorBlocks
	Circles     *Circles
	NoiseScape  *NoiseScape
	Mandelbrot  *Mandelbrot
}

var (
	gridDerived       = intRange{4, 16}
	gridAllowed       = intRange{1, 256}
	circlesDerived    = intRange{4, 24}
	circlesAllowed    = intRange{1, 512}
	strokeDerived     = intRange{1, 6}
	strokeAllowed     = intRange{1, 1024}
	octavesDerived    = intRange{1, 6}
	octavesAllowed    = intRange{1, 12}
	scaleDerived      = intRange{2, 12}
	scaleAllowed      = intRange{1, 1024}
	iterationsDerived = intRange{64, 256}
	iterationsAllowed = intRange{1, 10000}

	reMinDerived    = floatRange{-2.4, -1.6}
	reMaxDerived    = floatRange{0.4, 1.0}
	imMinDerived    = floatRange{-1.4, -0.9}
	imMaxDerived    = floatRange{0.9, 1.4}
	viewportAllowed = floatRange{-8, 8}
)

// Derive reads style's parameters from stream, applying overrides.
func Derive(stream []byte, style Style, ov Overrides) (Set, error) {
	if _, ok := layouts[style]; !ok {
		return Set{}, fusionerr.Newf(fusionerr.KindUnknownStyle, "RF-STYLE-001", "unknown style %q", string(style))
	}
	if err := ov.checkKeys(style); err != nil {
		return Set{}, err
	}

	var (
		set = Set{Style: style}
		end Cursor
		err error
	)
	switch style {
	case StyleColorBlocks:
		set.ColorBlocks, end, err = deriveColorBlocks(stream, ov)
	case StyleCircles:
		set.Circles, end, err = deriveCircles(stream, ov)
	case StyleNoiseScape:
		set.NoiseScape, end, err = deriveNoiseScape(stream, ov)
	case StyleMandelbrot:
		set.Mandelbrot, end, err = deriveMandelbrot(stream, ov)
	}
	if err != nil {
		return Set{}, err
	}
	if end.Offset() != Size(style) {
		return Set{}, fusionerr.Newf(fusionerr.KindInternal, "RF-INT-002",
			"%s consumed %d bytes, layout declares %d", style, end.Offset(), Size(style))
	}
	return set, nil
}

func deriveColorBlocks(stream []byte, ov Overrides) (*ColorBlocks, Cursor, error) {
	var (
		p   ColorBlocks
		c   Cursor
		err error
	)
	if _, c, err = c.Next(stream, colorWidth); err != nil {
		return nil, c, err
	}
	if p.GridSize, c, err = readInt(stream, c, ov, KeyGridSize, gridDerived, gridAllowed); err != nil {
		return nil, c, err
	}
	if p.Palette, c, err = readPalette(stream, c, ColorBlocksPaletteSize); err != nil {
		return nil, c, err
	}
	return &p, c, nil
}

func deriveCircles(stream []byte, ov Overrides) (*Circles, Cursor, error) {
	var (
		p   Circles
		c   Cursor
		err error
	)
	if p.Background, c, err = readColor(stream, c, ov, KeyBackground); err != nil {
		return nil, c, err
	}
	if p.NumCircles, c, err = readInt(stream, c, ov, KeyNumCircles, circlesDerived, circlesAllowed); err != nil {
		return nil, c, err
	}
	if p.BaseStroke, c, err = readInt(stream, c, ov, KeyBaseStroke, strokeDerived, strokeAllowed); err != nil {
		return nil, c, err
	}
	if p.Palette, c, err = readPalette(stream, c, CirclesPaletteSize); err != nil {
		return nil, c, err
	}
	return &p, c, nil
}

func deriveNoiseScape(stream []byte, ov Overrides) (*NoiseScape, Cursor, error) {
	var (
		p   NoiseScape
		c   Cursor
		err error
	)
	if p.Seed, c, err = readSeed(stream, c, ov, KeyNoiseSeed); err != nil {
		return nil, c, err
	}
	if p.Octaves, c, err = readInt(stream, c, ov, KeyOctaves, octavesDerived, octavesAllowed); err != nil {
		return nil, c, err
	}
	if p.Scale, c, err = readInt(stream, c, ov, KeyScale, scaleDerived, scaleAllowed); err != nil {
		return nil, c, err
	}
	if p.Palette, c, err = readPalette(stream, c, NoisePaletteStops); err != nil {
		return nil, c, err
	}
	return &p, c, nil
}

func deriveMandelbrot(stream []byte, ov Overrides) (*Mandelbrot, Cursor, error) {
	var (
		p   Mandelbrot
		c   Cursor
		err error
	)
	if p.ReMin, c, err = readFloat(stream, c, ov, KeyReMin, reMinDerived, viewportAllowed); err != nil {
		return nil, c, err
	}
	if p.ReMax, c, err = readFloat(stream, c, ov, KeyReMax, reMaxDerived, viewportAllowed); err != nil {
		return nil, c, err
	}
	if p.ImMin, c, err = readFloat(stream, c, ov, KeyImMin, imMinDerived, viewportAllowed); err != nil {
		return nil, c, err
	}
	if p.ImMax, c, err = readFloat(stream, c, ov, KeyImMax, imMaxDerived, viewportAllowed); err != nil {
		return nil, c, err
	}
	if p.MaxIterations, c, err = readInt(stream, c, ov, KeyMaxIterations, iterationsDerived, iterationsAllowed); err != nil {
		return nil, c, err
	}
	if p.Palette, c, err = readPalette(stream, c, MandelbrotPaletteStops); err != nil {
		return nil, c, err
	}
	if p.Interior, c, err = readColor(stream, c, ov, KeyInterior); err != nil {
		return nil, c, err
	}
	if p.ReMin >= p.ReMax {
		return nil, c, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-004",
			"viewport re_min %g must be below re_max %g", p.ReMin, p.ReMax)
	}
	if p.ImMin >= p.ImMax {
		return nil, c, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-004",
			"viewport im_min %g must be below im_max %g", p.ImMin, p.ImMax)
	}
	return &p, c, nil
}
