package params

// Parameter names accepted as overrides.
const (
	KeyBackground    = "background"
	KeyGridSize      = "grid_size"
	KeyPalette       = "palette"
	KeyNumCircles    = "num_circles"
	KeyBaseStroke    = "base_stroke"
	KeyNoiseSeed     = "noise_seed"
	KeyOctaves       = "octaves"
	KeyScale         = "scale"
	KeyReMin         = "re_min"
	KeyReMax         = "re_max"
	KeyImMin         = "im_min"
	KeyImMax         = "im_max"
	KeyMaxIterations = "max_iterations"
	KeyInterior      = "interior"
)

// slotReserved names stream bytes that are consumed but feed no parameter.
// color_blocks leads with one color-wide reserved slot: its grid covers
// every pixel, so it has no background to derive.
const slotReserved = "reserved"


// Palette sizes per style. ColorBlocksPaletteSize covers a 16x16 grid, the
// largest grid derived from the stream; larger overridden grids cycle.
const (
	ColorBlocksPaletteSize = 256
	CirclesPaletteSize     = 24
	NoisePaletteStops      = 5
	MandelbrotPaletteStops = 8
)

// Slot widths in stream bytes.
const (
	colorWidth = 3
	intWidth   = 2
	floatWidth = 2
	seedWidth  = 8
)

// MinStreamLength is the minimum stream expanded for any style.
const MinStreamLength = 256

// Slot describes one entry of a style's derivation table.
type Slot struct {
	Name        string
	Width       int
	Overridable bool
}

// The order of each table is a compatibility contract: reordering or
// resizing a slot changes every image of that style.
var layouts = map[Style][]Slot{
	StyleColorBlocks: {
		{slotReserved, colorWidth, false},
		{KeyGridSize, intWidth, true},
		{KeyPalette, ColorBlocksPaletteSize * colorWidth, false},
	},
	StyleCircles: {
		{KeyBackground, colorWidth, true},
		{KeyNumCircles, intWidth, true},
		{KeyBaseStroke, intWidth, true},
		{KeyPalette, CirclesPaletteSize * colorWidth, false},
	},
	StyleNoiseScape: {
		{KeyNoiseSeed, seedWidth, true},
		{KeyOctaves, intWidth, true},
		{KeyScale, intWidth, true},
		{KeyPalette, NoisePaletteStops * colorWidth, false},
	},
	StyleMandelbrot: {
		{KeyReMin, floatWidth, true},
		{KeyReMax, floatWidth, true},
		{KeyImMin, floatWidth, true},
		{KeyImMax, floatWidth, true},
		{KeyMaxIterations, intWidth, true},
		{KeyPalette, MandelbrotPaletteStops * colorWidth, false},
		{KeyInterior, colorWidth, true},
	},
}

// Layout returns a copy of the slot table for style, or nil if unknown.
func Layout(style Style) []Slot {
	return append([]Slot(nil), layouts[style]...)
}

// Size returns the number of stream bytes consumed by style's derivation.
func Size(style Style) int {
	n := 0
	for _, s := range layouts[style] {
		n += s.Width
	}
	return n
}

// StreamLength returns how many bytes to expand for style.
func StreamLength(style Style) int {
	if n := Size(style); n > MinStreamLength {
		return n
	}
	return MinStreamLength
}

func overridable(style Style, key string) bool {
	for _, s := range layouts[style] {
		if s.Name == key {
			return s.Overridable
		}
	}
	return false
}
