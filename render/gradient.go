package render

import "image/color"

// gradientScale is the fixed-point range of gradient positions.
const gradientScale = 1 << 16

// gradient returns the color at pos/gradientScale along the stops, linearly
// interpolating between neighbours. Integer arithmetic keeps results exact.
func gradient(stops []color.RGBA, pos int) color.RGBA {
	switch len(stops) {
	case 0:
		return color.RGBA{A: 0xff}
	case 1:
		return stops[0]
	}
	if pos <= 0 {
		return stops[0]
	}
	if pos >= gradientScale {
		return stops[len(stops)-1]
	}
	segments := len(stops) - 1
	scaled := pos * segments
	i := scaled / gradientScale
	frac := scaled % gradientScale
	a, b := stops[i], stops[i+1]
	return color.RGBA{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: 0xff,
	}
}

func lerp8(a, b uint8, frac int) uint8 {
	return uint8(int(a) + (int(b)-int(a))*frac/gradientScale)
}

// cycle returns palette[i mod len(palette)].
func cycle(palette []color.RGBA, i int) color.RGBA {
	if len(palette) == 0 {
		return color.RGBA{A: 0xff}
	}
	return palette[i%len(palette)]
}
