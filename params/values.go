package params

import "image/color"

// Values flattens the populated parameters into a name -> value mapping.
// Colors are rendered as "#rrggbb" and palettes as lists of them.
func (s Set) Values() map[string]any {
	switch {
	case s.ColorBlocks != nil:
		p := s.ColorBlocks
		return map[string]any{
			KeyGridSize: p.GridSize,
			KeyPalette:  formatPalette(p.Palette),
		}
	case s.Circles != nil:
		p := s.Circles
		return map[string]any{
			KeyBackground: FormatColor(p.Background),
			KeyNumCircles: p.NumCircles,
			KeyBaseStroke: p.BaseStroke,
			KeyPalette:    formatPalette(p.Palette),
		}
	case s.NoiseScape != nil:
		p := s.NoiseScape
		return map[string]any{
			KeyNoiseSeed: p.Seed,
			KeyOctaves:   p.Octaves,
			KeyScale:     p.Scale,
			KeyPalette:   formatPalette(p.Palette),
		}
	case s.Mandelbrot != nil:
		p := s.Mandelbrot
		return map[string]any{
			KeyReMin:         p.ReMin,
			KeyReMax:         p.ReMax,
			KeyImMin:         p.ImMin,
			KeyImMax:         p.ImMax,
			KeyMaxIterations: p.MaxIterations,
			KeyPalette:       formatPalette(p.Palette),
			KeyInterior:      FormatColor(p.Interior),
		}
	default:
		return map[string]any{}
	}
}

func formatPalette(p []color.RGBA) []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = FormatColor(c)
	}
	return out
}
