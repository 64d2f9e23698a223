package params

import (
	"sort"
	"strings"

	"github.com/khengari77/RandomFusion/fusionerr"
)

// Style tags one renderer of the family.
type Style string

const (
	StyleColorBlocks Style = "color_blocks"
	StyleCircles     Style = "circles"
	StyleNoiseScape  Style = "noisescape"
	StyleMandelbrot  Style = "mandelbrot"
)

// Styles returns every supported style, sorted.
func Styles() []Style {
	out := make([]Style, 0, len(layouts))
	for s := range layouts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseStyle validates a style tag. Matching ignores case and surrounding space.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := layouts[st]; !ok {
		return "", fusionerr.Newf(fusionerr.KindUnknownStyle, "RF-STYLE-001", "unknown style %q", s)
	}
	return st, nil
}
