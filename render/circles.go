package render

import (
	"image"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/params"
)

// Circles draws NumCircles rings centred on the canvas.
//
// With R = min(width, height)/2, ring i (0-based) has radius (i+1)*R/n and
// stroke width BaseStroke + BaseStroke*i/n, so strokes grow linearly towards
// the edge. Rings are painted innermost first, later rings covering earlier
// ones; the rest of the canvas keeps the background. Ring i uses palette
// entry i, cycling.
//
// Geometry runs in doubled integer coordinates so pixel centres (x+0.5) are
// exact and no floating point is involved.
func Circles(p params.Circles, width, height int) (*image.RGBA, error) {
	img, err := newCanvas(width, height)
	if err != nil {
		return nil, err
	}
	if p.NumCircles < 1 || p.BaseStroke < 1 {
		return nil, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-001",
			"num_circles %d and base_stroke %d must be at least 1", p.NumCircles, p.BaseStroke)
	}
	fill(img, p.Background)

	n := p.NumCircles
	limit := min(width, height) // 2R in doubled units
	type ring struct{ inner2, outer2 int64 }
	rings := make([]ring, n)
	for i := range rings {
		r := int64((i + 1) * limit / n)
		// Half the stroke, in doubled units.
		s := int64(p.BaseStroke + p.BaseStroke*i/n)
		inner := r - s
		if inner < 0 {
			inner = 0
		}
		outer := r + s
		rings[i] = ring{inner2: inner * inner, outer2: outer * outer}
	}

	for y := 0; y < height; y++ {
		dy := int64(2*y + 1 - height)
		for x := 0; x < width; x++ {
			dx := int64(2*x + 1 - width)
			d2 := dx*dx + dy*dy
			for i := n - 1; i >= 0; i-- {
				if d2 >= rings[i].inner2 && d2 <= rings[i].outer2 {
					put(img, x, y, cycle(p.Palette, i))
					break
				}
			}
		}
	}
	return img, nil
}
