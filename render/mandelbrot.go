package render

import (
	"image"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/params"
)

// Mandelbrot renders the escape-time fractal over the viewport
// [ReMin, ReMax] x [ImMin, ImMax], with ImMax on the top row. Each pixel
// centre is iterated at most MaxIterations times with escape radius 2; points
// escaping after n steps take the palette gradient at n/MaxIterations, the
// rest take Interior.
func Mandelbrot(p params.Mandelbrot, width, height int) (*image.RGBA, error) {
	img, err := newCanvas(width, height)
	if err != nil {
		return nil, err
	}
	if p.MaxIterations < 1 {
		return nil, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-001", "max_iterations %d must be at least 1", p.MaxIterations)
	}
	if !(p.ReMin < p.ReMax) || !(p.ImMin < p.ImMax) {
		return nil, fusionerr.New(fusionerr.KindParameterOutOfDomain, "RF-PARAM-004", "empty viewport")
	}

	dre := (p.ReMax - p.ReMin) / float64(width)
	dim := (p.ImMax - p.ImMin) / float64(height)
	for y := 0; y < height; y++ {
		ci := p.ImMax - float64((float64(y)+0.5)*dim)
		for x := 0; x < width; x++ {
			cr := p.ReMin + float64((float64(x)+0.5)*dre)
			n := escape(cr, ci, p.MaxIterations)
			if n == p.MaxIterations {
				put(img, x, y, p.Interior)
				continue
			}
			put(img, x, y, gradient(p.Palette, n*gradientScale/p.MaxIterations))
		}
	}
	return img, nil
}

// escape returns the number of iterations before |z| exceeds 2, or limit.
func escape(cr, ci float64, limit int) int {
	var zr, zi float64
	for n := 0; n < limit; n++ {
		zr2 := float64(zr * zr)
		zi2 := float64(zi * zi)
		if zr2+zi2 > 4 {
			return n
		}
		zi = float64(2*zr*zi) + ci
		zr = zr2 - zi2 + cr
	}
	return limit
}
