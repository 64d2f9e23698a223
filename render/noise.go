package render

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/params"
)

// NoiseScape fills the canvas with fractal gradient noise.
//
// A 2D Perlin lattice is permuted from p.Seed. Octave o samples at frequency
// Scale*2^o cells across the limiting dimension with amplitude 2^-o; the
// normalized sum in [-1, 1] is mapped to [0, 1] and through the palette
// gradient.
func NoiseScape(p params.NoiseScape, width, height int) (*image.RGBA, error) {
	img, err := newCanvas(width, height)
	if err != nil {
		return nil, err
	}
	if p.Octaves < 1 || p.Scale < 1 {
		return nil, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-001",
			"octaves %d and scale %d must be at least 1", p.Octaves, p.Scale)
	}

	lat := newLattice(p.Seed)
	step := float64(p.Scale) / float64(min(width, height))
	for y := 0; y < height; y++ {
		ny := float64((float64(y) + 0.5) * step)
		for x := 0; x < width; x++ {
			nx := float64((float64(x) + 0.5) * step)
			v := lat.fbm(nx, ny, p.Octaves)
			t := float64((v + 1) * 0.5)
			put(img, x, y, gradient(p.Palette, int(float64(t*gradientScale))))
		}
	}
	return img, nil
}

type lattice struct {
	perm [512]uint8
}

// newLattice shuffles 0..255 with a PCG stream keyed by seed (Fisher-Yates
// over raw Uint64 draws, so the result does not depend on math/rand helper
// algorithms).
func newLattice(seed uint64) *lattice {
	rng := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	for i := len(p) - 1; i > 0; i-- {
		j := int(rng.Uint64() % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}
	l := &lattice{}
	copy(l.perm[:256], p[:])
	copy(l.perm[256:], p[:])
	return l
}

func (l *lattice) fbm(x, y float64, octaves int) float64 {
	var sum, norm float64
	amp, freq := 1.0, 1.0
	for o := 0; o < octaves; o++ {
		sx := float64(x * freq)
		sy := float64(y * freq)
		sum += float64(amp * l.noise(sx, sy))
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	v := sum / norm
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func (l *lattice) noise(x, y float64) float64 {
	fx, fy := math.Floor(x), math.Floor(y)
	xi, yi := int(fx)&255, int(fy)&255
	x -= fx
	y -= fy
	u, v := fade(x), fade(y)

	a := int(l.perm[xi]) + yi
	b := int(l.perm[xi+1]) + yi
	aa, ab := l.perm[a], l.perm[a+1]
	ba, bb := l.perm[b], l.perm[b+1]

	x1 := lerp(u, grad(aa, x, y), grad(ba, x-1, y))
	x2 := lerp(u, grad(ab, x, y-1), grad(bb, x-1, y-1))
	return lerp(v, x1, x2)
}

// fade is 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	a := float64(t*6) - 15
	b := float64(t*a) + 10
	t3 := float64(float64(t*t) * t)
	return float64(t3 * b)
}

func lerp(t, a, b float64) float64 {
	return a + float64(t*(b-a))
}

func grad(h uint8, x, y float64) float64 {
	switch h & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
