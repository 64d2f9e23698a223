package render

import (
	"image"

	"github.com/khengari77/RandomFusion/fusionerr"
	"github.com/khengari77/RandomFusion/params"
)

// ColorBlocks partitions the canvas into GridSize x GridSize cells of
// size/GridSize pixels; the last row and column absorb the remainder, so every
// pixel belongs to exactly one cell. Cell (row, col) takes palette entry
// row*GridSize+col, cycling when the palette is shorter.
func ColorBlocks(p params.ColorBlocks, width, height int) (*image.RGBA, error) {
	img, err := newCanvas(width, height)
	if err != nil {
		return nil, err
	}
	if p.GridSize < 1 {
		return nil, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-001", "grid_size %d must be at least 1", p.GridSize)
	}

	cols := make([]int, width)
	for x := range cols {
		cols[x] = cellIndex(x, width, p.GridSize)
	}
	for y := 0; y < height; y++ {
		row := cellIndex(y, height, p.GridSize)
		for x := 0; x < width; x++ {
			put(img, x, y, cycle(p.Palette, row*p.GridSize+cols[x]))
		}
	}
	return img, nil
}

func cellIndex(pos, size, grid int) int {
	cell := size / grid
	if cell == 0 {
		return grid - 1
	}
	if i := pos / cell; i < grid {
		return i
	}
	return grid - 1
}
