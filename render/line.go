package render

import (
	"github.com/lixenwraith/lra-cloth/parameter"
)

// traceLine walks cells from (x0,y0) to (x1,y1) inclusive via Bresenham,
// calling plot for each cell. Lines longer than limit are skipped so a point
// projected far off-screen cannot stall a frame
func traceLine(x0, y0, x1, y1, limit int, plot func(x, y int)) {
	dx := x1 - x0
	dy := y1 - y0
	absDx, absDy := dx, dy
	if absDx < 0 {
		absDx = -absDx
	}
	if absDy < 0 {
		absDy = -absDy
	}
	if max(absDx, absDy) > limit {
		return
	}

	stepX, stepY := 1, 1
	if dx < 0 {
		stepX = -1
	}
	if dy < 0 {
		stepY = -1
	}

	err := absDx - absDy
	x, y := x0, y0
	for {
		plot(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -absDy {
			err -= absDy
			x += stepX
		}
		if e2 < absDx {
			err += absDx
			y += stepY
		}
	}
}

// slopeGlyph picks a line character for the segment direction in cell units
func slopeGlyph(dx, dy int) rune {
	// Compare in physical units, cells are taller than wide
	px := float64(dx)
	py := float64(dy) * parameter.CellAspect
	if px < 0 {
		px = -px
	}
	if py < 0 {
		py = -py
	}

	switch {
	case px == 0 && py == 0:
		return '·'
	case py < px*0.4:
		return '-'
	case px < py*0.4:
		return '|'
	case (dx > 0) == (dy > 0):
		// Screen y grows downward
		return '\\'
	default:
		return '/'
	}
}
