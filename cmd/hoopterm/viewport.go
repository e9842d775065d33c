package main

import (
	"math"

	"github.com/playmatatu/hoopshot/internal/game"
)

// hudRows are reserved at the top of the screen for the score line and help.
const hudRows = 2

// viewport maps world coordinates onto the field area of the terminal and
// terminal cells back onto normalized device coordinates in [-1, 1].
type viewport struct {
	cols, rows int // field size in cells
	top        int // first screen row of the field

	minX, maxX float64
	minY, maxY float64
}

func newViewport(p game.Params, screenCols, screenRows int) viewport {
	maxY := p.Target.Center.Y + 3*p.Target.Radius
	if y := p.Start.Y + 4*p.BallRadius; y > maxY {
		maxY = y
	}
	return viewport{
		cols: screenCols,
		rows: screenRows - hudRows,
		top:  hudRows,
		minX: p.FieldMinX,
		maxX: p.FieldMaxX,
		minY: p.FloorY,
		maxY: maxY,
	}
}

func (v viewport) usable() bool {
	return v.cols > 1 && v.rows > 1 && v.maxX > v.minX && v.maxY > v.minY
}

// toCell returns the screen cell of a world position. ok is false when the
// position falls outside the field.
func (v viewport) toCell(pos game.Vec3) (col, row int, ok bool) {
	if !v.usable() {
		return 0, 0, false
	}
	fx := (pos.X - v.minX) / (v.maxX - v.minX)
	fy := (v.maxY - pos.Y) / (v.maxY - v.minY)
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	col = int(math.Round(fx * float64(v.cols-1)))
	row = v.top + int(math.Round(fy*float64(v.rows-1)))
	return col, row, true
}

// toNDC converts a screen cell inside the field to device coordinates, y up.
func (v viewport) toNDC(col, row int) game.Vec2 {
	if !v.usable() {
		return game.Vec2{}
	}
	x := 2*float64(col)/float64(v.cols-1) - 1
	y := 1 - 2*float64(row-v.top)/float64(v.rows-1)
	return game.NewVec2(clampUnit(x), clampUnit(y))
}

func clampUnit(f float64) float64 {
	return math.Max(-1, math.Min(1, f))
}
