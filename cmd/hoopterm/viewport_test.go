package main

import (
	"math"
	"testing"

	"github.com/playmatatu/hoopshot/internal/game"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestViewportCorners(t *testing.T) {
	p := game.SlingshotParams()
	v := newViewport(p, 81, 42)

	col, row, ok := v.toCell(game.NewVec3(p.FieldMinX, v.maxY, 0))
	if !ok || col != 0 || row != hudRows {
		t.Errorf("top left: got (%d,%d,%v)", col, row, ok)
	}
	col, row, ok = v.toCell(game.NewVec3(p.FieldMaxX, p.FloorY, 0))
	if !ok || col != 80 || row != 41 {
		t.Errorf("bottom right: got (%d,%d,%v)", col, row, ok)
	}
	col, _, ok = v.toCell(game.NewVec3((p.FieldMinX+p.FieldMaxX)/2, 0, 0))
	if !ok || col != 40 {
		t.Errorf("centre column: got %d (%v)", col, ok)
	}
}

func TestViewportOutside(t *testing.T) {
	p := game.SlingshotParams()
	v := newViewport(p, 80, 24)

	for _, pos := range []game.Vec3{
		game.NewVec3(p.FieldMaxX+1, 0, 0),
		game.NewVec3(p.FieldMinX-1, 0, 0),
		game.NewVec3(0, p.FloorY-1, 0),
		game.NewVec3(0, v.maxY+1, 0),
	} {
		if _, _, ok := v.toCell(pos); ok {
			t.Errorf("expected %v to be off screen", pos)
		}
	}
}

func TestViewportNDC(t *testing.T) {
	v := newViewport(game.ArcadeParams(), 81, 43)

	cases := []struct {
		col, row int
		want     game.Vec2
	}{
		{0, hudRows, game.NewVec2(-1, 1)},
		{80, 42, game.NewVec2(1, -1)},
		{40, hudRows + 20, game.NewVec2(0, 0)},
		// The HUD rows above the field clamp to the top edge.
		{40, 0, game.NewVec2(0, 1)},
	}
	for _, tc := range cases {
		got := v.toNDC(tc.col, tc.row)
		if !near(got.X, tc.want.X) || !near(got.Y, tc.want.Y) {
			t.Errorf("toNDC(%d,%d) = %v, want %v", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestViewportTooSmall(t *testing.T) {
	v := newViewport(game.SlingshotParams(), 1, 2)
	if _, _, ok := v.toCell(game.NewVec3(0, 0, 0)); ok {
		t.Errorf("expected no cells on a degenerate screen")
	}
	if got := v.toNDC(0, 0); !got.IsZero() {
		t.Errorf("expected zero NDC, got %v", got)
	}
}
