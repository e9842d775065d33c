package game

import "math"

// Vec2 is an immutable 2D vector. Pointer input arrives as Vec2 in normalized
// device coordinates; launch velocities are Vec2 in world units per second.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// fix rounds to 4 decimal places. Used only when publishing poses so that
// snapshots stay stable on the wire; the simulation itself runs unrounded.
func fix(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Round(n*10000) / 10000
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// ClampMagnitude returns v unchanged when |v| <= max, otherwise v rescaled to
// length max with its direction preserved.
func (v Vec2) ClampMagnitude(max float64) Vec2 {
	m := v.Magnitude()
	if m <= max || m == 0 {
		return v
	}
	return v.Times(max / m)
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
