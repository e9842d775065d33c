package game

// Vec3 is an immutable 3D vector used for ball position and rotation.
// Shots are planar: Z is carried through from the start position unchanged.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Plus(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// WithXY replaces X and Y, keeping Z.
func (v Vec3) WithXY(xy Vec2) Vec3 {
	return Vec3{X: xy.X, Y: xy.Y, Z: v.Z}
}

func (v Vec3) Rounded() Vec3 {
	return Vec3{X: fix(v.X), Y: fix(v.Y), Z: fix(v.Z)}
}
