package game

// MissReason says which termination condition ended an attempt.
type MissReason string

const (
	MissNone        MissReason = ""
	MissFloor       MissReason = "floor"
	MissOutOfBounds MissReason = "out_of_bounds"
	MissTimeout     MissReason = "timeout"
)

// ShotAttempt is one ball in flight. Position is evaluated in closed form from
// Start and Velocity, so any elapsed time can be queried in any order.
type ShotAttempt struct {
	Start    Vec3    `json:"start"`
	Velocity Vec2    `json:"velocity"`
	Elapsed  float64 `json:"elapsed"`
}

func NewShotAttempt(start Vec3, velocity Vec2) *ShotAttempt {
	return &ShotAttempt{Start: start, Velocity: velocity}
}

// PositionAt returns the ball position t seconds after launch under gravity g:
// x = x0 + vx*t, y = y0 + vy*t + g*t*t/2, z = z0.
func (a *ShotAttempt) PositionAt(t, g float64) Vec3 {
	return Vec3{
		X: a.Start.X + a.Velocity.X*t,
		Y: a.Start.Y + a.Velocity.Y*t + 0.5*g*t*t,
		Z: a.Start.Z,
	}
}

// Advance records t as the elapsed flight time and returns the position there.
func (a *ShotAttempt) Advance(t, g float64) Vec3 {
	a.Elapsed = t
	return a.PositionAt(t, g)
}

// RotationAt is the cosmetic spin of the ball; it has no effect on flight.
func (a *ShotAttempt) RotationAt(t, spin float64) Vec3 {
	return Vec3{X: a.Velocity.X * spin * t, Z: a.Velocity.Y * spin * t}
}

// Termination reports whether a ball at pos, t seconds into its flight, has
// left play. Floor is checked first, then the field bounds, then the clock.
func (p Params) Termination(pos Vec3, t float64) MissReason {
	switch {
	case pos.Y < p.FloorY:
		return MissFloor
	case pos.X < p.FieldMinX || pos.X > p.FieldMaxX:
		return MissOutOfBounds
	case t > p.MaxFlight:
		return MissTimeout
	}
	return MissNone
}

// PredictPath samples n points of the flight starting at t=0 with spacing dt.
// Used to draw an aim guide before release.
func PredictPath(start Vec3, velocity Vec2, g, dt float64, n int) []Vec3 {
	if n <= 0 || dt <= 0 {
		return nil
	}
	a := ShotAttempt{Start: start, Velocity: velocity}
	path := make([]Vec3, n)
	for i := range path {
		path[i] = a.PositionAt(float64(i)*dt, g)
	}
	return path
}
