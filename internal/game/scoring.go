package game

import "math"

// TargetRegion is the hoop's scoring volume.
type TargetRegion struct {
	Center Vec3    `json:"center" toml:"center"`
	Radius float64 `json:"radius" toml:"radius"`
}

// Contains is an axis-aligned box test: the ball counts as inside when it is
// strictly within Radius of the centre on both X and Y. The box is wider at
// the corners than the circular rim.
func (r TargetRegion) Contains(pos Vec3) bool {
	return math.Abs(pos.X-r.Center.X) < r.Radius &&
		math.Abs(pos.Y-r.Center.Y) < r.Radius
}

// Evaluator decides scoring for a single attempt. It fires at most once.
type Evaluator struct {
	Target    TargetRegion
	MinFlight float64
	scored    bool
}

func NewEvaluator(target TargetRegion, minFlight float64) *Evaluator {
	return &Evaluator{Target: target, MinFlight: minFlight}
}

// Evaluate returns true only on the first call where t exceeds MinFlight and
// pos lies in the target. Every later call returns false.
func (e *Evaluator) Evaluate(pos Vec3, t float64) bool {
	if e.scored {
		return false
	}
	if t > e.MinFlight && e.Target.Contains(pos) {
		e.scored = true
		return true
	}
	return false
}

// Scored reports whether this attempt has already scored.
func (e *Evaluator) Scored() bool {
	return e.scored
}
