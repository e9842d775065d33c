package game

// State is the phase of a shooting session.
type State string

const (
	StateIdle     State = "idle"
	StateAiming   State = "aiming"
	StateShooting State = "shooting"
	StateScored   State = "scored"
	StateMissed   State = "missed"
	StateGameOver State = "gameOver"
)

// Resolved reports whether the attempt is over and the result is on display.
func (s State) Resolved() bool {
	return s == StateScored || s == StateMissed
}
