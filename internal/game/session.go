package game

import "time"

// AttemptResult describes one resolved attempt.
type AttemptResult struct {
	Number        int        `json:"number"`
	Velocity      Vec2       `json:"velocity"`
	Scored        bool       `json:"scored"`
	Miss          MissReason `json:"miss,omitempty"`
	FlightTime    float64    `json:"flight_time"`
	FinalPosition Vec3       `json:"final_position"`
}

// Transition records one state change together with the counters after it.
type Transition struct {
	From           State          `json:"from"`
	To             State          `json:"to"`
	Score          int            `json:"score"`
	TriesRemaining int            `json:"tries_remaining"`
	Attempt        *AttemptResult `json:"attempt,omitempty"`
}

// Snapshot is the read-only view handed to renderers and clients.
type Snapshot struct {
	Variant        string  `json:"variant"`
	State          State   `json:"state"`
	Score          int     `json:"score"`
	TriesRemaining int     `json:"tries_remaining"`
	MaxTries       int     `json:"max_tries"`
	AttemptNumber  int     `json:"attempt_number"`
	Ball           Vec3    `json:"ball"`
	Rotation       Vec3    `json:"rotation"`
	Elapsed        float64 `json:"elapsed"`
}

// Session is one player's run of tries. It is not safe for concurrent use:
// the owner (a run-loop or a test) must serialize every call.
//
// Time only enters through Tick. Shoot arms an attempt and the next Tick
// fixes its launch instant, so a session never needs a clock of its own.
type Session struct {
	params Params

	state State
	score int
	tries int

	attempt       *ShotAttempt
	evaluator     *Evaluator
	launchPending bool
	launchedAt    time.Duration
	resolvedAt    time.Duration
	attemptNo     int

	ball     Vec3
	rotation Vec3

	history []AttemptResult
	outbox  []Transition
}

// NewSession returns an idle session for the given variant.
func NewSession(p Params) *Session {
	s := &Session{params: p}
	s.reset()
	s.state = StateIdle
	return s
}

func (s *Session) Params() Params {
	return s.params
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Score() int {
	return s.score
}

func (s *Session) TriesRemaining() int {
	return s.tries
}

// History returns the resolved attempts of the current run.
func (s *Session) History() []AttemptResult {
	out := make([]AttemptResult, len(s.history))
	copy(out, s.history)
	return out
}

// Ball returns the current ball position and cosmetic rotation.
func (s *Session) Ball() (Vec3, Vec3) {
	return s.ball, s.rotation
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Variant:        s.params.Name,
		State:          s.state,
		Score:          s.score,
		TriesRemaining: s.tries,
		MaxTries:       s.params.MaxTries,
		AttemptNumber:  s.attemptNo,
		Ball:           s.ball.Rounded(),
		Rotation:       s.rotation.Rounded(),
	}
	if s.attempt != nil {
		snap.Elapsed = fix(s.attempt.Elapsed)
	}
	return snap
}

// Start moves idle to aiming with a fresh score and the full try budget.
func (s *Session) Start() bool {
	if s.state != StateIdle {
		return false
	}
	s.reset()
	s.transition(StateAiming, nil)
	return true
}

// Restart abandons whatever is in progress and returns to idle.
func (s *Session) Restart() {
	from := s.state
	s.reset()
	if from != StateIdle {
		s.transition(StateIdle, nil)
	}
}

// Aim shows the drag in progress by pulling the ball back from its start.
func (s *Session) Aim(dragStart, dragCurrent Vec2) bool {
	if s.state != StateAiming {
		return false
	}
	s.ball = s.params.Start.Plus(vec3XY(s.params.AimOffset(dragStart, dragCurrent)))
	return true
}

// Shoot releases a drag. Outside aiming it is ignored; a zero-length drag
// gives zero velocity and neither launches nor consumes a try.
func (s *Session) Shoot(dragStart, dragEnd Vec2) bool {
	if s.state != StateAiming {
		return false
	}
	v := s.params.Velocity(dragStart, dragEnd)
	if v.IsZero() {
		s.ball = s.params.Start
		return false
	}
	from := s.params.Start.Plus(vec3XY(s.params.AimOffset(dragStart, dragEnd)))
	s.launch(from, v)
	return true
}

// Click is the simplified variant's shot: one click, launched from the start.
func (s *Session) Click(pointer Vec2) bool {
	if s.state != StateAiming {
		return false
	}
	v := s.params.ClickVelocity(pointer)
	if v.IsZero() {
		return false
	}
	s.launch(s.params.Start, v)
	return true
}

// Tick advances the session to now and returns every transition recorded
// since the previous Tick, including those caused by Start, Shoot or Restart.
func (s *Session) Tick(now time.Duration) []Transition {
	switch s.state {
	case StateShooting:
		s.fly(now)
	case StateScored, StateMissed:
		if now-s.resolvedAt >= s.params.DisplayDelayDuration() {
			s.finishAttempt()
		}
	}
	return s.Drain()
}

// Drain returns and clears the pending transitions.
func (s *Session) Drain() []Transition {
	if len(s.outbox) == 0 {
		return nil
	}
	out := s.outbox
	s.outbox = nil
	return out
}

func (s *Session) launch(from Vec3, v Vec2) {
	s.attemptNo++
	s.attempt = NewShotAttempt(from, v)
	s.evaluator = NewEvaluator(s.params.Target, s.params.MinFlight)
	s.launchPending = true
	s.ball = from
	s.rotation = Vec3{}
	s.transition(StateShooting, nil)
}

func (s *Session) fly(now time.Duration) {
	if s.launchPending {
		s.launchedAt = now
		s.launchPending = false
	}
	t := (now - s.launchedAt).Seconds()
	if t < 0 {
		t = 0
	}

	pos := s.attempt.Advance(t, s.params.Gravity)
	s.ball = pos
	s.rotation = s.attempt.RotationAt(t, s.params.SpinFactor)

	if s.evaluator.Evaluate(pos, t) {
		s.score++
		s.resolve(now, pos, t, MissNone)
		return
	}
	if reason := s.params.Termination(pos, t); reason != MissNone {
		s.resolve(now, pos, t, reason)
	}
}

func (s *Session) resolve(now time.Duration, pos Vec3, t float64, reason MissReason) {
	result := AttemptResult{
		Number:        s.attemptNo,
		Velocity:      s.attempt.Velocity,
		Scored:        reason == MissNone,
		Miss:          reason,
		FlightTime:    t,
		FinalPosition: pos,
	}
	s.history = append(s.history, result)
	s.resolvedAt = now

	to := StateMissed
	if result.Scored {
		to = StateScored
	}
	s.transition(to, &result)
}

// finishAttempt consumes the try. The continue/stop decision reads the count
// before the decrement: prev > 1 keeps playing.
func (s *Session) finishAttempt() {
	prev := s.tries
	s.tries--
	s.attempt = nil
	s.evaluator = nil
	s.ball = s.params.Start
	s.rotation = Vec3{}

	if prev > 1 {
		s.transition(StateAiming, nil)
		return
	}
	s.transition(StateGameOver, nil)
}

func (s *Session) reset() {
	s.score = 0
	s.tries = s.params.MaxTries
	s.attempt = nil
	s.evaluator = nil
	s.launchPending = false
	s.attemptNo = 0
	s.history = nil
	s.ball = s.params.Start
	s.rotation = Vec3{}
}

func (s *Session) transition(to State, result *AttemptResult) {
	t := Transition{
		From:           s.state,
		To:             to,
		Score:          s.score,
		TriesRemaining: s.tries,
		Attempt:        result,
	}
	s.state = to
	s.outbox = append(s.outbox, t)
}

func vec3XY(v Vec2) Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}
