package game

import (
	"math"
	"testing"
	"time"
)

const frame = time.Second / 60

// clock hands out monotonically increasing tick times.
type clock struct{ now time.Duration }

func (c *clock) next() time.Duration {
	c.now += frame
	return c.now
}

// tickUntil ticks until done reports true or the frame budget runs out, and
// returns every transition seen on the way.
func tickUntil(t *testing.T, s *Session, c *clock, done func(*Session) bool) []Transition {
	t.Helper()
	var seen []Transition
	for i := 0; i < 60*30; i++ {
		seen = append(seen, s.Tick(c.next())...)
		if done(s) {
			return seen
		}
	}
	t.Fatalf("session stuck in %s", s.State())
	return nil
}

func isState(want State) func(*Session) bool {
	return func(s *Session) bool { return s.State() == want }
}

func notResolved(s *Session) bool {
	return !s.State().Resolved() && s.State() != StateShooting
}

// verticalParams is a planar court with the hoop straight above the ball.
func verticalParams() Params {
	return Params{
		Name:            "vertical",
		BallRadius:      1,
		Start:           NewVec3(0, 0, 0),
		Target:          TargetRegion{Center: NewVec3(0, 8, 0), Radius: 2},
		MaxDrag:         2,
		DragScale:       5,
		AimPreviewScale: 0,
		ClickOrigin:     NewVec2(0, -1),
		Gravity:         -9.8 * 0.2,
		FloorY:          -3,
		FieldMinX:       -25,
		FieldMaxX:       25,
		MinFlight:       1,
		MaxFlight:       5,
		DisplayDelay:    1,
		MaxTries:        DefaultMaxTries,
		SpinFactor:      DefaultSpinFactor,
	}
}

// Drag that maps to (0, 10) under verticalParams.
var (
	upStart = NewVec2(0, 1)
	upEnd   = NewVec2(0, -1)
)

// Drag that sends the ball straight into the floor.
var (
	downStart = NewVec2(0, -0.5)
	downEnd   = NewVec2(0, 0.5)
)

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession(verticalParams())
	if s.State() != StateIdle || s.Score() != 0 || s.TriesRemaining() != DefaultMaxTries {
		t.Errorf("new session: state=%s score=%d tries=%d", s.State(), s.Score(), s.TriesRemaining())
	}
	if s.Shoot(upStart, upEnd) {
		t.Errorf("shoot accepted while idle")
	}
}

func TestStartResetsCounters(t *testing.T) {
	s := NewSession(verticalParams())
	if !s.Start() {
		t.Fatalf("Start refused from idle")
	}
	if s.State() != StateAiming || s.TriesRemaining() != 5 || s.Score() != 0 {
		t.Errorf("after start: state=%s tries=%d score=%d", s.State(), s.TriesRemaining(), s.Score())
	}
	if s.Start() {
		t.Errorf("Start accepted outside idle")
	}
}

func TestVerticalShotScoresInsideHoop(t *testing.T) {
	p := verticalParams()
	s := NewSession(p)
	c := &clock{}
	s.Start()

	if v := p.Velocity(upStart, upEnd); math.Abs(v.X) > eps || math.Abs(v.Y-10) > eps {
		t.Fatalf("drag maps to %v, want (0, 10)", v)
	}
	if !s.Shoot(upStart, upEnd) {
		t.Fatalf("shoot refused")
	}
	if s.State() != StateShooting {
		t.Fatalf("state=%s, want shooting", s.State())
	}

	tickUntil(t, s, c, func(s *Session) bool { return s.State() != StateShooting })
	if s.State() != StateScored {
		t.Fatalf("state=%s, want scored", s.State())
	}
	if s.Score() != 1 {
		t.Errorf("score=%d, want 1", s.Score())
	}

	hist := s.History()
	if len(hist) != 1 || !hist[0].Scored {
		t.Fatalf("history=%+v", hist)
	}
	pos := hist[0].FinalPosition
	if pos.Y < 6 || pos.Y > 10 || math.Abs(pos.X) > 2 {
		t.Errorf("scored at %v, want y in [6,10] and |x| <= 2", pos)
	}
	if hist[0].FlightTime <= p.MinFlight {
		t.Errorf("scored at t=%v, must exceed min flight %v", hist[0].FlightTime, p.MinFlight)
	}
}

func TestScoreCountsOncePerAttempt(t *testing.T) {
	// A huge hoop keeps the ball inside for the whole flight.
	p := verticalParams()
	p.Target.Radius = 100
	s := NewSession(p)
	c := &clock{}
	s.Start()
	s.Shoot(upStart, upEnd)

	scored := 0
	for i := 0; i < 60*4; i++ {
		for _, tr := range s.Tick(c.next()) {
			if tr.To == StateScored {
				scored++
			}
		}
		if s.State() == StateAiming {
			break
		}
	}
	if scored != 1 || s.Score() != 1 {
		t.Errorf("scored transitions=%d score=%d, want 1 and 1", scored, s.Score())
	}
}

func TestZeroDragDoesNotLaunch(t *testing.T) {
	s := NewSession(verticalParams())
	c := &clock{}
	s.Start()
	s.Drain()

	p := NewVec2(0.2, 0.2)
	if s.Shoot(p, p) {
		t.Errorf("zero drag accepted")
	}
	for i := 0; i < 10; i++ {
		if trs := s.Tick(c.next()); len(trs) != 0 {
			t.Fatalf("unexpected transitions %+v", trs)
		}
	}
	if s.State() != StateAiming || s.TriesRemaining() != 5 {
		t.Errorf("state=%s tries=%d, want aiming with 5 tries", s.State(), s.TriesRemaining())
	}
}

func TestFiveMissesEndTheGame(t *testing.T) {
	s := NewSession(verticalParams())
	c := &clock{}
	s.Start()
	s.Drain()

	var sequence []State
	for attempt := 1; attempt <= 5; attempt++ {
		if !s.Shoot(downStart, downEnd) {
			t.Fatalf("attempt %d: shoot refused in %s", attempt, s.State())
		}
		for _, tr := range tickUntil(t, s, c, notResolved) {
			sequence = append(sequence, tr.To)
		}
		if attempt < 5 && s.TriesRemaining() != 5-attempt {
			t.Errorf("after attempt %d tries=%d, want %d", attempt, s.TriesRemaining(), 5-attempt)
		}
	}

	if s.State() != StateGameOver || s.Score() != 0 || s.TriesRemaining() != 0 {
		t.Errorf("end: state=%s score=%d tries=%d", s.State(), s.Score(), s.TriesRemaining())
	}
	want := []State{
		StateShooting, StateMissed, StateAiming,
		StateShooting, StateMissed, StateAiming,
		StateShooting, StateMissed, StateAiming,
		StateShooting, StateMissed, StateAiming,
		StateShooting, StateMissed, StateGameOver,
	}
	if len(sequence) != len(want) {
		t.Fatalf("sequence=%v, want %v", sequence, want)
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Errorf("step %d: %s, want %s", i, sequence[i], want[i])
		}
	}
	if s.Shoot(upStart, upEnd) {
		t.Errorf("shoot accepted after game over")
	}
}

func TestTriesDropByOnePerResolvedAttempt(t *testing.T) {
	s := NewSession(verticalParams())
	c := &clock{}
	s.Start()

	prev := s.TriesRemaining()
	for attempt := 1; s.State() != StateGameOver; attempt++ {
		// Alternate makes and misses.
		if attempt%2 == 1 {
			s.Shoot(upStart, upEnd)
		} else {
			s.Shoot(downStart, downEnd)
		}
		tickUntil(t, s, c, notResolved)
		if got := s.TriesRemaining(); got != prev-1 {
			t.Fatalf("attempt %d: tries %d -> %d", attempt, prev, got)
		}
		prev = s.TriesRemaining()
		if attempt > DefaultMaxTries {
			t.Fatalf("more than %d attempts", DefaultMaxTries)
		}
	}
	if s.TriesRemaining() != 0 || s.Score() != 3 {
		t.Errorf("end: tries=%d score=%d, want 0 and 3", s.TriesRemaining(), s.Score())
	}
}

func TestDisplayDelayHoldsResult(t *testing.T) {
	p := verticalParams()
	s := NewSession(p)
	c := &clock{}
	s.Start()
	s.Shoot(downStart, downEnd)
	tickUntil(t, s, c, isState(StateMissed))
	resolvedAt := c.now

	for c.now+frame < resolvedAt+p.DisplayDelayDuration() {
		s.Tick(c.next())
		if s.State() != StateMissed {
			t.Fatalf("left missed after %v, before the display delay", c.now-resolvedAt)
		}
	}
	if s.TriesRemaining() != p.MaxTries {
		t.Errorf("try consumed during display: %d", s.TriesRemaining())
	}
	s.Tick(resolvedAt + p.DisplayDelayDuration())
	if s.State() != StateAiming || s.TriesRemaining() != p.MaxTries-1 {
		t.Errorf("after delay: state=%s tries=%d", s.State(), s.TriesRemaining())
	}
	if pos, _ := s.Ball(); pos != p.Start {
		t.Errorf("ball not reset: %v", pos)
	}
}

// The continue/stop check reads tries before the decrement. With one try left
// the session must end; with two it must offer exactly one more shot.
func TestContinuationReadsTriesBeforeDecrement(t *testing.T) {
	for _, tc := range []struct {
		maxTries int
		after    State
	}{
		{1, StateGameOver},
		{2, StateAiming},
	} {
		p := verticalParams()
		p.MaxTries = tc.maxTries
		s := NewSession(p)
		c := &clock{}
		s.Start()
		s.Shoot(downStart, downEnd)
		tickUntil(t, s, c, notResolved)
		if s.State() != tc.after {
			t.Errorf("max tries %d: state=%s, want %s", tc.maxTries, s.State(), tc.after)
		}
		if s.TriesRemaining() != tc.maxTries-1 {
			t.Errorf("max tries %d: tries=%d", tc.maxTries, s.TriesRemaining())
		}
	}
}

func TestShootIgnoredWhileInFlight(t *testing.T) {
	s := NewSession(verticalParams())
	c := &clock{}
	s.Start()
	s.Shoot(upStart, upEnd)
	s.Tick(c.next())
	if s.Shoot(upStart, upEnd) || s.Click(NewVec2(0, 1)) || s.Aim(upStart, upEnd) {
		t.Errorf("input accepted while shooting")
	}
}

func TestFirstTickFixesLaunchInstant(t *testing.T) {
	p := verticalParams()
	s := NewSession(p)
	s.Start()
	s.Shoot(upStart, upEnd)

	launch := 10 * time.Second
	s.Tick(launch)
	if pos, _ := s.Ball(); pos != p.Start {
		t.Errorf("ball moved on launch tick: %v", pos)
	}
	s.Tick(launch + 500*time.Millisecond)
	pos, rot := s.Ball()
	want := NewShotAttempt(p.Start, NewVec2(0, 10)).PositionAt(0.5, p.Gravity)
	if math.Abs(pos.Y-want.Y) > eps {
		t.Errorf("ball=%v, want %v", pos, want)
	}
	if rot.Z == 0 {
		t.Errorf("ball should spin while flying")
	}
}

func TestRestartReturnsToIdle(t *testing.T) {
	s := NewSession(verticalParams())
	c := &clock{}
	s.Start()
	s.Shoot(upStart, upEnd)
	tickUntil(t, s, c, isState(StateScored))

	s.Restart()
	trs := s.Drain()
	if len(trs) != 1 || trs[0].From != StateScored || trs[0].To != StateIdle {
		t.Errorf("restart transitions=%+v", trs)
	}
	if s.State() != StateIdle || s.Score() != 0 || s.TriesRemaining() != 5 || len(s.History()) != 0 {
		t.Errorf("after restart: state=%s score=%d tries=%d", s.State(), s.Score(), s.TriesRemaining())
	}
	if !s.Start() {
		t.Errorf("cannot start after restart")
	}
}

func TestRestartMidFlightStopsTheShot(t *testing.T) {
	p := verticalParams()
	s := NewSession(p)
	c := &clock{}
	s.Start()
	s.Shoot(upStart, upEnd)
	for i := 0; i < 10; i++ {
		s.Tick(c.next())
	}
	if s.State() != StateShooting {
		t.Fatalf("expected shooting, got %s", s.State())
	}
	if pos, _ := s.Ball(); pos == p.Start {
		t.Fatalf("ball never left the start")
	}

	s.Restart()
	trs := s.Drain()
	if len(trs) != 1 || trs[0].From != StateShooting || trs[0].To != StateIdle {
		t.Errorf("restart transitions=%+v", trs)
	}
	for i := 0; i < 5*60; i++ {
		if trs := s.Tick(c.next()); len(trs) != 0 {
			t.Fatalf("tick after restart produced %+v", trs)
		}
	}
	if pos, _ := s.Ball(); pos != p.Start {
		t.Errorf("ball=%v after restart, want %v", pos, p.Start)
	}
	if s.State() != StateIdle || s.Score() != 0 || s.TriesRemaining() != p.MaxTries || len(s.History()) != 0 {
		t.Errorf("after restart: state=%s score=%d tries=%d", s.State(), s.Score(), s.TriesRemaining())
	}
}

func TestTransitionsCarryCounters(t *testing.T) {
	s := NewSession(verticalParams())
	c := &clock{}
	s.Start()
	s.Drain()
	s.Shoot(upStart, upEnd)
	trs := tickUntil(t, s, c, notResolved)

	var scored, next *Transition
	for i := range trs {
		switch trs[i].To {
		case StateScored:
			scored = &trs[i]
		case StateAiming:
			next = &trs[i]
		}
	}
	if scored == nil || scored.Score != 1 || scored.Attempt == nil || !scored.Attempt.Scored {
		t.Fatalf("scored transition=%+v", scored)
	}
	if next == nil || next.TriesRemaining != 4 || next.Score != 1 {
		t.Errorf("aiming transition=%+v", next)
	}
}

func TestAimPullsBallBack(t *testing.T) {
	p := SlingshotParams()
	s := NewSession(p)
	s.Start()
	if !s.Aim(NewVec2(0, 0), NewVec2(-0.4, -0.2)) {
		t.Fatalf("aim refused")
	}
	pos, _ := s.Ball()
	if pos.X >= p.Start.X || pos.Y >= p.Start.Y {
		t.Errorf("ball %v should be pulled back from %v", pos, p.Start)
	}
}

func TestSlingshotCanReachHoop(t *testing.T) {
	p := SlingshotParams()
	s := NewSession(p)
	c := &clock{}
	s.Start()
	// (p0 - p1) * 5 = (7, 6.2)
	if !s.Shoot(NewVec2(0.7, 0.62), NewVec2(-0.7, -0.62)) {
		t.Fatalf("shoot refused")
	}
	tickUntil(t, s, c, func(s *Session) bool { return s.State() != StateShooting })
	if s.State() != StateScored {
		hist := s.History()
		t.Errorf("state=%s history=%+v", s.State(), hist)
	}
}

func TestArcadeClickScores(t *testing.T) {
	s := NewSession(ArcadeParams())
	c := &clock{}
	s.Start()
	if !s.Click(NewVec2(0, 1)) {
		t.Fatalf("click refused")
	}
	tickUntil(t, s, c, func(s *Session) bool { return s.State() != StateShooting })
	if s.State() != StateScored {
		t.Errorf("state=%s, want scored", s.State())
	}
}

func TestSnapshotReflectsSession(t *testing.T) {
	p := SlingshotParams()
	s := NewSession(p)
	s.Start()
	snap := s.Snapshot()
	if snap.Variant != VariantSlingshot || snap.State != StateAiming || snap.MaxTries != 5 || snap.TriesRemaining != 5 {
		t.Errorf("snapshot=%+v", snap)
	}
	if snap.Ball != p.Start {
		t.Errorf("snapshot ball=%v", snap.Ball)
	}
}
