package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

func newTestUI(t *testing.T, params game.Params, click bool) *ui {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 24)

	var now atomic.Int64
	clock := func() time.Duration { return time.Duration(now.Add(int64(20 * time.Millisecond))) }

	f := &feed{}
	r := room.New("local", "tester", params, f, room.Options{TickHz: 500, BroadcastEvery: 1, Clock: clock})
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-r.Done()
		screen.Fini()
	})

	u := &ui{
		screen: screen,
		room:   r,
		params: params,
		feed:   f,
		sounds: newSoundboard(true),
		player: "tester",
		click:  click,
	}
	u.resize()
	waitState(t, u, game.StateIdle)
	return u
}

// waitState pumps updates until the snapshot reaches want.
func waitState(t *testing.T, u *ui, want game.State) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		u.update()
		if u.snap.State == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("state %s never reached, last %s", want, u.snap.State)
}

func TestDragShootsInSlingshot(t *testing.T) {
	u := newTestUI(t, game.SlingshotParams(), false)

	u.handleMouse(true, game.NewVec2(0, 0))
	u.handleMouse(false, game.NewVec2(0, 0))
	waitState(t, u, game.StateAiming)

	u.handleMouse(true, game.NewVec2(0.2, 0.2))
	u.handleMouse(true, game.NewVec2(-0.4, -0.3))
	if !u.dragging {
		t.Fatalf("expected a drag in progress")
	}
	u.draw()
	u.handleMouse(false, game.NewVec2(-0.4, -0.3))
	if u.dragging {
		t.Errorf("release should end the drag")
	}
	waitState(t, u, game.StateShooting)
}

func TestClickShootsInArcade(t *testing.T) {
	u := newTestUI(t, game.ArcadeParams(), true)

	u.startOrRestart()
	waitState(t, u, game.StateAiming)

	u.handleMouse(true, game.NewVec2(0, 0.6))
	if u.dragging {
		t.Errorf("click mode never drags")
	}
	u.handleMouse(false, game.NewVec2(0, 0.6))
	waitState(t, u, game.StateShooting)
}

func TestGameOverIsReported(t *testing.T) {
	params := game.ArcadeParams()
	params.MaxTries = 1
	u := newTestUI(t, params, true)

	u.startOrRestart()
	waitState(t, u, game.StateAiming)
	// A flat shot to the right lands on the floor.
	u.handleMouse(true, game.NewVec2(0.9, -0.9))
	u.handleMouse(false, game.NewVec2(0.9, -0.9))
	waitState(t, u, game.StateGameOver)

	if u.message == "" {
		t.Errorf("expected a game over message")
	}
	u.draw()
}
