package room

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/playmatatu/hoopshot/internal/game"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomClosed     = errors.New("room is closed")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrTooManyRooms   = errors.New("too many live rooms")
)

// Commands accepted on the inbox. Every command carries its own reply channel.
type (
	startCmd   struct{ reply chan bool }
	restartCmd struct{ reply chan bool }
	aimCmd     struct {
		start, current game.Vec2
		reply          chan bool
	}
	shootCmd struct {
		start, end game.Vec2
		reply      chan bool
	}
	clickCmd struct {
		pointer game.Vec2
		reply   chan bool
	}
	snapshotCmd struct{ reply chan game.Snapshot }
)

// Options tune a room's run-loop.
type Options struct {
	TickHz         int
	BroadcastEvery int
	Clock          Clock
}

// Room owns one game.Session and drives it from a single goroutine. All
// access to the session goes through the inbox.
type Room struct {
	ID         string
	Variant    string
	PlayerName string
	CreatedAt  time.Time

	Inbox chan any

	session        *game.Session
	loop           *Loop
	observer       Observer
	broadcastEvery int
	frames         int
	lastActivity   atomic.Int64
}

func New(id, playerName string, params game.Params, observer Observer, opts Options) *Room {
	broadcastEvery := opts.BroadcastEvery
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	if observer == nil {
		observer = NopObserver{}
	}
	r := &Room{
		ID:             id,
		Variant:        params.Name,
		PlayerName:     playerName,
		CreatedAt:      time.Now(),
		Inbox:          make(chan any, 64),
		session:        game.NewSession(params),
		loop:           NewLoop(opts.TickHz, opts.Clock),
		observer:       observer,
		broadcastEvery: broadcastEvery,
	}
	r.touch()
	return r
}

// Run drives the session until ctx is cancelled or Stop is called, then
// reports the final snapshot to the observer.
func (r *Room) Run(ctx context.Context) {
	r.observer.RoomOpened(r.info(r.session.Snapshot()))
	r.loop.Run(ctx, r.Inbox, r.handleCommand, r.frame)

	snap := r.session.Snapshot()
	r.observer.RoomClosed(r.ID, snap)
	log.Printf("[ROOM] %s closed in state %s (score=%d tries=%d)", r.ID, snap.State, snap.Score, snap.TriesRemaining)
}

func (r *Room) Stop() {
	r.loop.Stop()
}

// Done is closed when Run has returned.
func (r *Room) Done() <-chan struct{} {
	return r.loop.Done()
}

func (r *Room) LastActivity() time.Time {
	return time.Unix(0, r.lastActivity.Load())
}

func (r *Room) Start(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	return r.ask(ctx, startCmd{reply: reply}, reply)
}

func (r *Room) Restart(ctx context.Context) (bool, error) {
	reply := make(chan bool, 1)
	return r.ask(ctx, restartCmd{reply: reply}, reply)
}

func (r *Room) Aim(ctx context.Context, start, current game.Vec2) (bool, error) {
	reply := make(chan bool, 1)
	return r.ask(ctx, aimCmd{start: start, current: current, reply: reply}, reply)
}

func (r *Room) Shoot(ctx context.Context, start, end game.Vec2) (bool, error) {
	reply := make(chan bool, 1)
	return r.ask(ctx, shootCmd{start: start, end: end, reply: reply}, reply)
}

func (r *Room) Click(ctx context.Context, pointer game.Vec2) (bool, error) {
	reply := make(chan bool, 1)
	return r.ask(ctx, clickCmd{pointer: pointer, reply: reply}, reply)
}

func (r *Room) Snapshot(ctx context.Context) (game.Snapshot, error) {
	reply := make(chan game.Snapshot, 1)
	select {
	case r.Inbox <- snapshotCmd{reply: reply}:
	case <-r.Done():
		return game.Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-r.Done():
		return game.Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

func (r *Room) ask(ctx context.Context, cmd any, reply chan bool) (bool, error) {
	select {
	case r.Inbox <- cmd:
	case <-r.Done():
		return false, ErrRoomClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-reply:
		return ok, nil
	case <-r.Done():
		return false, ErrRoomClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case startCmd:
		r.touch()
		c.reply <- r.session.Start()
	case restartCmd:
		r.touch()
		r.session.Restart()
		c.reply <- true
	case aimCmd:
		r.touch()
		c.reply <- r.session.Aim(c.start, c.current)
	case shootCmd:
		r.touch()
		c.reply <- r.session.Shoot(c.start, c.end)
	case clickCmd:
		r.touch()
		c.reply <- r.session.Click(c.pointer)
	case snapshotCmd:
		c.reply <- r.session.Snapshot()
	default:
		log.Printf("[ROOM] %s ignoring unknown command %T", r.ID, cmd)
	}
}

func (r *Room) frame(now time.Duration) {
	r.frames++
	trs := r.session.Tick(now)
	if len(trs) > 0 {
		r.observer.Transitions(r.ID, r.session.Snapshot(), trs)
	}
	if r.frames%r.broadcastEvery == 0 {
		r.observer.Frame(r.ID, r.session.Snapshot())
	}
}

func (r *Room) touch() {
	r.lastActivity.Store(time.Now().UnixNano())
}

func (r *Room) info(snap game.Snapshot) Info {
	return Info{
		ID:           r.ID,
		Variant:      r.Variant,
		PlayerName:   r.PlayerName,
		CreatedAt:    r.CreatedAt,
		LastActivity: r.LastActivity(),
		Snapshot:     snap,
	}
}
