package main

import (
	"sync"

	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

// feed collects what the local room reports so the draw loop can pick it up
// on its own schedule. Frames overwrite each other; transitions queue.
type feed struct {
	room.NopObserver

	mu      sync.Mutex
	snap    game.Snapshot
	pending []game.Transition
}

func (f *feed) RoomOpened(info room.Info) {
	f.mu.Lock()
	f.snap = info.Snapshot
	f.mu.Unlock()
}

func (f *feed) Frame(_ string, snap game.Snapshot) {
	f.mu.Lock()
	f.snap = snap
	f.mu.Unlock()
}

func (f *feed) Transitions(_ string, snap game.Snapshot, trs []game.Transition) {
	f.mu.Lock()
	f.snap = snap
	f.pending = append(f.pending, trs...)
	f.mu.Unlock()
}

func (f *feed) RoomClosed(_ string, snap game.Snapshot) {
	f.mu.Lock()
	f.snap = snap
	f.mu.Unlock()
}

// take returns the latest snapshot and the transitions since the last call.
func (f *feed) take() (game.Snapshot, []game.Transition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	trs := f.pending
	f.pending = nil
	return f.snap, trs
}
