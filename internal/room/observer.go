package room

import (
	"time"

	"github.com/playmatatu/hoopshot/internal/game"
)

// Info describes a live room.
type Info struct {
	ID           string        `json:"id"`
	Variant      string        `json:"variant"`
	PlayerName   string        `json:"player_name"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	Snapshot     game.Snapshot `json:"snapshot"`
}

// Observer receives everything a room produces. Calls are made from the
// room's loop goroutine and must not block for long.
type Observer interface {
	RoomOpened(info Info)
	Frame(roomID string, snap game.Snapshot)
	Transitions(roomID string, snap game.Snapshot, trs []game.Transition)
	RoomClosed(roomID string, snap game.Snapshot)
}

// NopObserver can be embedded to implement only the callbacks you need.
type NopObserver struct{}

func (NopObserver) RoomOpened(Info)                                      {}
func (NopObserver) Frame(string, game.Snapshot)                          {}
func (NopObserver) Transitions(string, game.Snapshot, []game.Transition) {}
func (NopObserver) RoomClosed(string, game.Snapshot)                     {}

// Observers fans every callback out in order.
type Observers []Observer

func (obs Observers) RoomOpened(info Info) {
	for _, o := range obs {
		o.RoomOpened(info)
	}
}

func (obs Observers) Frame(roomID string, snap game.Snapshot) {
	for _, o := range obs {
		o.Frame(roomID, snap)
	}
}

func (obs Observers) Transitions(roomID string, snap game.Snapshot, trs []game.Transition) {
	for _, o := range obs {
		o.Transitions(roomID, snap, trs)
	}
}

func (obs Observers) RoomClosed(roomID string, snap game.Snapshot) {
	for _, o := range obs {
		o.RoomClosed(roomID, snap)
	}
}
