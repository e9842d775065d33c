package store

import (
	"context"
	"testing"
	"time"

	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-1: 10, 0: 10, 1: 1, 25: 25, 100: 100, 5000: 100}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSnapshotKey(t *testing.T) {
	if got := snapshotKey("abc"); got != "session:abc:state" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent(`{"type":"transition","session_id":"s1","snapshot":{"state":"scored","score":1},"transitions":[{"from":"shooting","to":"scored","score":1,"tries_remaining":5}]}`)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.SessionID != "s1" || ev.Snapshot.State != game.StateScored || len(ev.Transitions) != 1 {
		t.Errorf("unexpected event %+v", ev)
	}

	if _, err := DecodeEvent(`{"type":"transition"}`); err == nil {
		t.Error("expected error for missing session_id")
	}
	if _, err := DecodeEvent(`not json`); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestRecorderDropsWhenQueueFull(t *testing.T) {
	r := NewRecorder(nil, nil, 1)

	r.RoomOpened(room.Info{ID: "a"})
	r.RoomClosed("a", game.Snapshot{})
	r.Frame("a", game.Snapshot{})

	if r.Dropped() != 1 {
		t.Errorf("expected 1 dropped write, got %d", r.Dropped())
	}
}

func TestRecorderDrainsOnStop(t *testing.T) {
	r := NewRecorder(nil, nil, 8)
	for i := 0; i < 5; i++ {
		r.Transitions("a", game.Snapshot{}, []game.Transition{{From: game.StateAiming, To: game.StateShooting}})
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("recorder did not stop")
	}
	if len(r.jobs) != 0 {
		t.Errorf("expected queue drained, %d jobs left", len(r.jobs))
	}
	if r.Dropped() != 0 {
		t.Errorf("expected no drops, got %d", r.Dropped())
	}
}
