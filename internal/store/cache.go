package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/redis/go-redis/v9"
)

// EventsChannel carries SessionEvent payloads between instances.
const EventsChannel = "session_events"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SessionEvent is published whenever a room records transitions or closes.
type SessionEvent struct {
	Type        string            `json:"type"`
	SessionID   string            `json:"session_id"`
	Snapshot    game.Snapshot     `json:"snapshot"`
	Transitions []game.Transition `json:"transitions,omitempty"`
}

const (
	EventTransition = "transition"
	EventClosed     = "closed"
)

// Cache keeps the latest snapshot of every session in redis so it can be
// read after the room is gone or from another instance.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func snapshotKey(sessionID string) string {
	return "session:" + sessionID + ":state"
}

func (c *Cache) SaveSnapshot(ctx context.Context, sessionID string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.rdb.SetEx(ctx, snapshotKey(sessionID), data, c.ttl).Err()
}

func (c *Cache) LoadSnapshot(ctx context.Context, sessionID string) (game.Snapshot, error) {
	var snap game.Snapshot
	data, err := c.rdb.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, ErrSnapshotNotFound
	}
	if err != nil {
		return snap, fmt.Errorf("load snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (c *Cache) Publish(ctx context.Context, ev SessionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return c.rdb.Publish(ctx, EventsChannel, data).Err()
}

// Subscribe returns decoded events until ctx is cancelled. Malformed payloads
// are skipped.
func (c *Cache) Subscribe(ctx context.Context) <-chan SessionEvent {
	pubsub := c.rdb.Subscribe(ctx, EventsChannel)
	out := make(chan SessionEvent, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				ev, err := DecodeEvent(msg.Payload)
				if err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func DecodeEvent(payload string) (SessionEvent, error) {
	var ev SessionEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("invalid event payload: %w", err)
	}
	if ev.SessionID == "" {
		return ev, errors.New("invalid event payload: missing session_id")
	}
	return ev, nil
}
