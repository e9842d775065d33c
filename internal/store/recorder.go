package store

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

const writeTimeout = 5 * time.Second

type job func(ctx context.Context)

// Recorder persists what rooms report. Writes are queued and applied by a
// single worker so the room loops never wait on postgres or redis; when the
// queue is full the write is dropped and logged.
//
// Either db or cache may be nil, in which case that half is skipped.
type Recorder struct {
	room.NopObserver

	db    *sqlx.DB
	cache *Cache
	jobs  chan job
	done  chan struct{}

	dropped atomic.Int64
}

func NewRecorder(db *sqlx.DB, cache *Cache, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Recorder{db: db, cache: cache, jobs: make(chan job, queueSize), done: make(chan struct{})}
}

// Start runs the write worker until ctx is cancelled, then drains what is
// already queued.
func (r *Recorder) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		log.Println("[DB] Recorder started")
		for {
			select {
			case <-ctx.Done():
				r.drain()
				log.Println("[DB] Recorder stopped")
				return
			case j := <-r.jobs:
				r.run(j)
			}
		}
	}()
}

func (r *Recorder) drain() {
	for {
		select {
		case j := <-r.jobs:
			r.run(j)
		default:
			return
		}
	}
}

func (r *Recorder) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	j(ctx)
}

// Done is closed once the worker started by Start has exited.
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

// Dropped reports how many writes were discarded because the queue was full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) enqueue(j job) bool {
	select {
	case r.jobs <- j:
		return true
	default:
		n := r.dropped.Add(1)
		log.Printf("[DB] Recorder queue full; dropped write (total dropped=%d)", n)
		return false
	}
}

func (r *Recorder) RoomOpened(info room.Info) {
	r.enqueue(func(ctx context.Context) {
		r.insertSession(ctx, info)
		r.saveSnapshot(ctx, info.ID, info.Snapshot)
	})
}

func (r *Recorder) Transitions(roomID string, snap game.Snapshot, trs []game.Transition) {
	r.enqueue(func(ctx context.Context) {
		for _, tr := range trs {
			switch {
			case tr.To == game.StateIdle:
				r.clearAttempts(ctx, roomID)
			case tr.Attempt != nil && tr.To.Resolved():
				r.insertAttempt(ctx, roomID, *tr.Attempt)
			}
		}
		r.updateSession(ctx, roomID, snap)
		r.saveSnapshot(ctx, roomID, snap)
		r.publish(ctx, SessionEvent{Type: EventTransition, SessionID: roomID, Snapshot: snap, Transitions: trs})
	})
}

func (r *Recorder) RoomClosed(roomID string, snap game.Snapshot) {
	r.enqueue(func(ctx context.Context) {
		r.updateSession(ctx, roomID, snap)
		r.saveSnapshot(ctx, roomID, snap)
		r.publish(ctx, SessionEvent{Type: EventClosed, SessionID: roomID, Snapshot: snap})
	})
}

func (r *Recorder) insertSession(ctx context.Context, info room.Info) {
	if r.db == nil {
		return
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, variant, player_name, state, score, tries_remaining, max_tries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO NOTHING
	`, info.ID, info.Variant, info.PlayerName, string(info.Snapshot.State),
		info.Snapshot.Score, info.Snapshot.TriesRemaining, info.Snapshot.MaxTries, info.CreatedAt)
	if err != nil {
		log.Printf("[DB] Failed to insert session %s: %v", info.ID, err)
	}
}

func (r *Recorder) updateSession(ctx context.Context, id string, snap game.Snapshot) {
	if r.db == nil {
		return
	}
	// finished_at is set the first time the session reaches gameOver and
	// cleared again by a restart.
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			state = $2,
			score = $3,
			tries_remaining = $4,
			updated_at = NOW(),
			finished_at = CASE
				WHEN $2::text = 'gameOver' THEN COALESCE(finished_at, NOW())
				WHEN $2::text IN ('idle', 'aiming') THEN NULL
				ELSE finished_at
			END
		WHERE id = $1
	`, id, string(snap.State), snap.Score, snap.TriesRemaining)
	if err != nil {
		log.Printf("[DB] Failed to update session %s: %v", id, err)
	}
}

func (r *Recorder) insertAttempt(ctx context.Context, id string, a game.AttemptResult) {
	if r.db == nil {
		return
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shot_attempts (session_id, attempt_number, velocity_x, velocity_y, scored, miss_reason, flight_time, final_x, final_y, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (session_id, attempt_number) DO NOTHING
	`, id, a.Number, a.Velocity.X, a.Velocity.Y, a.Scored, string(a.Miss), a.FlightTime, a.FinalPosition.X, a.FinalPosition.Y)
	if err != nil {
		log.Printf("[DB] Failed to record attempt %d for session %s: %v", a.Number, id, err)
	}
}

// clearAttempts forgets the attempts of a run abandoned by a restart.
func (r *Recorder) clearAttempts(ctx context.Context, id string) {
	if r.db == nil {
		return
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shot_attempts WHERE session_id = $1`, id); err != nil {
		log.Printf("[DB] Failed to clear attempts for session %s: %v", id, err)
	}
}

func (r *Recorder) saveSnapshot(ctx context.Context, id string, snap game.Snapshot) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SaveSnapshot(ctx, id, snap); err != nil {
		log.Printf("[REDIS] Failed to cache snapshot for %s: %v", id, err)
	}
}

func (r *Recorder) publish(ctx context.Context, ev SessionEvent) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Publish(ctx, ev); err != nil {
		log.Printf("[REDIS] Failed to publish %s event for %s: %v", ev.Type, ev.SessionID, err)
	}
}
