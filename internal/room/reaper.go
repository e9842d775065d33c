package room

import (
	"context"
	"log"
	"time"
)

// StartReaper starts a background worker that closes rooms nobody has
// touched for idleFor. It stops when ctx is cancelled.
func (m *Manager) StartReaper(ctx context.Context, interval, idleFor time.Duration) {
	if interval <= 0 || idleFor <= 0 {
		log.Println("[REAPER] Interval or idle timeout not set; reaper not started")
		return
	}

	log.Printf("[REAPER] Reaper started (interval=%s idle=%s)", interval, idleFor)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Reaper stopping")
				return
			case <-ticker.C:
				m.reap(time.Now().Add(-idleFor))
			}
		}
	}()
}

// reap closes every room idle since before cutoff and returns how many.
func (m *Manager) reap(cutoff time.Time) int {
	closed := 0
	for _, id := range m.idleRooms(cutoff) {
		if err := m.Close(id); err != nil {
			// Closed concurrently by an admin or the room itself.
			continue
		}
		closed++
		log.Printf("[REAPER] Closed idle room %s", id)
	}
	return closed
}
