package room

import (
	"context"
	"sync"
	"time"
)

// Clock returns the time elapsed since a fixed origin.
type Clock func() time.Duration

// MonotonicClock measures from the moment it is created.
func MonotonicClock() Clock {
	origin := time.Now()
	return func() time.Duration { return time.Since(origin) }
}

// Loop is a frame scheduler. Each frame reads the clock and calls the frame
// callback; commands arriving on the inbox are handled between frames on the
// same goroutine, so callbacks never race each other.
type Loop struct {
	interval time.Duration
	clock    Clock

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewLoop(hz int, clock Clock) *Loop {
	if hz <= 0 {
		hz = 60
	}
	if clock == nil {
		clock = MonotonicClock()
	}
	return &Loop{
		interval: time.Second / time.Duration(hz),
		clock:    clock,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called. No callback runs after
// Run returns.
func (l *Loop) Run(ctx context.Context, inbox <-chan any, handle func(any), frame func(now time.Duration)) {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.quit:
			return
		case cmd := <-inbox:
			handle(cmd)
		case <-ticker.C:
			// A stop that raced the tick wins.
			select {
			case <-l.quit:
				return
			case <-ctx.Done():
				return
			default:
			}
			frame(l.clock())
		}
	}
}

// Stop ends Run. Safe to call more than once and before Run starts.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.quit) })
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) Interval() time.Duration {
	return l.interval
}
