package cache

import (
	"sync"
	"time"
)

// Clock abstracts wall time so the limiter can be tested without sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the real wall clock.
var SystemClock Clock = systemClock{}

// Limiter enforces a minimum interval between provider requests. Only calls
// that actually reach the provider go through it; cache and store hits never
// wait.
type Limiter struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	last     time.Time
}

// NewLimiter builds a limiter with the given minimum inter-request interval.
// A non-positive interval disables throttling.
func NewLimiter(interval time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock
	}
	return &Limiter{clock: clock, interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous Wait returned, then stamps the current time.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if l.interval > 0 && !l.last.IsZero() {
		if wait := l.interval - now.Sub(l.last); wait > 0 {
			l.clock.Sleep(wait)
			now = now.Add(wait)
		}
	}
	l.last = now
}
