// Package ratelimit provides keyed token-bucket limiters.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultStaleAfter    = 10 * time.Minute
	defaultSweepInterval = time.Minute
)

// Config configures a keyed limiter. A non-positive Rate disables limiting.
type Config struct {
	Rate       float64
	Burst      int
	StaleAfter time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed tracks one token bucket per key (usually a client IP).
type Keyed struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	limit      rate.Limit
	burst      int
	staleAfter time.Duration
	now        func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New builds a keyed limiter and starts its janitor. Call Close to stop it.
func New(cfg Config) *Keyed {
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	k := &Keyed{
		entries:    make(map[string]*limiterEntry),
		limit:      limit,
		burst:      burst,
		staleAfter: staleAfter,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go k.janitor(defaultSweepInterval)
	return k
}

// Allow reports whether one more event for key fits in its bucket.
func (k *Keyed) Allow(key string) bool {
	if k == nil || k.limit == rate.Inf {
		return true
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	entry, ok := k.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	if k == nil {
		return 0
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// Sweep drops keys idle for longer than the stale window.
func (k *Keyed) Sweep() {
	if k == nil {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	cutoff := k.now().Add(-k.staleAfter)
	for key, entry := range k.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(k.entries, key)
		}
	}
}

// Close stops the janitor.
func (k *Keyed) Close() {
	if k == nil {
		return
	}
	k.stopOnce.Do(func() { close(k.stop) })
}

func (k *Keyed) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.Sweep()
		}
	}
}
