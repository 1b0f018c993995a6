// Package viewstate keeps per-browser view instance state in memory.
//
// Each browser carries one instance id cookie. Every view owns its own Store,
// so the same id maps to independent state per view.
package viewstate

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/userdesk/internal/services/web/platform/requestmeta"
)

// CookieName carries the view instance id.
const CookieName = "ud_view"

const defaultTTL = 30 * time.Minute

// DefaultMaxEntries caps live instances per store. Creating one past the cap
// evicts the least recently seen instance.
const DefaultMaxEntries = 10000

type entry[T any] struct {
	state    *T
	lastSeen time.Time
}

// Store maps instance ids to view state and evicts idle instances.
type Store[T any] struct {
	mu         sync.Mutex
	entries    map[string]*entry[T]
	ttl        time.Duration
	maxEntries int
	newState   func() *T
	now        func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// New builds a store whose janitor evicts instances idle longer than ttl.
// Call Close to stop the janitor.
func New[T any](ttl time.Duration, newState func() *T) *Store[T] {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if newState == nil {
		newState = func() *T { return new(T) }
	}
	s := &Store[T]{
		entries:    make(map[string]*entry[T]),
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		newState:   newState,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	interval := ttl / 2
	if interval > time.Minute {
		interval = time.Minute
	}
	go s.janitor(interval)
	return s
}

// Get returns the state for id when it exists.
func (s *Store[T]) Get(id string) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.state, true
}

// GetOrCreate returns the state for id, creating it on first use. The bool
// reports whether the state was created by this call.
func (s *Store[T]) GetOrCreate(id string) (*T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[id]; ok {
		e.lastSeen = now
		return e.state, false
	}
	for len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	state := s.newState()
	s.entries[id] = &entry[T]{state: state, lastSeen: now}
	return state, true
}

// setMaxEntries changes the live instance cap. Values below one are ignored.
func (s *Store[T]) setMaxEntries(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxEntries = n
	for len(s.entries) > s.maxEntries {
		s.evictOldestLocked()
	}
}

func (s *Store[T]) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
		found    bool
	)
	for id, e := range s.entries {
		if !found || e.lastSeen.Before(oldest) {
			oldestID, oldest, found = id, e.lastSeen, true
		}
	}
	if found {
		delete(s.entries, oldestID)
	}
}

// Len returns the number of live instances.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts instances idle longer than the ttl.
func (s *Store[T]) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

// Close stops the janitor. State stays readable.
func (s *Store[T]) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Store[T]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// ExistingID returns the view instance id the request carries, if it carries
// a well-formed one.
func ExistingID(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	parsed, err := uuid.Parse(strings.TrimSpace(c.Value))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// InstanceID returns the request's view instance id, issuing a new cookie
// when the request has none or carries a malformed one.
func InstanceID(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) string {
	if id, ok := ExistingID(r); ok {
		return id
	}
	id := uuid.NewString()
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   requestmeta.IsHTTPS(r, policy),
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id
}
