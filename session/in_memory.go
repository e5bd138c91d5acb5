package session

import (
	"sync"
	"time"

	"github.com/hupe1980/shipmesh/core"
)

// DefaultTTL is how long an untouched session context survives before the
// sweep evicts it.
const DefaultTTL = time.Hour

// entry pairs a stored context with the time it was last read or written.
type entry struct {
	ctx        *core.Context
	lastAccess time.Time
}

// InMemoryStore is a volatile core.SessionStore implementation keeping
// conversation contexts in a process local map. It is safe for concurrent
// access from request handlers and a background sweep. Contexts are stored
// and returned by reference; the store never inspects their contents.
//
// A single mutex guards the whole map. Contention is one entry per chat
// turn, so finer grained locking buys nothing here.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[core.SessionKey]*entry
	now     func() time.Time
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[core.SessionKey]*entry), now: time.Now}
}

// Get returns the existing context for key or lazily creates an empty one.
// Either way the entry's last-access time is refreshed.
func (s *InMemoryStore) Get(key core.SessionKey) (*core.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.lastAccess = s.now()
		return e.ctx, nil
	}
	e := &entry{ctx: core.NewContext(), lastAccess: s.now()}
	s.entries[key] = e
	return e.ctx, nil
}

// Update replaces the stored context for key, creating the entry if absent.
func (s *InMemoryStore) Update(key core.SessionKey, ctx *core.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{ctx: ctx, lastAccess: s.now()}
	return nil
}

// Delete removes the entry for key if present; a no-op otherwise.
func (s *InMemoryStore) Delete(key core.SessionKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Cleanup removes every entry whose last access is older than ttl and
// returns the count removed. The freshness check happens under the same
// lock as the delete, so an entry touched while the sweep runs is never
// evicted against its latest access time.
func (s *InMemoryStore) Cleanup(ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	evicted := 0
	for key, e := range s.entries {
		if now.Sub(e.lastAccess) > ttl {
			delete(s.entries, key)
			evicted++
		}
	}
	return evicted, nil
}

// Keys returns a snapshot of the currently held session keys.
func (s *InMemoryStore) Keys() ([]core.SessionKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]core.SessionKey, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys, nil
}

// Len returns the number of stored entries.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
