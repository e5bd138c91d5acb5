package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/shipmesh/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

// fakeClock lets tests drive the store's notion of time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*InMemoryStore, *fakeClock) {
	s := NewInMemoryStore()
	clock := newFakeClock()
	s.now = clock.Now
	return s, clock
}

func TestInMemoryStore_CreateOnMiss(t *testing.T) {
	s, _ := newTestStore()
	key := core.SessionKey{UserID: "u1", SessionID: "s1"}

	first, err := s.Get(key)
	if err != nil || first == nil {
		t.Fatalf("Get should create a context, got ctx=%v err=%v", first, err)
	}

	second, _ := s.Get(key)
	if first != second {
		t.Error("second Get should return the same context, not a fresh one")
	}
	if s.Len() != 1 {
		t.Errorf("expected exactly one entry, got %d", s.Len())
	}
}

func TestInMemoryStore_UpdatePersists(t *testing.T) {
	s, _ := newTestStore()
	key := core.SessionKey{UserID: "u1", SessionID: "s1"}

	ctx := core.NewContext()
	ctx.Append(core.NewUserMessage("rate shop order ORD-1"))
	if err := s.Update(key, ctx); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(key)
	if got != ctx {
		t.Error("Get after Update should return the updated context")
	}
}

func TestInMemoryStore_TTLEviction(t *testing.T) {
	s, clock := newTestStore()
	key := core.SessionKey{UserID: "u1", SessionID: "s1"}
	ttl := time.Hour

	if _, err := s.Get(key); err != nil {
		t.Fatal(err)
	}

	// Just inside the TTL: nothing to evict.
	clock.Advance(ttl - time.Second)
	if evicted, _ := s.Cleanup(ttl); evicted != 0 {
		t.Fatalf("entry inside TTL evicted (count=%d)", evicted)
	}

	// Past the TTL: gone.
	clock.Advance(2 * time.Second)
	if evicted, _ := s.Cleanup(ttl); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if s.Len() != 0 {
		t.Error("entry should be removed after eviction")
	}
}

func TestInMemoryStore_AccessRefreshesTTL(t *testing.T) {
	s, clock := newTestStore()
	key := core.SessionKey{UserID: "u1", SessionID: "s1"}
	ttl := time.Hour

	if _, err := s.Get(key); err != nil {
		t.Fatal(err)
	}

	// Touch the entry halfway through its lifetime.
	clock.Advance(30 * time.Minute)
	if _, err := s.Get(key); err != nil {
		t.Fatal(err)
	}

	// Past the original deadline but within the refreshed one.
	clock.Advance(45 * time.Minute)
	if evicted, _ := s.Cleanup(ttl); evicted != 0 {
		t.Fatalf("refreshed entry evicted (count=%d)", evicted)
	}

	// Update refreshes too.
	clock.Advance(30 * time.Minute)
	if err := s.Update(key, core.NewContext()); err != nil {
		t.Fatal(err)
	}
	clock.Advance(45 * time.Minute)
	if evicted, _ := s.Cleanup(ttl); evicted != 0 {
		t.Fatalf("updated entry evicted (count=%d)", evicted)
	}
}

func TestInMemoryStore_IdempotentDelete(t *testing.T) {
	s, _ := newTestStore()
	key := core.SessionKey{UserID: "u1", SessionID: "s1"}

	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete on absent key: %v", err)
	}

	if _, err := s.Get(key); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if s.Len() != 0 {
		t.Error("store should be empty after delete")
	}
}

func TestInMemoryStore_KeysSnapshot(t *testing.T) {
	s, _ := newTestStore()
	k1 := core.SessionKey{UserID: "u1", SessionID: "s1"}
	k2 := core.SessionKey{UserID: "u2", SessionID: "s2"}
	_, _ = s.Get(k1)
	_, _ = s.Get(k2)

	keys, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	seen := map[core.SessionKey]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen[k1] || !seen[k2] {
		t.Errorf("snapshot missing keys: %v", keys)
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewInMemoryStore()
	keys := []core.SessionKey{
		{UserID: "u1", SessionID: "a"},
		{UserID: "u1", SessionID: "b"},
		{UserID: "u2", SessionID: "a"},
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := keys[(g+i)%len(keys)]
				switch i % 4 {
				case 0:
					if _, err := s.Get(key); err != nil {
						t.Errorf("Get: %v", err)
					}
				case 1:
					ctx := core.NewContext()
					ctx.Append(core.NewUserMessage("msg"))
					if err := s.Update(key, ctx); err != nil {
						t.Errorf("Update: %v", err)
					}
				case 2:
					if err := s.Delete(key); err != nil {
						t.Errorf("Delete: %v", err)
					}
				case 3:
					if _, err := s.Cleanup(time.Nanosecond); err != nil {
						t.Errorf("Cleanup: %v", err)
					}
				}
			}
		}(g)
	}
	wg.Wait()

	// Every surviving key must map to a usable context.
	remaining, err := s.Keys()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range remaining {
		if ctx, err := s.Get(key); err != nil || ctx == nil {
			t.Errorf("inconsistent entry for %v: ctx=%v err=%v", key, ctx, err)
		}
	}
}

func TestSweeper_EvictsOnTick(t *testing.T) {
	s, clock := newTestStore()
	key := core.SessionKey{UserID: "u1", SessionID: "s1"}
	if _, err := s.Get(key); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Hour)

	sw := NewSweeper(s, func(o *SweeperOptions) {
		o.TTL = time.Hour
		o.Interval = 5 * time.Millisecond
	})
	sw.Start(context.Background())
	defer sw.Stop()

	deadline := time.After(2 * time.Second)
	for s.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not evict the stale entry in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
