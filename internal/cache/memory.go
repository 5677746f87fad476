package cache

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/cinema-marathon-planner/internal/model"
)

// MemoryStore is an in-process Store.  Each Put arms a timer that removes
// the entry once its TTL elapses, so memory stays bounded without any
// external sweep; Get also checks expiry so a late timer never serves a
// stale entry.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	closed  bool
}

type memoryEntry struct {
	Entry
	timer *time.Timer
}

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore returns an empty store whose entries live for ttl
// (DefaultTTL when ttl <= 0).
func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores the itinerary under its ID, replacing any previous entry.
func (s *MemoryStore) Put(_ context.Context, it model.Itinerary) (Entry, error) {
	created := s.now()
	e := Entry{Itinerary: it, CreatedAt: created, ExpiresAt: created.Add(s.ttl)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.entries[it.ID]; ok {
		old.timer.Stop()
	}
	id, expiresAt := it.ID, e.ExpiresAt
	timer := time.AfterFunc(s.ttl, func() { s.expire(id, expiresAt) })
	if s.closed {
		timer.Stop()
	}
	s.entries[it.ID] = memoryEntry{Entry: e, timer: timer}
	return e, nil
}

// Get returns the live entry for id or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (Entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, ErrNotFound
	}
	if e.Expired(s.now()) {
		s.expire(id, e.ExpiresAt)
		return Entry{}, ErrNotFound
	}
	return e.Entry, nil
}

// Delete removes id; deleting a missing key is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.timer.Stop()
		delete(s.entries, id)
	}
	return nil
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops all pending expiry timers and drops every entry.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, id)
	}
	s.closed = true
}

// expire removes id only if it still holds the entry that expires at
// expiresAt, so a re-Put of the same key is not lost to an older timer.
func (s *MemoryStore) expire(id string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok && e.ExpiresAt.Equal(expiresAt) {
		e.timer.Stop()
		delete(s.entries, id)
	}
}
