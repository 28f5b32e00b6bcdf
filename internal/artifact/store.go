// Package artifact provides time-bounded in-memory storage for rendered
// images and assembled documents. Entries are addressed by opaque ids, never
// by filesystem path, so the rendering and assembly stages do not need a
// shared filesystem view.
package artifact

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an artifact survives without an explicit delete.
const DefaultTTL = time.Hour

// Artifact is a stored binary object with a bounded lifetime.
type Artifact struct {
	ID        string
	Data      []byte
	CreatedAt time.Time
}

// Store is a concurrency-safe artifact store. The zero value is not usable;
// create with NewStore. A single Store is shared across concurrent pipeline
// invocations, so all access is serialized by an internal mutex.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]Artifact
	now     func() time.Time
}

// NewStore creates a Store with the given TTL. A non-positive TTL falls back
// to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]Artifact),
		now:     time.Now,
	}
}

// Put stores data and returns a fresh opaque id. The store takes ownership
// of the byte slice; callers must not modify it afterwards.
func (s *Store) Put(data []byte) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = Artifact{ID: id, Data: data, CreatedAt: s.now()}
	return id
}

// Get returns the stored bytes for id, and whether the id was found.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return a.Data, true
}

// Delete removes the entry for id, if present.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Sweep removes entries created more than one TTL before now and returns the
// number of entries removed.
func (s *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, a := range s.entries {
		if a.CreatedAt.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored artifacts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
