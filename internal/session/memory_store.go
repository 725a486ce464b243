package session

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/quic/internal/model"
)

type memoryEntry struct {
	data model.Identity
	exp  time.Time
}

// MemoryStore is an in-process Store used when Redis is unavailable and in
// tests.  Sessions do not survive a restart and are not shared between
// instances.  Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return model.Identity{}, ErrNoSession
	}
	if !s.now().Before(e.exp) {
		delete(s.entries, id)
		return model.Identity{}, ErrNoSession
	}
	return e.data, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, data model.Identity, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{data: data, exp: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
