package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-node development.
// Expired records are reclaimed lazily on Get; there is no background sweep.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

func (s *MemoryStore) Set(_ context.Context, token string, rec Record, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[token] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.recs[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(rec.ExpiresAt) {
		s.mu.Lock()
		delete(s.recs, token)
		s.mu.Unlock()
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, token)
	return nil
}

// Len reports the number of live records, counting expired but not yet
// reclaimed ones. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}
