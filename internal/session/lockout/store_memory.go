package lockout

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	failures    int
	windowEnds  time.Time
	lockedUntil time.Time
}

// InMemoryStore keeps counters in process memory. Expired entries are
// dropped lazily on access.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]*entry), now: time.Now}
}

func (s *InMemoryStore) RecordFailure(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	if !now.Before(e.windowEnds) {
		e.failures = 0
		e.windowEnds = now.Add(window)
	}
	e.failures++
	return e.failures, nil
}

func (s *InMemoryStore) Lock(_ context.Context, key string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.lockedUntil = s.now().Add(d)
	return nil
}

func (s *InMemoryStore) LockedFor(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	now := s.now()
	if remaining := e.lockedUntil.Sub(now); remaining > 0 {
		return remaining, nil
	}
	if !now.Before(e.windowEnds) {
		delete(s.entries, key)
	}
	return 0, nil
}

func (s *InMemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
