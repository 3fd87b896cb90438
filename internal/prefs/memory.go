package prefs

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preference
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]Preference)}
}

func (s *MemoryStore) Get(_ context.Context, ownerID string) (Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[ownerID]
	if !ok {
		return Preference{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Upsert(_ context.Context, p Preference) (Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.prefs[p.OwnerID]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	s.prefs[p.OwnerID] = p
	return p, nil
}
