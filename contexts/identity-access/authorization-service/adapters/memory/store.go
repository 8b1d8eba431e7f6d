package memory

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is an in-memory role cache for tests and single-process runs.
type Store struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	Role      string
	ExpiresAt time.Time
}

func NewStore() *Store {
	return &Store{cache: make(map[string]cacheEntry)}
}

func (s *Store) Get(_ context.Context, accountID string, now time.Time) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[strings.TrimSpace(accountID)]
	if !ok || !now.Before(entry.ExpiresAt) {
		return "", false, nil
	}
	return entry.Role, true, nil
}

func (s *Store) Set(_ context.Context, accountID string, role string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[strings.TrimSpace(accountID)] = cacheEntry{Role: role, ExpiresAt: expiresAt.UTC()}
	return nil
}

func (s *Store) Invalidate(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, strings.TrimSpace(accountID))
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
