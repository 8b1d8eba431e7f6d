package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/identity-access/profile-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/profile-service/domain/errors"
)

type Store struct {
	mu       sync.RWMutex
	profiles map[string]entities.Profile
}

func NewStore() *Store {
	return &Store{profiles: make(map[string]entities.Profile)}
}

func (s *Store) CreateProfile(_ context.Context, profile entities.Profile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[profile.AccountID]; exists {
		return false, nil
	}
	s.profiles[profile.AccountID] = profile
	return true, nil
}

func (s *Store) GetProfile(_ context.Context, accountID string) (entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[strings.TrimSpace(accountID)]
	if !ok {
		return entities.Profile{}, domainerrors.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Store) UpdateProfile(_ context.Context, profile entities.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[profile.AccountID]; !ok {
		return domainerrors.ErrProfileNotFound
	}
	s.profiles[profile.AccountID] = profile
	return nil
}

func (s *Store) ListProfiles(_ context.Context, role entities.Role) ([]entities.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Profile, 0, len(s.profiles))
	for _, profile := range s.profiles {
		if role != "" && profile.Role != role {
			continue
		}
		items = append(items, profile)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].AccountID < items[j].AccountID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
