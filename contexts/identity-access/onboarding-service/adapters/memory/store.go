package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	"spotlight/contexts/identity-access/onboarding-service/ports"
)

type Store struct {
	mu sync.RWMutex

	applications map[string]entities.Application
	idempotency  map[string]ports.IdempotencyRecord
	sequence     uint64
}

func NewStore(seed ...entities.Application) *Store {
	store := &Store{
		applications: make(map[string]entities.Application, len(seed)),
		idempotency:  make(map[string]ports.IdempotencyRecord),
	}
	for _, item := range seed {
		store.applications[item.ApplicationID] = cloneApplication(item)
	}
	return store
}

func (s *Store) CreateApplication(_ context.Context, item entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.applications[item.ApplicationID]; exists {
		return fmt.Errorf("application %s already exists", item.ApplicationID)
	}
	s.applications[item.ApplicationID] = cloneApplication(item)
	return nil
}

func (s *Store) GetApplication(_ context.Context, applicationID string) (entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.applications[applicationID]
	if !ok {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}
	return cloneApplication(item), nil
}

func (s *Store) ListApplications(_ context.Context, status entities.Status) ([]entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Application, 0, len(s.applications))
	for _, item := range s.applications {
		if status != "" && item.Status != status {
			continue
		}
		items = append(items, cloneApplication(item))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ApplicationID > items[j].ApplicationID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// ReviewApplication only applies to pending applications.
func (s *Store) ReviewApplication(_ context.Context, input ports.ReviewInput) (entities.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.applications[input.ApplicationID]
	if !ok {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}
	if item.Status != entities.StatusPending {
		return entities.Application{}, domainerrors.ErrAlreadyReviewed
	}
	item.Status = input.To
	item.ReviewedBy = input.ReviewerID
	item.ReviewReason = input.Reason
	item.UpdatedAt = input.ReviewedAt
	s.applications[item.ApplicationID] = item
	return cloneApplication(item), nil
}

func (s *Store) CountByStatus(context.Context) (map[entities.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[entities.Status]int{
		entities.StatusPending:  0,
		entities.StatusApproved: 0,
		entities.StatusRejected: 0,
	}
	for _, item := range s.applications {
		counts[item.Status]++
	}
	return counts, nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return cloneRecord(record), true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.idempotency[record.Key]; ok && existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	s.idempotency[record.Key] = cloneRecord(record)
	return nil
}

func (s *Store) NewID(context.Context) (string, error) {
	n := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("app_%06d", n), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func cloneApplication(item entities.Application) entities.Application {
	handles := make(map[string]string, len(item.SocialHandles))
	for key, value := range item.SocialHandles {
		handles[strings.ToLower(key)] = value
	}
	item.SocialHandles = handles
	return item
}

func cloneRecord(record ports.IdempotencyRecord) ports.IdempotencyRecord {
	record.Payload = append([]byte(nil), record.Payload...)
	return record
}
