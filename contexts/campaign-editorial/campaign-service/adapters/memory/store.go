package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	domainerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	campaigns map[string]entities.Campaign
	seq       map[string]uint64
	nextSeq   uint64
	stateLog  []entities.StateHistory

	idempotency map[string]ports.IdempotencyRecord
}

func NewStore(seed []entities.Campaign) *Store {
	store := &Store{
		campaigns:   make(map[string]entities.Campaign, len(seed)),
		seq:         make(map[string]uint64, len(seed)),
		stateLog:    make([]entities.StateHistory, 0),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
	for _, item := range seed {
		store.insert(item)
	}
	return store
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.insert(campaign)
	return nil
}

// insert expects s.mu held (or exclusive access during construction).
func (s *Store) insert(campaign entities.Campaign) {
	s.nextSeq++
	s.campaigns[campaign.CampaignID] = cloneCampaign(campaign)
	s.seq[campaign.CampaignID] = s.nextSeq
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return cloneCampaign(item), nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	brandID := strings.TrimSpace(filter.BrandID)
	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if brandID != "" && campaign.BrandID != brandID {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, cloneCampaign(campaign))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return s.seq[items[i].CampaignID] > s.seq[items[j].CampaignID]
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateStatus(
	_ context.Context,
	campaignID string,
	from entities.CampaignStatus,
	to entities.CampaignStatus,
	updatedAt time.Time,
) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	if item.Status != from {
		return entities.Campaign{}, domainerrors.ErrStatusConflict
	}
	item.Status = to
	item.UpdatedAt = updatedAt.UTC()
	s.campaigns[item.CampaignID] = item
	return cloneCampaign(item), nil
}

func (s *Store) CountByStatus(_ context.Context) (map[entities.CampaignStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[entities.CampaignStatus]int)
	for _, item := range s.campaigns {
		counts[item.Status]++
	}
	return counts, nil
}

func (s *Store) AppendState(_ context.Context, item entities.StateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateLog = append(s.stateLog, item)
	return nil
}

func (s *Store) ListStates(_ context.Context, campaignID string) ([]entities.StateHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.StateHistory, 0)
	for _, item := range s.stateLog {
		if item.CampaignID == strings.TrimSpace(campaignID) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneCampaign(item entities.Campaign) entities.Campaign {
	item.Platforms = append([]string(nil), item.Platforms...)
	return item
}
