package client

import (
	"context"
	"strings"
	"sync"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"

	"github.com/google/uuid"
)

// CampaignAPI is the slice of Client used by CampaignStore.
type CampaignAPI interface {
	ListCampaigns(ctx context.Context, status string) ([]campaignhttp.CampaignDTO, error)
	CreateCampaign(ctx context.Context, idempotencyKey string, req campaignhttp.CreateCampaignRequest) (campaignhttp.CreateCampaignResponse, error)
}

// CampaignStore caches the signed-in brand's campaigns, newest first.
// The server stays the source of truth: the list only changes on a
// successful refresh or by merging the record a create returned.
type CampaignStore struct {
	api CampaignAPI

	mu    sync.RWMutex
	items []campaignhttp.CampaignDTO
}

func NewCampaignStore(api CampaignAPI) *CampaignStore {
	return &CampaignStore{api: api}
}

// Refresh reloads the list. On failure the cached list is kept.
func (s *CampaignStore) Refresh(ctx context.Context) error {
	items, err := s.api.ListCampaigns(ctx, "")
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = append([]campaignhttp.CampaignDTO(nil), items...)
	s.mu.Unlock()
	return nil
}

// Create submits a campaign and prepends the record the server returned.
// An empty key gets a fresh one; reusing a key replays the first result.
func (s *CampaignStore) Create(ctx context.Context, idempotencyKey string, req campaignhttp.CreateCampaignRequest) (campaignhttp.CampaignDTO, error) {
	if strings.TrimSpace(idempotencyKey) == "" {
		idempotencyKey = uuid.NewString()
	}
	resp, err := s.api.CreateCampaign(ctx, idempotencyKey, req)
	if err != nil {
		return campaignhttp.CampaignDTO{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.CampaignID == resp.Campaign.CampaignID {
			return resp.Campaign, nil
		}
	}
	s.items = append([]campaignhttp.CampaignDTO{resp.Campaign}, s.items...)
	return resp.Campaign, nil
}

func (s *CampaignStore) Items() []campaignhttp.CampaignDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]campaignhttp.CampaignDTO(nil), s.items...)
}
