package client

import (
	"context"
	"errors"
	"testing"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
)

type fakeCampaignAPI struct {
	items     []campaignhttp.CampaignDTO
	listErr   error
	createErr error
	keys      []string
	created   map[string]campaignhttp.CampaignDTO
}

func (f *fakeCampaignAPI) ListCampaigns(context.Context, string) ([]campaignhttp.CampaignDTO, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeCampaignAPI) CreateCampaign(_ context.Context, key string, req campaignhttp.CreateCampaignRequest) (campaignhttp.CreateCampaignResponse, error) {
	f.keys = append(f.keys, key)
	if f.createErr != nil {
		return campaignhttp.CreateCampaignResponse{}, f.createErr
	}
	if f.created == nil {
		f.created = map[string]campaignhttp.CampaignDTO{}
	}
	if existing, ok := f.created[key]; ok {
		return campaignhttp.CreateCampaignResponse{Campaign: existing, Replayed: true}, nil
	}
	record := campaignhttp.CampaignDTO{
		CampaignID:     "cmp-new-" + key,
		Title:          req.Title,
		Budget:         req.Budget,
		DurationDays:   req.DurationDays,
		InfluencerTier: req.InfluencerTier,
		Status:         "pending",
	}
	f.created[key] = record
	return campaignhttp.CreateCampaignResponse{Campaign: record}, nil
}

func TestRefreshFailureKeepsCachedList(t *testing.T) {
	api := &fakeCampaignAPI{items: []campaignhttp.CampaignDTO{{CampaignID: "cmp-1"}}}
	store := NewCampaignStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	api.listErr = errors.New("boom")
	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if items := store.Items(); len(items) != 1 || items[0].CampaignID != "cmp-1" {
		t.Fatalf("expected cached list unchanged, got %+v", items)
	}
}

func TestCreatePrependsServerRecord(t *testing.T) {
	api := &fakeCampaignAPI{items: []campaignhttp.CampaignDTO{{CampaignID: "cmp-old"}}}
	store := NewCampaignStore(api)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	created, err := store.Create(context.Background(), "k1", campaignhttp.CreateCampaignRequest{
		Title:          "Spring launch",
		Budget:         25000,
		DurationDays:   30,
		InfluencerTier: "micro",
		Status:         "approved",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "pending" {
		t.Fatalf("expected server status pending, got %s", created.Status)
	}
	items := store.Items()
	if len(items) != 2 || items[0].CampaignID != created.CampaignID {
		t.Fatalf("expected created campaign first, got %+v", items)
	}

	if _, err := store.Create(context.Background(), "k1", campaignhttp.CreateCampaignRequest{Title: "Spring launch"}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(store.Items()) != 2 {
		t.Fatalf("expected replay not to duplicate, got %d items", len(store.Items()))
	}
}

func TestCreateFailureLeavesListAndGeneratesKey(t *testing.T) {
	api := &fakeCampaignAPI{createErr: &APIError{HTTPStatus: 400, Code: "invalid_request"}}
	store := NewCampaignStore(api)
	if _, err := store.Create(context.Background(), "", campaignhttp.CreateCampaignRequest{}); err == nil {
		t.Fatal("expected create error")
	}
	if len(store.Items()) != 0 {
		t.Fatalf("expected empty list, got %+v", store.Items())
	}
	if len(api.keys) != 1 || api.keys[0] == "" {
		t.Fatalf("expected a generated idempotency key, got %v", api.keys)
	}
}
