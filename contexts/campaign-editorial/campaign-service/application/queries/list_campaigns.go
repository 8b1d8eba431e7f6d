package queries

import (
	"context"
	"log/slog"
	"strings"

	application "spotlight/contexts/campaign-editorial/campaign-service/application"
	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	domainerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"
)

type ListCampaignsQuery struct {
	BrandID string
	Status  string
}

// ListCampaignsUseCase returns the calling brand's campaigns, newest first.
type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) ([]entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	brandID := strings.TrimSpace(query.BrandID)
	if brandID == "" {
		return nil, domainerrors.ErrForbidden
	}
	filter, err := buildFilter(brandID, query.Status)
	if err != nil {
		return nil, err
	}
	items, err := uc.Campaigns.ListCampaigns(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Info("campaigns listed",
		"event", "campaigns_listed",
		"module", "campaign-editorial/campaign-service",
		"layer", "application",
		"brand_id", brandID,
		"count", len(items),
	)
	return items, nil
}

// ListAllCampaignsUseCase is the admin view across every brand.
type ListAllCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Roles     ports.RoleLookup
	Logger    *slog.Logger
}

func (uc ListAllCampaignsUseCase) Execute(ctx context.Context, actorID string, status string) ([]entities.Campaign, error) {
	if err := application.RequireRole(ctx, uc.Roles, actorID, application.RoleAdmin); err != nil {
		return nil, err
	}
	filter, err := buildFilter("", status)
	if err != nil {
		return nil, err
	}
	items, err := uc.Campaigns.ListCampaigns(ctx, filter)
	if err != nil {
		return nil, err
	}
	application.ResolveLogger(uc.Logger).Info("all campaigns listed",
		"event", "campaigns_listed_admin",
		"module", "campaign-editorial/campaign-service",
		"layer", "application",
		"actor_id", strings.TrimSpace(actorID),
		"status", status,
		"count", len(items),
	)
	return items, nil
}

// CountByStatusUseCase feeds the admin overview.
type CountByStatusUseCase struct {
	Campaigns ports.CampaignRepository
}

func (uc CountByStatusUseCase) Execute(ctx context.Context) (map[string]int, error) {
	counts, err := uc.Campaigns.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return out, nil
}

func buildFilter(brandID string, status string) (ports.CampaignFilter, error) {
	filter := ports.CampaignFilter{BrandID: brandID}
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" {
		filter.Status = entities.CampaignStatus(status)
		if !entities.IsKnownStatus(filter.Status) {
			return ports.CampaignFilter{}, domainerrors.ErrInvalidCampaignInput
		}
	}
	return filter, nil
}
