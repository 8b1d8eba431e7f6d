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

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Roles     ports.RoleLookup
	Logger    *slog.Logger
}

// Execute returns the campaign to its owning brand or to an admin. Other
// callers get ErrCampaignNotFound so ids do not leak across brands.
func (uc GetCampaignUseCase) Execute(ctx context.Context, actorID string, campaignID string) (entities.Campaign, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	actorID = strings.TrimSpace(actorID)
	if actorID != "" && campaign.BrandID == actorID {
		return campaign, nil
	}
	isAdmin, err := application.HasRole(ctx, uc.Roles, actorID, application.RoleAdmin)
	if err != nil {
		return entities.Campaign{}, err
	}
	if !isAdmin {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return campaign, nil
}

type GetHistoryUseCase struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Roles     ports.RoleLookup
	Logger    *slog.Logger
}

// Execute lists status transitions oldest first, with the same visibility
// rule as GetCampaignUseCase.
func (uc GetHistoryUseCase) Execute(ctx context.Context, actorID string, campaignID string) ([]entities.StateHistory, error) {
	get := GetCampaignUseCase{Campaigns: uc.Campaigns, Roles: uc.Roles, Logger: uc.Logger}
	campaign, err := get.Execute(ctx, actorID, campaignID)
	if err != nil {
		return nil, err
	}
	return uc.History.ListStates(ctx, campaign.CampaignID)
}
