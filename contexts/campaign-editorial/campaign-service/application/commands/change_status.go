package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "spotlight/contexts/campaign-editorial/campaign-service/application"
	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	domainerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"
)

type ChangeStatusCommand struct {
	CampaignID string
	ActorID    string
	Action     entities.StatusAction
	Reason     string
}

// ChangeStatusUseCase is the admin-only lifecycle transition. The brand that
// owns a campaign cannot change its status.
type ChangeStatusUseCase struct {
	Campaigns ports.CampaignRepository
	History   ports.HistoryRepository
	Outbox    ports.OutboxWriter
	Roles     ports.RoleLookup
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	actorID := strings.TrimSpace(cmd.ActorID)
	if err := application.RequireRole(ctx, uc.Roles, actorID, application.RoleAdmin); err != nil {
		if errors.Is(err, domainerrors.ErrForbidden) {
			logger.Warn("campaign status change denied",
				"event", "campaign_status_change_denied",
				"module", "campaign-editorial/campaign-service",
				"layer", "application",
				"campaign_id", cmd.CampaignID,
				"actor_id", actorID,
			)
		}
		return entities.Campaign{}, err
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Campaign{}, err
	}
	action := entities.StatusAction(strings.ToLower(strings.TrimSpace(string(cmd.Action))))
	from := campaign.Status
	to, ok := entities.NextStatus(from, action)
	if !ok {
		return entities.Campaign{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	updated, err := uc.Campaigns.UpdateStatus(ctx, campaign.CampaignID, from, to, now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrStatusConflict) {
			logger.Warn("campaign status changed concurrently",
				"event", "campaign_status_conflict",
				"module", "campaign-editorial/campaign-service",
				"layer", "application",
				"campaign_id", campaign.CampaignID,
				"expected_status", string(from),
			)
		}
		return entities.Campaign{}, err
	}

	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Campaign{}, err
	}
	reason := strings.TrimSpace(cmd.Reason)
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    historyID,
		CampaignID:   campaign.CampaignID,
		FromState:    from,
		ToState:      to,
		ChangedBy:    actorID,
		ChangeReason: reason,
		CreatedAt:    now,
	}); err != nil {
		return entities.Campaign{}, err
	}
	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Campaign{}, err
		}
		envelope, err := campaignStatusChangedEvent(eventID, campaign, from, to, actorID, reason, now)
		if err != nil {
			return entities.Campaign{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.Campaign{}, err
		}
	}

	logger.Info("campaign state changed",
		"event", "campaign_state_changed",
		"module", "campaign-editorial/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"actor_id", actorID,
		"from_status", string(from),
		"to_status", string(to),
	)
	return updated, nil
}
