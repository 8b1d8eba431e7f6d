package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/campaign-editorial/campaign-service/application"
	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	domainerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"
)

type CreateCampaignCommand struct {
	BrandID        string
	IdempotencyKey string
	Title          string
	Description    string
	Budget         float64
	DurationDays   int
	InfluencerTier string
	TargetAudience string
	Goals          string
	ContentType    string
	Platforms      []string
	Timeline       string
	KPIs           string
}

type CreateCampaignUseCase struct {
	Campaigns      ports.CampaignRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Roles          ports.RoleLookup
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateCampaignResult struct {
	Campaign entities.Campaign
	Replayed bool
}

type createCampaignReplayPayload struct {
	CampaignID     string                  `json:"campaign_id"`
	BrandID        string                  `json:"brand_id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Budget         float64                 `json:"budget"`
	DurationDays   int                     `json:"duration_days"`
	InfluencerTier entities.InfluencerTier `json:"influencer_tier"`
	TargetAudience string                  `json:"target_audience"`
	Goals          string                  `json:"goals"`
	ContentType    string                  `json:"content_type"`
	Platforms      []string                `json:"platforms"`
	Timeline       string                  `json:"timeline"`
	KPIs           string                  `json:"kpis"`
	Status         entities.CampaignStatus `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// Execute persists a new campaign owned by the calling brand. The stored
// status is always pending. A repeated idempotency key with the same request
// replays the first result.
func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (CreateCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyRequired
	}
	brandID := strings.TrimSpace(cmd.BrandID)
	if brandID == "" {
		return CreateCampaignResult{}, domainerrors.ErrForbidden
	}
	if uc.Roles != nil {
		if err := application.RequireRole(ctx, uc.Roles, brandID, application.RoleBrand); err != nil {
			return CreateCampaignResult{}, err
		}
	}

	now := uc.Clock.Now().UTC()
	recordKey := idempotencyRecordKey(brandID, cmd.IdempotencyKey)
	requestHash := hashCreateCampaignCommand(cmd)
	if record, found, err := uc.Idempotency.GetRecord(ctx, recordKey, now); err != nil {
		return CreateCampaignResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var payload createCampaignReplayPayload
		if err := json.Unmarshal(record.ResponsePayload, &payload); err != nil {
			return CreateCampaignResult{}, err
		}
		return CreateCampaignResult{Campaign: payload.toEntity(), Replayed: true}, nil
	}

	campaignID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCampaignResult{}, err
	}
	campaign := entities.Campaign{
		CampaignID:     campaignID,
		BrandID:        brandID,
		Title:          strings.TrimSpace(cmd.Title),
		Description:    strings.TrimSpace(cmd.Description),
		Budget:         cmd.Budget,
		DurationDays:   cmd.DurationDays,
		InfluencerTier: entities.InfluencerTier(strings.ToLower(strings.TrimSpace(cmd.InfluencerTier))),
		TargetAudience: strings.TrimSpace(cmd.TargetAudience),
		Goals:          strings.TrimSpace(cmd.Goals),
		ContentType:    strings.TrimSpace(cmd.ContentType),
		Platforms:      entities.NormalizePlatforms(cmd.Platforms),
		Timeline:       strings.TrimSpace(cmd.Timeline),
		KPIs:           strings.TrimSpace(cmd.KPIs),
		Status:         entities.CampaignStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !campaign.ValidateBasics() {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	serialized, err := json.Marshal(newCreateCampaignReplayPayload(campaign))
	if err != nil {
		return CreateCampaignResult{}, err
	}
	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return CreateCampaignResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             recordKey,
		RequestHash:     requestHash,
		ResponsePayload: serialized,
		ExpiresAt:       now.Add(uc.IdempotencyTTL),
	}); err != nil {
		return CreateCampaignResult{}, err
	}
	if uc.Outbox != nil {
		eventID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return CreateCampaignResult{}, err
		}
		envelope, err := campaignCreatedEvent(eventID, campaign, now)
		if err != nil {
			return CreateCampaignResult{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return CreateCampaignResult{}, err
		}
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "campaign-editorial/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"brand_id", campaign.BrandID,
	)
	return CreateCampaignResult{Campaign: campaign}, nil
}

// Keys are scoped per brand so two brands never collide on the same key.
func idempotencyRecordKey(brandID, key string) string {
	return brandID + ":" + strings.TrimSpace(key)
}

func newCreateCampaignReplayPayload(campaign entities.Campaign) createCampaignReplayPayload {
	return createCampaignReplayPayload{
		CampaignID:     campaign.CampaignID,
		BrandID:        campaign.BrandID,
		Title:          campaign.Title,
		Description:    campaign.Description,
		Budget:         campaign.Budget,
		DurationDays:   campaign.DurationDays,
		InfluencerTier: campaign.InfluencerTier,
		TargetAudience: campaign.TargetAudience,
		Goals:          campaign.Goals,
		ContentType:    campaign.ContentType,
		Platforms:      append([]string(nil), campaign.Platforms...),
		Timeline:       campaign.Timeline,
		KPIs:           campaign.KPIs,
		Status:         campaign.Status,
		CreatedAt:      campaign.CreatedAt,
		UpdatedAt:      campaign.UpdatedAt,
	}
}

func (p createCampaignReplayPayload) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:     p.CampaignID,
		BrandID:        p.BrandID,
		Title:          p.Title,
		Description:    p.Description,
		Budget:         p.Budget,
		DurationDays:   p.DurationDays,
		InfluencerTier: p.InfluencerTier,
		TargetAudience: p.TargetAudience,
		Goals:          p.Goals,
		ContentType:    p.ContentType,
		Platforms:      append([]string(nil), p.Platforms...),
		Timeline:       p.Timeline,
		KPIs:           p.KPIs,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func hashCreateCampaignCommand(cmd CreateCampaignCommand) string {
	payload := map[string]any{
		"brand_id":        strings.TrimSpace(cmd.BrandID),
		"title":           strings.TrimSpace(cmd.Title),
		"description":     strings.TrimSpace(cmd.Description),
		"budget":          cmd.Budget,
		"duration_days":   cmd.DurationDays,
		"influencer_tier": strings.ToLower(strings.TrimSpace(cmd.InfluencerTier)),
		"target_audience": strings.TrimSpace(cmd.TargetAudience),
		"goals":           strings.TrimSpace(cmd.Goals),
		"content_type":    strings.TrimSpace(cmd.ContentType),
		"platforms":       entities.NormalizePlatforms(cmd.Platforms),
		"timeline":        strings.TrimSpace(cmd.Timeline),
		"kpis":            strings.TrimSpace(cmd.KPIs),
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
