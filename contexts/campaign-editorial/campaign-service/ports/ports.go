package ports

import (
	"context"
	"time"

	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	contractsv1 "spotlight/contracts/gen/events/v1"
)

type CampaignFilter struct {
	BrandID string
	Status  entities.CampaignStatus
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	// UpdateStatus moves the campaign from one status to another only if it
	// is still in from. Otherwise it returns ErrStatusConflict.
	UpdateStatus(
		ctx context.Context,
		campaignID string,
		from entities.CampaignStatus,
		to entities.CampaignStatus,
		updatedAt time.Time,
	) (entities.Campaign, error)
	CountByStatus(ctx context.Context) (map[entities.CampaignStatus]int, error)
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
	ListStates(ctx context.Context, campaignID string) ([]entities.StateHistory, error)
}

// RoleLookup reports an account's stored role.
type RoleLookup interface {
	GetRole(ctx context.Context, accountID string) (string, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}
