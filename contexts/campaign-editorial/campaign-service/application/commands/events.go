package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"
)

const (
	eventCampaignCreated       = "campaign.created"
	eventCampaignStatusChanged = "campaign.status_changed"
)

type campaignCreatedData struct {
	CampaignID     string  `json:"campaign_id"`
	BrandID        string  `json:"brand_id"`
	Title          string  `json:"title"`
	Budget         float64 `json:"budget"`
	InfluencerTier string  `json:"influencer_tier"`
	Status         string  `json:"status"`
}

type campaignStatusChangedData struct {
	CampaignID string `json:"campaign_id"`
	BrandID    string `json:"brand_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    string `json:"actor_id"`
	Reason     string `json:"reason"`
}

func campaignCreatedEvent(eventID string, campaign entities.Campaign, occurredAt time.Time) (ports.EventEnvelope, error) {
	return campaignEvent(eventID, eventCampaignCreated, campaign.CampaignID, occurredAt, campaignCreatedData{
		CampaignID:     campaign.CampaignID,
		BrandID:        campaign.BrandID,
		Title:          campaign.Title,
		Budget:         campaign.Budget,
		InfluencerTier: string(campaign.InfluencerTier),
		Status:         string(campaign.Status),
	})
}

func campaignStatusChangedEvent(
	eventID string,
	campaign entities.Campaign,
	from entities.CampaignStatus,
	to entities.CampaignStatus,
	actorID string,
	reason string,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	return campaignEvent(eventID, eventCampaignStatusChanged, campaign.CampaignID, occurredAt, campaignStatusChangedData{
		CampaignID: campaign.CampaignID,
		BrandID:    campaign.BrandID,
		FromStatus: string(from),
		ToStatus:   string(to),
		ActorID:    actorID,
		Reason:     reason,
	})
}

// campaignEvent partitions by campaign id so status changes of one campaign
// stay ordered on the broker.
func campaignEvent(eventID, eventType, campaignID string, occurredAt time.Time, data any) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "campaign-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "campaign_id",
		PartitionKey:     campaignID,
		Data:             payload,
	}, nil
}
