package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"spotlight/contexts/internal-ops/admin-dashboard-service/application"
	"spotlight/contexts/internal-ops/admin-dashboard-service/ports"
)

// AuditConsumer turns admin-initiated domain events into audit rows.
type AuditConsumer struct {
	Service application.Service
	Logger  *slog.Logger
}

type auditPayload struct {
	ActorID       string `json:"actor_id"`
	CampaignID    string `json:"campaign_id"`
	ApplicationID string `json:"application_id"`
	AccountID     string `json:"account_id"`
	ToStatus      string `json:"to_status"`
	Status        string `json:"status"`
	Role          string `json:"role"`
	Reason        string `json:"reason"`
}

// Topics lists the event types the consumer handles.
func (c AuditConsumer) Topics() []string {
	return []string{
		"campaign.status_changed",
		"influencer_application.reviewed",
		"account.role_changed",
	}
}

func (c AuditConsumer) Handle(ctx context.Context, event ports.EventEnvelope) error {
	var payload auditPayload
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("decode %s: %w", event.EventType, err)
	}

	row := ports.AuditLog{
		ActorID:     payload.ActorID,
		SourceEvent: event.EventID,
		OccurredAt:  event.OccurredAt.UTC(),
	}
	switch event.EventType {
	case "campaign.status_changed":
		row.Action = "campaign." + payload.ToStatus
		row.TargetType = "campaign"
		row.TargetID = payload.CampaignID
		row.Justification = payload.Reason
	case "influencer_application.reviewed":
		row.Action = "influencer_application." + payload.Status
		row.TargetType = "influencer_application"
		row.TargetID = payload.ApplicationID
		row.Justification = payload.Reason
	case "account.role_changed":
		row.Action = "account.role_set." + payload.Role
		row.TargetType = "account"
		row.TargetID = payload.AccountID
	default:
		return nil
	}
	if row.ActorID == "" {
		row.ActorID = "system"
	}

	inserted, err := c.Service.AppendFromEvent(ctx, row)
	if err != nil {
		return err
	}
	if !inserted {
		application.ResolveLogger(c.Logger).Debug("duplicate audit event skipped",
			"event", "admin_audit_event_duplicate",
			"module", "internal-ops/admin-dashboard-service",
			"layer", "worker",
			"source_event", event.EventID,
		)
	}
	return nil
}
