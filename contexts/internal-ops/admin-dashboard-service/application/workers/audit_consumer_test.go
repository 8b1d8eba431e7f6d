package workers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"spotlight/contexts/internal-ops/admin-dashboard-service/adapters/memory"
	"spotlight/contexts/internal-ops/admin-dashboard-service/application"
	"spotlight/contexts/internal-ops/admin-dashboard-service/ports"
)

type adminRoles struct{}

func (adminRoles) GetRole(_ context.Context, accountID string) (string, error) {
	if accountID == "admin-1" {
		return "admin", nil
	}
	return "brand", nil
}

func event(t *testing.T, id string, eventType string, data map[string]any) ports.EventEnvelope {
	t.Helper()
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return ports.EventEnvelope{
		EventID:    id,
		EventType:  eventType,
		OccurredAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		Data:       payload,
	}
}

func TestAuditConsumerRecordsEachEventOnce(t *testing.T) {
	store := memory.NewStore()
	service := application.Service{Repo: store, Idempotency: store, Roles: adminRoles{}, Clock: store, IDGenerator: store}
	consumer := AuditConsumer{Service: service}
	ctx := context.Background()

	statusChanged := event(t, "evt-1", "campaign.status_changed", map[string]any{
		"campaign_id": "camp-1",
		"to_status":   "approved",
		"actor_id":    "admin-1",
		"reason":      "brief looks good",
	})
	for i := 0; i < 2; i++ {
		if err := consumer.Handle(ctx, statusChanged); err != nil {
			t.Fatalf("handle status change: %v", err)
		}
	}
	if err := consumer.Handle(ctx, event(t, "evt-2", "account.role_changed", map[string]any{
		"account_id": "acct-9",
		"actor_id":   "admin-1",
		"role":       "admin",
	})); err != nil {
		t.Fatalf("handle role change: %v", err)
	}
	if err := consumer.Handle(ctx, event(t, "evt-3", "campaign.created", map[string]any{"campaign_id": "camp-2"})); err != nil {
		t.Fatalf("handle ignored event: %v", err)
	}

	rows, err := service.ListAuditLog(ctx, "admin-1", 10)
	if err != nil {
		t.Fatalf("list audit log: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(rows))
	}
	if rows[0].Action != "account.role_set.admin" || rows[0].TargetID != "acct-9" {
		t.Fatalf("unexpected newest row %+v", rows[0])
	}
	if rows[1].Action != "campaign.approved" || rows[1].Justification != "brief looks good" || rows[1].SourceEvent != "evt-1" {
		t.Fatalf("unexpected status row %+v", rows[1])
	}
}
