package unit

import (
	"context"
	"errors"
	"testing"

	admindashboardservice "spotlight/contexts/internal-ops/admin-dashboard-service"
	domainerrors "spotlight/contexts/internal-ops/admin-dashboard-service/domain/errors"
	httptransport "spotlight/contexts/internal-ops/admin-dashboard-service/transport/http"
)

type fixedCounts map[string]int

func (c fixedCounts) CountCampaignsByStatus(context.Context) (map[string]int, error) { return c, nil }

func (c fixedCounts) CountApplicationsByStatus(context.Context) (map[string]int, error) {
	return c, nil
}

func (c fixedCounts) CountProfilesByRole(context.Context) (map[string]int, error) { return c, nil }

func newAdminModule() admindashboardservice.Module {
	return admindashboardservice.NewInMemoryModule(admindashboardservice.Dependencies{
		Roles:        roleTable{"admin-1": "admin", "brand-1": "brand"},
		Campaigns:    fixedCounts{"pending": 2, "active": 1},
		Applications: fixedCounts{"pending": 4},
		Profiles:     fixedCounts{"brand": 3, "influencer": 5, "admin": 1},
	})
}

func TestAdminDashboardActionIdempotency(t *testing.T) {
	module := newAdminModule()
	ctx := context.Background()
	req := httptransport.RecordAdminActionRequest{
		Action:        "user_suspend",
		TargetType:    "account",
		TargetID:      "user-123",
		Justification: "risk signal triggered",
	}

	first, err := module.Handler.RecordAdminActionHandler(ctx, "admin-1", "idem-admin-1", req)
	if err != nil {
		t.Fatalf("first action failed: %v", err)
	}
	second, err := module.Handler.RecordAdminActionHandler(ctx, "admin-1", "idem-admin-1", req)
	if err != nil {
		t.Fatalf("second action failed: %v", err)
	}
	if first.AuditID != second.AuditID {
		t.Fatalf("expected idempotent replay to return same audit id")
	}
	log, err := module.Handler.ListAuditLogHandler(ctx, "admin-1", 0)
	if err != nil {
		t.Fatalf("list audit log: %v", err)
	}
	if len(log.Entries) != 1 {
		t.Fatalf("expected a single audit row, got %d", len(log.Entries))
	}
}

func TestAdminDashboardRejectsIdempotencyCollision(t *testing.T) {
	module := newAdminModule()
	ctx := context.Background()

	_, err := module.Handler.RecordAdminActionHandler(ctx, "admin-1", "idem-admin-2", httptransport.RecordAdminActionRequest{
		Action:        "user_suspend",
		TargetID:      "user-321",
		Justification: "policy violation",
	})
	if err != nil {
		t.Fatalf("initial action failed: %v", err)
	}
	_, err = module.Handler.RecordAdminActionHandler(ctx, "admin-1", "idem-admin-2", httptransport.RecordAdminActionRequest{
		Action:        "campaign_pause",
		TargetID:      "camp-444",
		Justification: "fraud review",
	})
	if !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestAdminDashboardOverviewIsAdminOnly(t *testing.T) {
	module := newAdminModule()
	ctx := context.Background()

	overview, err := module.Handler.GetOverviewHandler(ctx, "admin-1")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.CampaignsByStatus["pending"] != 2 || overview.ApplicationsByStatus["pending"] != 4 {
		t.Fatalf("unexpected counts %+v", overview)
	}
	if overview.Brands != 3 || overview.Influencers != 5 {
		t.Fatalf("unexpected directory counts %+v", overview)
	}

	if _, err := module.Handler.GetOverviewHandler(ctx, "brand-1"); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for brand, got %v", err)
	}
	if _, err := module.Handler.ListAuditLogHandler(ctx, "", 10); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized without actor, got %v", err)
	}
}
