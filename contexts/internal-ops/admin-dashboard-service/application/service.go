package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainerrors "spotlight/contexts/internal-ops/admin-dashboard-service/domain/errors"
	"spotlight/contexts/internal-ops/admin-dashboard-service/ports"
)

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Roles          ports.RoleLookup
	Campaigns      ports.CampaignCounter
	Applications   ports.ApplicationCounter
	Profiles       ports.ProfileCounter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type RecordActionInput struct {
	ActorID       string
	Action        string
	TargetType    string
	TargetID      string
	Justification string
}

// GetOverview aggregates platform counts for the admin home. Missing counters
// contribute empty sections.
func (s Service) GetOverview(ctx context.Context, actorID string) (ports.Overview, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return ports.Overview{}, err
	}
	overview := ports.Overview{
		CampaignsByStatus:    map[string]int{},
		ApplicationsByStatus: map[string]int{},
		GeneratedAt:          s.now(),
	}
	if s.Campaigns != nil {
		counts, err := s.Campaigns.CountCampaignsByStatus(ctx)
		if err != nil {
			return ports.Overview{}, fmt.Errorf("count campaigns: %w", err)
		}
		overview.CampaignsByStatus = counts
	}
	if s.Applications != nil {
		counts, err := s.Applications.CountApplicationsByStatus(ctx)
		if err != nil {
			return ports.Overview{}, fmt.Errorf("count applications: %w", err)
		}
		overview.ApplicationsByStatus = counts
	}
	if s.Profiles != nil {
		counts, err := s.Profiles.CountProfilesByRole(ctx)
		if err != nil {
			return ports.Overview{}, fmt.Errorf("count profiles: %w", err)
		}
		overview.Brands = counts["brand"]
		overview.Influencers = counts["influencer"]
	}
	return overview, nil
}

func (s Service) RecordAdminAction(ctx context.Context, idempotencyKey string, input RecordActionInput) (ports.AuditLog, error) {
	if strings.TrimSpace(input.ActorID) == "" {
		return ports.AuditLog{}, domainerrors.ErrUnauthorized
	}
	if err := s.RequireAdmin(ctx, input.ActorID); err != nil {
		return ports.AuditLog{}, err
	}
	if strings.TrimSpace(input.Action) == "" || strings.TrimSpace(input.Justification) == "" {
		return ports.AuditLog{}, domainerrors.ErrInvalidInput
	}
	if strings.TrimSpace(idempotencyKey) == "" {
		return ports.AuditLog{}, domainerrors.ErrIdempotencyRequired
	}

	now := s.now()
	ttl := s.IdempotencyTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	requestHash := hashPayload(input)

	existing, err := s.Idempotency.Get(ctx, idempotencyKey, now)
	if err != nil {
		return ports.AuditLog{}, err
	}
	if existing != nil {
		if existing.RequestHash != requestHash {
			return ports.AuditLog{}, domainerrors.ErrIdempotencyConflict
		}
		var cached ports.AuditLog
		if err := json.Unmarshal(existing.ResponseBody, &cached); err != nil {
			return ports.AuditLog{}, err
		}
		return cached, nil
	}
	if err := s.Idempotency.Reserve(ctx, idempotencyKey, requestHash, now.Add(ttl)); err != nil {
		return ports.AuditLog{}, err
	}

	auditID, err := s.newID(ctx, now)
	if err != nil {
		return ports.AuditLog{}, err
	}
	row := ports.AuditLog{
		AuditID:       auditID,
		ActorID:       strings.TrimSpace(input.ActorID),
		Action:        strings.TrimSpace(input.Action),
		TargetType:    strings.TrimSpace(input.TargetType),
		TargetID:      strings.TrimSpace(input.TargetID),
		Justification: strings.TrimSpace(input.Justification),
		OccurredAt:    now,
	}
	if _, err := s.Repo.AppendAuditLog(ctx, row); err != nil {
		return ports.AuditLog{}, err
	}
	body, err := json.Marshal(row)
	if err != nil {
		return ports.AuditLog{}, err
	}
	if err := s.Idempotency.Complete(ctx, idempotencyKey, body, now); err != nil {
		return ports.AuditLog{}, err
	}

	ResolveLogger(s.Logger).Info("admin action recorded",
		"event", "admin_action_recorded",
		"module", "internal-ops/admin-dashboard-service",
		"layer", "application",
		"audit_id", row.AuditID,
		"actor_id", row.ActorID,
		"action", row.Action,
	)
	return row, nil
}

// AppendFromEvent writes an audit row derived from a domain event. Replayed
// events are ignored.
func (s Service) AppendFromEvent(ctx context.Context, row ports.AuditLog) (bool, error) {
	if strings.TrimSpace(row.SourceEvent) == "" || strings.TrimSpace(row.Action) == "" {
		return false, domainerrors.ErrInvalidInput
	}
	if row.AuditID == "" {
		auditID, err := s.newID(ctx, row.OccurredAt)
		if err != nil {
			return false, err
		}
		row.AuditID = auditID
	}
	if row.OccurredAt.IsZero() {
		row.OccurredAt = s.now()
	}
	return s.Repo.AppendAuditLog(ctx, row)
}

func (s Service) ListAuditLog(ctx context.Context, actorID string, limit int) ([]ports.AuditLog, error) {
	if err := s.RequireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.Repo.ListRecentAuditLogs(ctx, limit)
}

func (s Service) RequireAdmin(ctx context.Context, actorID string) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return domainerrors.ErrUnauthorized
	}
	if s.Roles == nil {
		return domainerrors.ErrForbidden
	}
	role, err := s.Roles.GetRole(ctx, actorID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(role), "admin") {
		return domainerrors.ErrForbidden
	}
	return nil
}

func (s Service) newID(ctx context.Context, at time.Time) (string, error) {
	if s.IDGenerator == nil {
		return fmt.Sprintf("audit_%d", at.UnixNano()), nil
	}
	return s.IDGenerator.NewID(ctx)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func hashPayload(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
