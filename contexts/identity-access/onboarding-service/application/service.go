package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	"spotlight/contexts/identity-access/onboarding-service/ports"
)

const roleAdmin = "admin"

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Roles          ports.RoleLookup
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
}

type SubmitInput struct {
	FullName       string
	Email          string
	Phone          string
	Niche          string
	FollowerCount  int64
	EngagementRate float64
	PortfolioURL   string
	SocialHandles  map[string]string
	Bio            string
}

type SubmitResult struct {
	Application entities.Application
	Replayed    bool
}

// Submit records a public application. Whatever the caller sends, the stored
// status is pending.
func (s Service) Submit(ctx context.Context, idempotencyKey string, input SubmitInput) (SubmitResult, error) {
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return SubmitResult{}, err
	}
	item := entities.Application{
		FullName:       strings.TrimSpace(input.FullName),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          strings.TrimSpace(input.Phone),
		Niche:          strings.TrimSpace(input.Niche),
		FollowerCount:  input.FollowerCount,
		EngagementRate: input.EngagementRate,
		PortfolioURL:   strings.TrimSpace(input.PortfolioURL),
		SocialHandles:  entities.NormalizeHandles(input.SocialHandles),
		Bio:            strings.TrimSpace(input.Bio),
		Status:         entities.StatusPending,
	}
	if !item.Validate() {
		return SubmitResult{}, domainerrors.ErrInvalidRequest
	}

	requestHash := hashStrings(
		item.FullName,
		item.Email,
		item.Phone,
		item.Niche,
		strconv.FormatInt(item.FollowerCount, 10),
		strconv.FormatFloat(item.EngagementRate, 'f', 2, 64),
		item.PortfolioURL,
		handlesKey(item.SocialHandles),
		item.Bio,
	)

	var result SubmitResult
	replayed := true
	err := s.runIdempotent(
		ctx,
		idempotencyKey,
		requestHash,
		func(payload []byte) error {
			return json.Unmarshal(payload, &result.Application)
		},
		func() ([]byte, error) {
			replayed = false
			created, err := s.createApplication(ctx, item)
			if err != nil {
				return nil, err
			}
			return json.Marshal(created)
		},
	)
	if err != nil {
		return SubmitResult{}, err
	}
	result.Replayed = replayed
	return result, nil
}

func (s Service) createApplication(ctx context.Context, item entities.Application) (entities.Application, error) {
	id, err := s.newID(ctx)
	if err != nil {
		return entities.Application{}, err
	}
	now := s.now()
	item.ApplicationID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := s.Repo.CreateApplication(ctx, item); err != nil {
		return entities.Application{}, err
	}
	if err := s.emit(ctx, "influencer_application.submitted", item, map[string]any{
		"application_id": item.ApplicationID,
		"niche":          item.Niche,
		"follower_count": item.FollowerCount,
	}); err != nil {
		return entities.Application{}, err
	}

	resolveLogger(s.Logger).Info("influencer application submitted",
		"event", "influencer_application_submitted",
		"module", "identity-access/onboarding-service",
		"layer", "application",
		"application_id", item.ApplicationID,
	)
	return item, nil
}

// List returns applications newest first. Only admins may read the queue.
func (s Service) List(ctx context.Context, actorID string, status string) ([]entities.Application, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	filter := entities.Status(strings.ToLower(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListApplications(ctx, filter)
}

func (s Service) Get(ctx context.Context, actorID string, applicationID string) (entities.Application, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return entities.Application{}, err
	}
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return entities.Application{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetApplication(ctx, applicationID)
}

// Review decides a pending application. A second decision on the same
// application fails with ErrAlreadyReviewed.
func (s Service) Review(
	ctx context.Context,
	actorID string,
	applicationID string,
	decision string,
	reason string,
) (entities.Application, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return entities.Application{}, err
	}
	applicationID = strings.TrimSpace(applicationID)
	target, ok := entities.Decision(strings.ToLower(strings.TrimSpace(decision))).Target()
	if applicationID == "" || !ok {
		return entities.Application{}, domainerrors.ErrInvalidRequest
	}
	reason = strings.TrimSpace(reason)
	if target == entities.StatusRejected && reason == "" {
		return entities.Application{}, domainerrors.ErrInvalidRequest
	}

	updated, err := s.Repo.ReviewApplication(ctx, ports.ReviewInput{
		ApplicationID: applicationID,
		To:            target,
		ReviewerID:    strings.TrimSpace(actorID),
		Reason:        reason,
		ReviewedAt:    s.now(),
	})
	if err != nil {
		return entities.Application{}, err
	}
	if err := s.emit(ctx, "influencer_application.reviewed", updated, map[string]any{
		"application_id": updated.ApplicationID,
		"status":         string(updated.Status),
		"actor_id":       updated.ReviewedBy,
		"reason":         updated.ReviewReason,
	}); err != nil {
		return entities.Application{}, err
	}

	resolveLogger(s.Logger).Info("influencer application reviewed",
		"event", "influencer_application_reviewed",
		"module", "identity-access/onboarding-service",
		"layer", "application",
		"application_id", updated.ApplicationID,
		"status", string(updated.Status),
		"actor_id", updated.ReviewedBy,
	)
	return updated, nil
}

func (s Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return out, nil
}

func (s Service) requireAdmin(ctx context.Context, actorID string) error {
	actorID = strings.TrimSpace(actorID)
	if s.Roles == nil || actorID == "" {
		return domainerrors.ErrForbidden
	}
	role, err := s.Roles.GetRole(ctx, actorID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(role), roleAdmin) {
		return domainerrors.ErrForbidden
	}
	return nil
}

func (s Service) emit(ctx context.Context, eventType string, item entities.Application, data map[string]any) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.newID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       item.UpdatedAt.UTC(),
		SourceService:    "onboarding-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "application_id",
		PartitionKey:     item.ApplicationID,
		Data:             payload,
	})
}

func (s Service) newID(ctx context.Context) (string, error) {
	if s.IDGenerator == nil {
		return "", fmt.Errorf("id generator is not configured")
	}
	return s.IDGenerator.NewID(ctx)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}

	resolveLogger(s.Logger).Debug("application submission committed",
		"event", "influencer_application_idempotent_committed",
		"module", "identity-access/onboarding-service",
		"layer", "application",
		"idempotency_key", key,
	)
	return decode(payload)
}

func handlesKey(handles map[string]string) string {
	keys := make([]string, 0, len(handles))
	for key := range handles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+handles[key])
	}
	return strings.Join(parts, ",")
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
