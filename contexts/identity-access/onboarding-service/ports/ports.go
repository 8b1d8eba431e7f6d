package ports

import (
	"context"
	"time"

	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	contractsv1 "spotlight/contracts/gen/events/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// ReviewInput moves an application out of pending. Repositories apply it only
// while the stored status is still pending.
type ReviewInput struct {
	ApplicationID string
	To            entities.Status
	ReviewerID    string
	Reason        string
	ReviewedAt    time.Time
}

type Repository interface {
	CreateApplication(ctx context.Context, item entities.Application) error
	GetApplication(ctx context.Context, applicationID string) (entities.Application, error)
	ListApplications(ctx context.Context, status entities.Status) ([]entities.Application, error)
	ReviewApplication(ctx context.Context, input ReviewInput) (entities.Application, error)
	CountByStatus(ctx context.Context) (map[entities.Status]int, error)
}

type RoleLookup interface {
	GetRole(ctx context.Context, accountID string) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}
