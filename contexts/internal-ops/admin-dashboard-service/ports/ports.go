package ports

import (
	"context"
	"time"

	contractsv1 "spotlight/contracts/gen/events/v1"
)

type AuditLog struct {
	AuditID       string
	ActorID       string
	Action        string
	TargetType    string
	TargetID      string
	Justification string
	// SourceEvent is the outbox event id for rows written by the audit
	// consumer. Empty for manual entries.
	SourceEvent string
	OccurredAt  time.Time
}

type Repository interface {
	// AppendAuditLog reports false when a row for the same source event
	// already exists.
	AppendAuditLog(ctx context.Context, row AuditLog) (bool, error)
	ListRecentAuditLogs(ctx context.Context, limit int) ([]AuditLog, error)
}

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	ResponseBody []byte
	ExpiresAt    time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseBody []byte, at time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type RoleLookup interface {
	GetRole(ctx context.Context, accountID string) (string, error)
}

type CampaignCounter interface {
	CountCampaignsByStatus(ctx context.Context) (map[string]int, error)
}

type ApplicationCounter interface {
	CountApplicationsByStatus(ctx context.Context) (map[string]int, error)
}

type ProfileCounter interface {
	CountProfilesByRole(ctx context.Context) (map[string]int, error)
}

type Overview struct {
	CampaignsByStatus    map[string]int
	ApplicationsByStatus map[string]int
	Brands               int
	Influencers          int
	GeneratedAt          time.Time
}

type EventEnvelope = contractsv1.Envelope
