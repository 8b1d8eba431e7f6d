package ports

import (
	"context"
	"time"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RoleSource returns the stored role for an account.
type RoleSource interface {
	GetRole(ctx context.Context, accountID string) (string, error)
}

// RoleCache stores role lookups with TTL semantics.
type RoleCache interface {
	Get(ctx context.Context, accountID string, now time.Time) (string, bool, error)
	Set(ctx context.Context, accountID string, role string, expiresAt time.Time) error
	Invalidate(ctx context.Context, accountID string) error
}
