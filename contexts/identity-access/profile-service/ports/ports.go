package ports

import (
	"context"
	"time"

	"spotlight/contexts/identity-access/profile-service/domain/entities"
)

type Repository interface {
	// CreateProfile inserts the row and reports false when one already exists.
	CreateProfile(ctx context.Context, profile entities.Profile) (bool, error)
	GetProfile(ctx context.Context, accountID string) (entities.Profile, error)
	UpdateProfile(ctx context.Context, profile entities.Profile) error
	ListProfiles(ctx context.Context, role entities.Role) ([]entities.Profile, error)
}

// RoleChangeListener is told about role changes so cached lookups can be
// dropped.
type RoleChangeListener interface {
	RoleChanged(ctx context.Context, accountID string)
}

type Clock interface {
	Now() time.Time
}
