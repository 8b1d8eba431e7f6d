package commands

import (
	"context"
	"log/slog"
	"strings"

	application "spotlight/contexts/identity-access/authorization-service/application"
	domainerrors "spotlight/contexts/identity-access/authorization-service/domain/errors"
	"spotlight/contexts/identity-access/authorization-service/ports"
)

// InvalidateRoleUseCase drops a cached role after the stored one changes.
type InvalidateRoleUseCase struct {
	Cache  ports.RoleCache
	Logger *slog.Logger
}

func (u InvalidateRoleUseCase) Execute(ctx context.Context, accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domainerrors.ErrInvalidUserID
	}
	if u.Cache == nil {
		return nil
	}
	if err := u.Cache.Invalidate(ctx, accountID); err != nil {
		application.ResolveLogger(u.Logger).Error("role cache invalidation failed",
			"event", "access_guard_cache_invalidate_failed",
			"module", "identity-access/authorization-service",
			"layer", "application",
			"user_id", accountID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

// RoleChanged satisfies the profile service's listener contract. Failures are
// logged by Execute and the cached entry ages out on its TTL.
func (u InvalidateRoleUseCase) RoleChanged(ctx context.Context, accountID string) {
	_ = u.Execute(ctx, accountID)
}
