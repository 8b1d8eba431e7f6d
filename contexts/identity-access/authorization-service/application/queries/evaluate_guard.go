package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "spotlight/contexts/identity-access/authorization-service/application"
	"spotlight/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/authorization-service/domain/errors"
	"spotlight/contexts/identity-access/authorization-service/domain/services"
	"spotlight/contexts/identity-access/authorization-service/ports"
)

const moduleName = "identity-access/authorization-service"

// GuardInput describes the caller as currently known.
type GuardInput struct {
	// SessionResolved is false while the session is still being fetched.
	SessionResolved bool
	UserID          string
	Required        entities.Role
}

// EvaluateGuardUseCase runs the gated-surface state machine.
type EvaluateGuardUseCase struct {
	Roles    ports.RoleSource
	Cache    ports.RoleCache
	Clock    ports.Clock
	CacheTTL time.Duration
	Logger   *slog.Logger
}

type roleResult struct {
	role     entities.Role
	cacheHit bool
	err      error
}

// Execute resolves the outcome for one navigation. A role lookup failure
// falls back to the generic dashboard. If ctx ends before the lookup returns
// the outcome is cancelled and carries no target.
func (u EvaluateGuardUseCase) Execute(ctx context.Context, input GuardInput) entities.GuardOutcome {
	if !input.SessionResolved {
		return entities.GuardOutcome{State: entities.GuardLoading, Reason: "session_loading"}
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return entities.GuardOutcome{State: entities.GuardRedirect, Target: entities.RouteAuth, Reason: "unauthenticated"}
	}
	if input.Required == entities.RoleNone {
		return entities.GuardOutcome{State: entities.GuardRender, Reason: "authenticated"}
	}
	if ctx.Err() != nil {
		return entities.GuardOutcome{State: entities.GuardCancelled, Reason: "cancelled"}
	}

	logger := application.ResolveLogger(u.Logger)
	results := make(chan roleResult, 1)
	go func() {
		role, hit, err := u.loadRole(ctx, userID)
		results <- roleResult{role: role, cacheHit: hit, err: err}
	}()

	var result roleResult
	select {
	case <-ctx.Done():
		logger.Debug("guard evaluation cancelled",
			"event", "access_guard_cancelled",
			"module", moduleName,
			"layer", "application",
			"user_id", userID,
		)
		return entities.GuardOutcome{State: entities.GuardCancelled, Reason: "cancelled"}
	case result = <-results:
	}
	if ctx.Err() != nil {
		return entities.GuardOutcome{State: entities.GuardCancelled, Reason: "cancelled"}
	}

	if result.err != nil {
		logger.Warn("role lookup failed, falling back to dashboard",
			"event", "access_guard_role_lookup_failed",
			"module", moduleName,
			"layer", "application",
			"user_id", userID,
			"required_role", string(input.Required),
			"error", result.err.Error(),
		)
		return entities.GuardOutcome{State: entities.GuardRedirect, Target: entities.RouteDashboard, Reason: "role_unavailable"}
	}

	decision := services.Decide(input.Required, result.role)
	if decision.Allowed {
		return entities.GuardOutcome{State: entities.GuardRender, Reason: "role_allowed", CacheHit: result.cacheHit}
	}
	logger.Info("guard redirect",
		"event", "access_guard_redirect",
		"module", moduleName,
		"layer", "application",
		"user_id", userID,
		"required_role", string(input.Required),
		"actual_role", string(result.role),
		"target", decision.Target,
		"cache_hit", result.cacheHit,
	)
	return entities.GuardOutcome{
		State:    entities.GuardRedirect,
		Target:   decision.Target,
		Reason:   "role_mismatch",
		CacheHit: result.cacheHit,
	}
}

func (u EvaluateGuardUseCase) loadRole(ctx context.Context, userID string) (entities.Role, bool, error) {
	now := u.now()
	if u.Cache != nil {
		role, hit, err := u.Cache.Get(ctx, userID, now)
		if err == nil && hit {
			return entities.ParseRole(role), true, nil
		}
		if err != nil {
			application.ResolveLogger(u.Logger).Warn("role cache read failed",
				"event", "access_guard_cache_read_failed",
				"module", moduleName,
				"layer", "application",
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}
	if u.Roles == nil {
		return entities.RoleNone, false, domainerrors.ErrRoleUnavailable
	}

	raw, err := u.Roles.GetRole(ctx, userID)
	if err != nil {
		return entities.RoleNone, false, err
	}
	role := entities.ParseRole(raw)
	if u.Cache != nil && u.CacheTTL > 0 {
		if err := u.Cache.Set(ctx, userID, string(role), now.Add(u.CacheTTL)); err != nil {
			application.ResolveLogger(u.Logger).Warn("role cache write failed",
				"event", "access_guard_cache_write_failed",
				"module", moduleName,
				"layer", "application",
				"user_id", userID,
				"error", err.Error(),
			)
		}
	}
	return role, false, nil
}

func (u EvaluateGuardUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
