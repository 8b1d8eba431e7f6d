package unit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"spotlight/contexts/identity-access/authorization-service/application/queries"
	authzentities "spotlight/contexts/identity-access/authorization-service/domain/entities"
	identityapp "spotlight/contexts/identity-access/identity-service/application"
	"spotlight/internal/app/bootstrap"
	"spotlight/internal/platform/config"
)

func newRuntime(t *testing.T) *bootstrap.Runtime {
	t.Helper()
	rt, err := bootstrap.BuildRuntime(context.Background(), config.Config{
		ServiceName:     "spotlight",
		StorageDriver:   config.StorageDriverMemory,
		SessionTTL:      time.Hour,
		VerificationTTL: time.Hour,
		AdminInviteCode: "let-me-in",
		RoleCacheTTL:    time.Minute,
		IdempotencyTTL:  time.Hour,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("build runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestRoleElevationReachesProfileAndGuard(t *testing.T) {
	rt := newRuntime(t)
	ctx := context.Background()

	admin, err := rt.Identity.Service.SignUp(ctx, identityapp.SignUpInput{
		Email:           "ops@example.com",
		Password:        "password-1",
		Role:            "admin",
		DisplayName:     "Ops",
		AdminInviteCode: "let-me-in",
	})
	if err != nil {
		t.Fatalf("sign up admin: %v", err)
	}
	user, err := rt.Identity.Service.SignUp(ctx, identityapp.SignUpInput{
		Email:       "user@example.com",
		Password:    "password-1",
		Role:        "brand",
		DisplayName: "User",
	})
	if err != nil {
		t.Fatalf("sign up user: %v", err)
	}
	userID := user.Account.AccountID

	outcome := rt.Access.Guard.Execute(ctx, queries.GuardInput{
		SessionResolved: true,
		UserID:          userID,
		Required:        authzentities.RoleAdmin,
	})
	if outcome.State != authzentities.GuardRedirect || outcome.Target != authzentities.RouteBrandDashboard {
		t.Fatalf("expected brand redirected away from admin, got %+v", outcome)
	}

	if _, err := rt.Identity.Service.SetUserRole(ctx, admin.Account.AccountID, "user@example.com", "admin"); err != nil {
		t.Fatalf("set user role: %v", err)
	}

	role, err := rt.Profiles.Service.GetRole(ctx, userID)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if string(role) != "admin" {
		t.Fatalf("expected profile role admin, got %s", role)
	}

	outcome = rt.Access.Guard.Execute(ctx, queries.GuardInput{
		SessionResolved: true,
		UserID:          userID,
		Required:        authzentities.RoleAdmin,
	})
	if outcome.State != authzentities.GuardRender || outcome.CacheHit {
		t.Fatalf("expected fresh lookup to allow admin, got %+v", outcome)
	}
}

func TestGuardUnauthenticatedAndInfluencerRoutes(t *testing.T) {
	rt := newRuntime(t)
	ctx := context.Background()

	outcome := rt.Access.Guard.Execute(ctx, queries.GuardInput{SessionResolved: true, Required: authzentities.RoleBrand})
	if outcome.State != authzentities.GuardRedirect || outcome.Target != authzentities.RouteAuth {
		t.Fatalf("expected unauthenticated redirect to /auth, got %+v", outcome)
	}

	influencer, err := rt.Identity.Service.SignUp(ctx, identityapp.SignUpInput{
		Email:       "creator@example.com",
		Password:    "password-1",
		Role:        "influencer",
		DisplayName: "Creator",
	})
	if err != nil {
		t.Fatalf("sign up influencer: %v", err)
	}
	outcome = rt.Access.Guard.Execute(ctx, queries.GuardInput{
		SessionResolved: true,
		UserID:          influencer.Account.AccountID,
		Required:        authzentities.RoleInfluencer,
	})
	if outcome.State != authzentities.GuardRedirect || outcome.Target != authzentities.RouteInfluencerRestricted {
		t.Fatalf("expected influencer-required route to redirect, got %+v", outcome)
	}

	outcome = rt.Access.Guard.Execute(ctx, queries.GuardInput{SessionResolved: false})
	if outcome.State != authzentities.GuardLoading || outcome.Navigates() {
		t.Fatalf("expected loading without navigation, got %+v", outcome)
	}
}
