package queries

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spotlight/contexts/identity-access/authorization-service/adapters/memory"
	"spotlight/contexts/identity-access/authorization-service/domain/entities"
)

type stubRoles struct {
	mu    sync.Mutex
	roles map[string]string
	err   error
	calls int
	block chan struct{}
}

func (s *stubRoles) GetRole(ctx context.Context, accountID string) (string, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	if s.err != nil {
		return "", s.err
	}
	return s.roles[accountID], nil
}

func (s *stubRoles) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newGuard(roles *stubRoles) EvaluateGuardUseCase {
	store := memory.NewStore()
	return EvaluateGuardUseCase{Roles: roles, Cache: store, Clock: store, CacheTTL: time.Minute}
}

func TestGuardLoadingBeforeSessionResolves(t *testing.T) {
	guard := newGuard(&stubRoles{})
	outcome := guard.Execute(context.Background(), GuardInput{SessionResolved: false, Required: entities.RoleAdmin})
	if outcome.State != entities.GuardLoading || outcome.Navigates() {
		t.Fatalf("expected loading without navigation, got %+v", outcome)
	}
}

func TestGuardRedirectsAnonymousToAuth(t *testing.T) {
	roles := &stubRoles{}
	guard := newGuard(roles)
	for _, required := range []entities.Role{entities.RoleNone, entities.RoleBrand, entities.RoleAdmin, entities.RoleInfluencer} {
		outcome := guard.Execute(context.Background(), GuardInput{SessionResolved: true, Required: required})
		if outcome.State != entities.GuardRedirect || outcome.Target != entities.RouteAuth {
			t.Fatalf("required %q: expected redirect to /auth, got %+v", required, outcome)
		}
	}
	if roles.Calls() != 0 {
		t.Fatalf("expected no role lookups for anonymous callers")
	}
}

func TestGuardRendersAuthenticatedWithoutRole(t *testing.T) {
	roles := &stubRoles{}
	guard := newGuard(roles)
	outcome := guard.Execute(context.Background(), GuardInput{SessionResolved: true, UserID: "u-1"})
	if outcome.State != entities.GuardRender {
		t.Fatalf("expected render, got %+v", outcome)
	}
	if roles.Calls() != 0 {
		t.Fatalf("expected no role lookup when no role is required")
	}
}

func TestGuardRoleDecisions(t *testing.T) {
	roles := &stubRoles{roles: map[string]string{
		"brand-1":      "brand",
		"admin-1":      "admin",
		"influencer-1": "influencer",
	}}
	guard := newGuard(roles)
	cases := []struct {
		user     string
		required entities.Role
		state    entities.GuardState
		target   string
	}{
		{"brand-1", entities.RoleBrand, entities.GuardRender, ""},
		{"brand-1", entities.RoleAdmin, entities.GuardRedirect, entities.RouteBrandDashboard},
		{"admin-1", entities.RoleAdmin, entities.GuardRender, ""},
		{"admin-1", entities.RoleBrand, entities.GuardRedirect, entities.RouteAdmin},
		{"influencer-1", entities.RoleInfluencer, entities.GuardRedirect, entities.RouteInfluencerRestricted},
		{"influencer-1", entities.RoleBrand, entities.GuardRedirect, entities.RouteInfluencerRestricted},
		{"nobody", entities.RoleBrand, entities.GuardRedirect, entities.RouteDashboard},
	}
	for _, tc := range cases {
		outcome := guard.Execute(context.Background(), GuardInput{SessionResolved: true, UserID: tc.user, Required: tc.required})
		if outcome.State != tc.state || outcome.Target != tc.target {
			t.Fatalf("%s requiring %q: got %+v", tc.user, tc.required, outcome)
		}
	}
}

func TestGuardRoleLookupFailureFallsBackToDashboard(t *testing.T) {
	guard := newGuard(&stubRoles{err: errors.New("db down")})
	outcome := guard.Execute(context.Background(), GuardInput{SessionResolved: true, UserID: "u-1", Required: entities.RoleAdmin})
	if outcome.State != entities.GuardRedirect || outcome.Target != entities.RouteDashboard {
		t.Fatalf("expected dashboard fallback, got %+v", outcome)
	}
}

func TestGuardCancelledWhileRoleLookupPending(t *testing.T) {
	roles := &stubRoles{roles: map[string]string{"admin-1": "admin"}, block: make(chan struct{})}
	guard := newGuard(roles)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan entities.GuardOutcome, 1)
	go func() {
		done <- guard.Execute(ctx, GuardInput{SessionResolved: true, UserID: "admin-1", Required: entities.RoleBrand})
	}()
	for roles.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case outcome := <-done:
		if outcome.State != entities.GuardCancelled || outcome.Navigates() || outcome.Target != "" {
			t.Fatalf("expected cancelled outcome without navigation, got %+v", outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("guard did not return after cancellation")
	}
	close(roles.block)
}

func TestGuardUsesCacheAndInvalidation(t *testing.T) {
	roles := &stubRoles{roles: map[string]string{"u-1": "brand"}}
	store := memory.NewStore()
	guard := EvaluateGuardUseCase{Roles: roles, Cache: store, Clock: store, CacheTTL: time.Minute}
	ctx := context.Background()
	input := GuardInput{SessionResolved: true, UserID: "u-1", Required: entities.RoleAdmin}

	first := guard.Execute(ctx, input)
	second := guard.Execute(ctx, input)
	if first.CacheHit || !second.CacheHit {
		t.Fatalf("expected miss then hit, got %v %v", first.CacheHit, second.CacheHit)
	}
	if roles.Calls() != 1 {
		t.Fatalf("expected one role lookup, got %d", roles.Calls())
	}

	roles.mu.Lock()
	roles.roles["u-1"] = "admin"
	roles.mu.Unlock()
	if err := store.Invalidate(ctx, "u-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	third := guard.Execute(ctx, input)
	if third.State != entities.GuardRender {
		t.Fatalf("expected admin render after invalidation, got %+v", third)
	}
}
