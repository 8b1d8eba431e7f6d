package application

import (
	"context"
	"errors"
	"testing"

	"spotlight/contexts/identity-access/profile-service/adapters/memory"
	"spotlight/contexts/identity-access/profile-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/profile-service/domain/errors"
	"spotlight/contexts/identity-access/profile-service/ports"
)

type invalidations struct {
	accounts []string
}

func (i *invalidations) RoleChanged(_ context.Context, accountID string) {
	i.accounts = append(i.accounts, accountID)
}

func newService() (Service, *invalidations) {
	store := memory.NewStore()
	listener := &invalidations{}
	return Service{Repo: store, Clock: store, Listeners: []ports.RoleChangeListener{listener}}, listener
}

func TestProvisionIsIdempotent(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	first, err := service.Provision(ctx, "acct-1", "Acme", "brand")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	second, err := service.Provision(ctx, "acct-1", "Other name", "influencer")
	if err != nil {
		t.Fatalf("second provision: %v", err)
	}
	if second.DisplayName != first.DisplayName || second.Role != entities.RoleBrand {
		t.Fatalf("expected first profile to be kept, got %+v", second)
	}
}

func TestProvisionRejectsUnknownRole(t *testing.T) {
	service, _ := newService()
	if _, err := service.Provision(context.Background(), "acct-1", "Acme", "owner"); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role, got %v", err)
	}
	if _, err := service.Provision(context.Background(), " ", "Acme", "brand"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSetRoleIsVisibleToSubsequentFetch(t *testing.T) {
	service, listener := newService()
	ctx := context.Background()
	if _, err := service.Provision(ctx, "acct-user", "user", "influencer"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	if _, err := service.SetRole(ctx, "acct-user", "admin"); err != nil {
		t.Fatalf("set role: %v", err)
	}
	role, err := service.GetRole(ctx, "acct-user")
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role != entities.RoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}
	if len(listener.accounts) != 1 || listener.accounts[0] != "acct-user" {
		t.Fatalf("expected role change listener to fire, got %v", listener.accounts)
	}
	isAdmin, err := service.IsAdmin(ctx, "acct-user")
	if err != nil || !isAdmin {
		t.Fatalf("expected IsAdmin true, got %v %v", isAdmin, err)
	}
}

func TestGetRoleMissingProfile(t *testing.T) {
	service, _ := newService()
	if _, err := service.GetRole(context.Background(), "ghost"); !errors.Is(err, domainerrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
	isAdmin, err := service.IsAdmin(context.Background(), "ghost")
	if err != nil || isAdmin {
		t.Fatalf("expected IsAdmin false without error, got %v %v", isAdmin, err)
	}
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()
	if _, err := service.Provision(ctx, "acct-1", "Acme", "brand"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	name := "Acme Studio"
	avatar := "https://cdn.example.com/acme.png"
	updated, err := service.UpdateProfile(ctx, "acct-1", UpdateInput{DisplayName: &name, AvatarURL: &avatar})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DisplayName != name || updated.AvatarURL != avatar || updated.Role != entities.RoleBrand {
		t.Fatalf("unexpected profile %+v", updated)
	}

	bad := "javascript:alert(1)"
	if _, err := service.UpdateProfile(ctx, "acct-1", UpdateInput{AvatarURL: &bad}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid avatar rejection, got %v", err)
	}
	empty := "  "
	if _, err := service.UpdateProfile(ctx, "acct-1", UpdateInput{DisplayName: &empty}); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected empty name rejection, got %v", err)
	}
}

func TestListProfilesFiltersByRole(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()
	for _, seed := range []struct{ id, role string }{
		{"b-1", "brand"}, {"b-2", "brand"}, {"i-1", "influencer"}, {"a-1", "admin"},
	} {
		if _, err := service.Provision(ctx, seed.id, seed.id, seed.role); err != nil {
			t.Fatalf("provision %s: %v", seed.id, err)
		}
	}

	brands, err := service.ListProfiles(ctx, "brand")
	if err != nil {
		t.Fatalf("list brands: %v", err)
	}
	if len(brands) != 2 {
		t.Fatalf("expected 2 brands, got %d", len(brands))
	}
	for _, item := range brands {
		if item.Role != entities.RoleBrand {
			t.Fatalf("unexpected role in brand listing: %s", item.Role)
		}
	}
	all, err := service.ListProfiles(ctx, "")
	if err != nil || len(all) != 4 {
		t.Fatalf("expected 4 profiles, got %d (%v)", len(all), err)
	}
	if _, err := service.ListProfiles(ctx, "owner"); !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role filter, got %v", err)
	}
}
