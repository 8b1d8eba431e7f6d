package bootstrap

import (
	"context"
	"errors"
	"sync"

	campaignservice "spotlight/contexts/campaign-editorial/campaign-service"
	onboarding "spotlight/contexts/identity-access/onboarding-service"
	profileapp "spotlight/contexts/identity-access/profile-service/application"
	profileerrors "spotlight/contexts/identity-access/profile-service/domain/errors"
)

// Cross-context adapters. Contexts only see their own ports; the types below
// translate between them.

// profileProvisioner satisfies identity's ProfileProvisioner.
type profileProvisioner struct {
	service profileapp.Service
}

func (p profileProvisioner) Provision(ctx context.Context, accountID string, displayName string, role string) error {
	_, err := p.service.Provision(ctx, accountID, displayName, role)
	return err
}

func (p profileProvisioner) SetRole(ctx context.Context, accountID string, role string) error {
	_, err := p.service.SetRole(ctx, accountID, role)
	return err
}

// profileRoles is the role lookup used by the guard, campaigns, applications
// and the admin dashboard. Accounts without a profile hold no role.
type profileRoles struct {
	service profileapp.Service
}

func (p profileRoles) GetRole(ctx context.Context, accountID string) (string, error) {
	role, err := p.service.GetRole(ctx, accountID)
	if errors.Is(err, profileerrors.ErrProfileNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(role), nil
}

// roleChangeRelay forwards profile role changes to a listener bound after
// construction, since the guard needs the profile module first.
type roleChangeRelay struct {
	mu     sync.RWMutex
	target interface {
		RoleChanged(ctx context.Context, accountID string)
	}
}

func (r *roleChangeRelay) bind(target interface {
	RoleChanged(ctx context.Context, accountID string)
}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
}

func (r *roleChangeRelay) RoleChanged(ctx context.Context, accountID string) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()
	if target != nil {
		target.RoleChanged(ctx, accountID)
	}
}

type campaignCounter struct {
	module campaignservice.Module
}

func (c campaignCounter) CountCampaignsByStatus(ctx context.Context) (map[string]int, error) {
	return c.module.Handler.CountByStatusHandler(ctx)
}

type applicationCounter struct {
	module onboarding.Module
}

func (c applicationCounter) CountApplicationsByStatus(ctx context.Context) (map[string]int, error) {
	return c.module.Service.CountByStatus(ctx)
}

type profileCounter struct {
	service profileapp.Service
}

func (c profileCounter) CountProfilesByRole(ctx context.Context) (map[string]int, error) {
	items, err := c.service.ListProfiles(ctx, "")
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, item := range items {
		counts[string(item.Role)]++
	}
	return counts, nil
}
