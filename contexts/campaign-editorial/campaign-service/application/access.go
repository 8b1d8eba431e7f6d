package application

import (
	"context"
	"strings"

	domainerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"
)

const (
	RoleBrand = "brand"
	RoleAdmin = "admin"
)

// RequireRole fails with ErrForbidden unless accountID holds role. Without a
// lookup nobody holds any role.
func RequireRole(ctx context.Context, roles ports.RoleLookup, accountID string, role string) error {
	ok, err := HasRole(ctx, roles, accountID, role)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrForbidden
	}
	return nil
}

func HasRole(ctx context.Context, roles ports.RoleLookup, accountID string, role string) (bool, error) {
	accountID = strings.TrimSpace(accountID)
	if roles == nil || accountID == "" {
		return false, nil
	}
	actual, err := roles.GetRole(ctx, accountID)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(actual), role), nil
}
