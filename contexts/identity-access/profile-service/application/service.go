package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/identity-access/profile-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/profile-service/domain/errors"
	"spotlight/contexts/identity-access/profile-service/ports"
)

const moduleName = "identity-access/profile-service"

type Service struct {
	Repo      ports.Repository
	Listeners []ports.RoleChangeListener
	Clock     ports.Clock
	Logger    *slog.Logger
}

// UpdateInput carries self-service edits. Nil fields are left unchanged.
type UpdateInput struct {
	DisplayName *string
	AvatarURL   *string
}

// Provision creates the profile for a new account. A second call for the same
// account returns the stored row untouched.
func (s Service) Provision(ctx context.Context, accountID string, displayName string, role string) (entities.Profile, error) {
	accountID = strings.TrimSpace(accountID)
	parsedRole := entities.Role(strings.ToLower(strings.TrimSpace(role)))
	displayName = strings.TrimSpace(displayName)
	if accountID == "" || len(displayName) > entities.MaxDisplayNameLength {
		return entities.Profile{}, domainerrors.ErrInvalidInput
	}
	if !parsedRole.Valid() {
		return entities.Profile{}, domainerrors.ErrInvalidRole
	}

	now := s.now()
	profile := entities.Profile{
		AccountID:   accountID,
		DisplayName: displayName,
		Role:        parsedRole,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.Repo.CreateProfile(ctx, profile)
	if err != nil {
		return entities.Profile{}, err
	}
	if !created {
		return s.Repo.GetProfile(ctx, accountID)
	}

	ResolveLogger(s.Logger).Info("profile provisioned",
		"event", "profile_provisioned",
		"module", moduleName,
		"layer", "application",
		"account_id", accountID,
		"role", string(parsedRole),
	)
	return profile, nil
}

func (s Service) GetProfile(ctx context.Context, accountID string) (entities.Profile, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return entities.Profile{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetProfile(ctx, accountID)
}

// GetRole is the lookup gated navigation depends on.
func (s Service) GetRole(ctx context.Context, accountID string) (entities.Role, error) {
	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

func (s Service) UpdateProfile(ctx context.Context, accountID string, input UpdateInput) (entities.Profile, error) {
	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return entities.Profile{}, err
	}
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" || len(name) > entities.MaxDisplayNameLength {
			return entities.Profile{}, domainerrors.ErrInvalidInput
		}
		profile.DisplayName = name
	}
	if input.AvatarURL != nil {
		avatar := strings.TrimSpace(*input.AvatarURL)
		if !entities.ValidAvatarURL(avatar) {
			return entities.Profile{}, domainerrors.ErrInvalidInput
		}
		profile.AvatarURL = avatar
	}
	profile.UpdatedAt = s.now()
	if err := s.Repo.UpdateProfile(ctx, profile); err != nil {
		return entities.Profile{}, err
	}
	return profile, nil
}

// SetRole overwrites the stored role. Callers are expected to have checked
// that the actor is an admin.
func (s Service) SetRole(ctx context.Context, accountID string, role string) (entities.Profile, error) {
	parsedRole := entities.Role(strings.ToLower(strings.TrimSpace(role)))
	if !parsedRole.Valid() {
		return entities.Profile{}, domainerrors.ErrInvalidRole
	}
	profile, err := s.GetProfile(ctx, accountID)
	if err != nil {
		return entities.Profile{}, err
	}
	previous := profile.Role
	if previous != parsedRole {
		profile.Role = parsedRole
		profile.UpdatedAt = s.now()
		if err := s.Repo.UpdateProfile(ctx, profile); err != nil {
			return entities.Profile{}, err
		}
	}
	for _, listener := range s.Listeners {
		listener.RoleChanged(ctx, profile.AccountID)
	}

	ResolveLogger(s.Logger).Info("profile role set",
		"event", "profile_role_set",
		"module", moduleName,
		"layer", "application",
		"account_id", profile.AccountID,
		"previous_role", string(previous),
		"role", string(parsedRole),
	)
	return profile, nil
}

// ListProfiles returns every profile, or those holding role when it is set.
func (s Service) ListProfiles(ctx context.Context, role string) ([]entities.Profile, error) {
	filter := entities.Role(strings.ToLower(strings.TrimSpace(role)))
	if filter != "" && !filter.Valid() {
		return nil, domainerrors.ErrInvalidRole
	}
	return s.Repo.ListProfiles(ctx, filter)
}

// IsAdmin reports whether accountID holds the admin role. A missing profile is
// not an error here.
func (s Service) IsAdmin(ctx context.Context, accountID string) (bool, error) {
	role, err := s.GetRole(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrProfileNotFound) || errors.Is(err, domainerrors.ErrInvalidInput) {
			return false, nil
		}
		return false, err
	}
	return role == entities.RoleAdmin, nil
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
