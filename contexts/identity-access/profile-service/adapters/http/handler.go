package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"spotlight/contexts/identity-access/profile-service/application"
	"spotlight/contexts/identity-access/profile-service/domain/entities"
	httptransport "spotlight/contexts/identity-access/profile-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetProfileHandler(ctx context.Context, accountID string) (httptransport.ProfileResponse, error) {
	profile, err := h.Service.GetProfile(ctx, accountID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: mapProfile(profile)}, nil
}

func (h Handler) UpdateProfileHandler(
	ctx context.Context,
	accountID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ProfileResponse, error) {
	profile, err := h.Service.UpdateProfile(ctx, accountID, application.UpdateInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return httptransport.ProfileResponse{Profile: mapProfile(profile)}, nil
}

func (h Handler) ListProfilesHandler(ctx context.Context, role string) (httptransport.ListProfilesResponse, error) {
	items, err := h.Service.ListProfiles(ctx, role)
	if err != nil {
		return httptransport.ListProfilesResponse{}, err
	}
	resp := httptransport.ListProfilesResponse{Items: make([]httptransport.ProfileDTO, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, mapProfile(item))
	}
	return resp, nil
}

func mapProfile(profile entities.Profile) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		AccountID:   profile.AccountID,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
		Role:        string(profile.Role),
		CreatedAt:   profile.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   profile.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
