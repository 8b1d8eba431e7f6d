package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"spotlight/contexts/identity-access/onboarding-service/application"
	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	httptransport "spotlight/contexts/identity-access/onboarding-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SubmitApplicationHandler(
	ctx context.Context,
	idempotencyKey string,
	req httptransport.SubmitApplicationRequest,
) (httptransport.SubmitApplicationResponse, error) {
	result, err := h.Service.Submit(ctx, strings.TrimSpace(idempotencyKey), application.SubmitInput{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Niche:          req.Niche,
		FollowerCount:  req.FollowerCount,
		EngagementRate: req.EngagementRate,
		PortfolioURL:   req.PortfolioURL,
		SocialHandles:  req.SocialHandles,
		Bio:            req.Bio,
	})
	if err != nil {
		return httptransport.SubmitApplicationResponse{}, err
	}
	return httptransport.SubmitApplicationResponse{
		Status:   "success",
		Replayed: result.Replayed,
		Data:     toDTO(result.Application),
	}, nil
}

func (h Handler) ListApplicationsHandler(
	ctx context.Context,
	actorID string,
	status string,
) (httptransport.ListApplicationsResponse, error) {
	items, err := h.Service.List(ctx, actorID, status)
	if err != nil {
		return httptransport.ListApplicationsResponse{}, err
	}
	resp := httptransport.ListApplicationsResponse{
		Status: "success",
		Data:   make([]httptransport.ApplicationDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toDTO(item))
	}
	return resp, nil
}

func (h Handler) GetApplicationHandler(
	ctx context.Context,
	actorID string,
	applicationID string,
) (httptransport.ApplicationResponse, error) {
	item, err := h.Service.Get(ctx, actorID, applicationID)
	if err != nil {
		return httptransport.ApplicationResponse{}, err
	}
	return httptransport.ApplicationResponse{Status: "success", Data: toDTO(item)}, nil
}

func (h Handler) ReviewApplicationHandler(
	ctx context.Context,
	actorID string,
	applicationID string,
	req httptransport.ReviewApplicationRequest,
) (httptransport.ApplicationResponse, error) {
	item, err := h.Service.Review(ctx, actorID, applicationID, req.Decision, req.Reason)
	if err != nil {
		return httptransport.ApplicationResponse{}, err
	}
	return httptransport.ApplicationResponse{Status: "success", Data: toDTO(item)}, nil
}

func toDTO(item entities.Application) httptransport.ApplicationDTO {
	handles := make(map[string]string, len(item.SocialHandles))
	for key, value := range item.SocialHandles {
		handles[key] = value
	}
	return httptransport.ApplicationDTO{
		ApplicationID:  item.ApplicationID,
		FullName:       item.FullName,
		Email:          item.Email,
		Phone:          item.Phone,
		Niche:          item.Niche,
		FollowerCount:  item.FollowerCount,
		EngagementRate: item.EngagementRate,
		PortfolioURL:   item.PortfolioURL,
		SocialHandles:  handles,
		Bio:            item.Bio,
		Status:         string(item.Status),
		ReviewedBy:     item.ReviewedBy,
		ReviewReason:   item.ReviewReason,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
