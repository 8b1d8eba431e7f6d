package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"spotlight/contexts/campaign-editorial/campaign-service/application/commands"
	"spotlight/contexts/campaign-editorial/campaign-service/application/queries"
	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	httptransport "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
)

type Handler struct {
	CreateCampaign   commands.CreateCampaignUseCase
	ChangeStatus     commands.ChangeStatusUseCase
	ListCampaigns    queries.ListCampaignsUseCase
	ListAllCampaigns queries.ListAllCampaignsUseCase
	GetCampaign      queries.GetCampaignUseCase
	GetHistory       queries.GetHistoryUseCase
	CountByStatus    queries.CountByStatusUseCase
	Logger           *slog.Logger
}

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	userID string,
	idempotencyKey string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	result, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		BrandID:        userID,
		IdempotencyKey: idempotencyKey,
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		DurationDays:   req.DurationDays,
		InfluencerTier: req.InfluencerTier,
		TargetAudience: req.TargetAudience,
		Goals:          req.Goals,
		ContentType:    req.ContentType,
		Platforms:      append([]string(nil), req.Platforms...),
		Timeline:       req.Timeline,
		KPIs:           req.KPIs,
	})
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{
		Campaign: mapCampaign(result.Campaign),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, userID string, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		BrandID: userID,
		Status:  status,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	return httptransport.ListCampaignsResponse{Items: mapCampaigns(items)}, nil
}

func (h Handler) ListAllCampaignsHandler(ctx context.Context, userID string, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListAllCampaigns.Execute(ctx, userID, status)
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	return httptransport.ListCampaignsResponse{Items: mapCampaigns(items)}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, userID string, campaignID string) (httptransport.GetCampaignResponse, error) {
	item, err := h.GetCampaign.Execute(ctx, userID, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) GetHistoryHandler(ctx context.Context, userID string, campaignID string) (httptransport.StatusHistoryResponse, error) {
	items, err := h.GetHistory.Execute(ctx, userID, campaignID)
	if err != nil {
		return httptransport.StatusHistoryResponse{}, err
	}
	resp := httptransport.StatusHistoryResponse{Items: make([]httptransport.StatusHistoryDTO, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, httptransport.StatusHistoryDTO{
			FromStatus: string(item.FromState),
			ToStatus:   string(item.ToState),
			ChangedBy:  item.ChangedBy,
			Reason:     item.ChangeReason,
			ChangedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	userID string,
	campaignID string,
	req httptransport.StatusActionRequest,
) (httptransport.GetCampaignResponse, error) {
	item, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		CampaignID: campaignID,
		ActorID:    userID,
		Action:     entities.StatusAction(req.Action),
		Reason:     req.Reason,
	})
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

// CountByStatus serves the admin overview.
func (h Handler) CountByStatusHandler(ctx context.Context) (map[string]int, error) {
	return h.CountByStatus.Execute(ctx)
}

func mapCampaigns(items []entities.Campaign) []httptransport.CampaignDTO {
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return result
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	platforms := append([]string(nil), item.Platforms...)
	if platforms == nil {
		platforms = []string{}
	}
	return httptransport.CampaignDTO{
		CampaignID:     item.CampaignID,
		BrandID:        item.BrandID,
		Title:          item.Title,
		Description:    item.Description,
		Budget:         item.Budget,
		DurationDays:   item.DurationDays,
		InfluencerTier: string(item.InfluencerTier),
		TargetAudience: item.TargetAudience,
		Goals:          item.Goals,
		ContentType:    item.ContentType,
		Platforms:      platforms,
		Timeline:       item.Timeline,
		KPIs:           item.KPIs,
		Status:         string(item.Status),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
