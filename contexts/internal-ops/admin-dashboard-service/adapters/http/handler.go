package http

import (
	"context"
	"time"

	"spotlight/contexts/internal-ops/admin-dashboard-service/application"
	httptransport "spotlight/contexts/internal-ops/admin-dashboard-service/transport/http"
)

type Handler struct {
	Service application.Service
}

func (h Handler) GetOverviewHandler(ctx context.Context, adminID string) (httptransport.OverviewResponse, error) {
	overview, err := h.Service.GetOverview(ctx, adminID)
	if err != nil {
		return httptransport.OverviewResponse{}, err
	}
	return httptransport.OverviewResponse{
		CampaignsByStatus:    overview.CampaignsByStatus,
		ApplicationsByStatus: overview.ApplicationsByStatus,
		Brands:               overview.Brands,
		Influencers:          overview.Influencers,
		GeneratedAt:          overview.GeneratedAt,
	}, nil
}

func (h Handler) RecordAdminActionHandler(
	ctx context.Context,
	adminID string,
	idempotencyKey string,
	req httptransport.RecordAdminActionRequest,
) (httptransport.RecordAdminActionResponse, error) {
	row, err := h.Service.RecordAdminAction(ctx, idempotencyKey, application.RecordActionInput{
		ActorID:       adminID,
		Action:        req.Action,
		TargetType:    req.TargetType,
		TargetID:      req.TargetID,
		Justification: req.Justification,
	})
	if err != nil {
		return httptransport.RecordAdminActionResponse{}, err
	}
	return httptransport.RecordAdminActionResponse{
		AuditID:    row.AuditID,
		OccurredAt: row.OccurredAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h Handler) ListAuditLogHandler(ctx context.Context, adminID string, limit int) (httptransport.AuditLogResponse, error) {
	rows, err := h.Service.ListAuditLog(ctx, adminID, limit)
	if err != nil {
		return httptransport.AuditLogResponse{}, err
	}
	resp := httptransport.AuditLogResponse{Entries: make([]httptransport.AuditLogEntryDTO, 0, len(rows))}
	for _, row := range rows {
		resp.Entries = append(resp.Entries, httptransport.AuditLogEntryDTO{
			AuditID:       row.AuditID,
			ActorID:       row.ActorID,
			Action:        row.Action,
			TargetType:    row.TargetType,
			TargetID:      row.TargetID,
			Justification: row.Justification,
			SourceEvent:   row.SourceEvent,
			OccurredAt:    row.OccurredAt,
		})
	}
	return resp, nil
}
