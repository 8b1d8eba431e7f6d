package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordAdminActionRequest struct {
	Action        string `json:"action"`
	TargetType    string `json:"target_type"`
	TargetID      string `json:"target_id"`
	Justification string `json:"justification"`
}

type RecordAdminActionResponse struct {
	AuditID    string `json:"audit_id"`
	OccurredAt string `json:"occurred_at"`
}

type OverviewResponse struct {
	CampaignsByStatus    map[string]int `json:"campaigns_by_status"`
	ApplicationsByStatus map[string]int `json:"applications_by_status"`
	Brands               int            `json:"brands"`
	Influencers          int            `json:"influencers"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

type AuditLogEntryDTO struct {
	AuditID       string    `json:"audit_id"`
	ActorID       string    `json:"actor_id"`
	Action        string    `json:"action"`
	TargetType    string    `json:"target_type,omitempty"`
	TargetID      string    `json:"target_id,omitempty"`
	Justification string    `json:"justification,omitempty"`
	SourceEvent   string    `json:"source_event,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type AuditLogResponse struct {
	Entries []AuditLogEntryDTO `json:"entries"`
}
