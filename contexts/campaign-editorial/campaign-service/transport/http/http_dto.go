package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCampaignRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Budget         float64  `json:"budget"`
	DurationDays   int      `json:"duration_days"`
	InfluencerTier string   `json:"influencer_tier"`
	TargetAudience string   `json:"target_audience"`
	Goals          string   `json:"goals"`
	ContentType    string   `json:"content_type"`
	Platforms      []string `json:"platforms"`
	Timeline       string   `json:"timeline"`
	KPIs           string   `json:"kpis"`
	// Status is accepted and ignored; new campaigns always start pending.
	Status string `json:"status,omitempty"`
}

type StatusActionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type CampaignDTO struct {
	CampaignID     string   `json:"campaign_id"`
	BrandID        string   `json:"brand_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Budget         float64  `json:"budget"`
	DurationDays   int      `json:"duration_days"`
	InfluencerTier string   `json:"influencer_tier"`
	TargetAudience string   `json:"target_audience"`
	Goals          string   `json:"goals"`
	ContentType    string   `json:"content_type"`
	Platforms      []string `json:"platforms"`
	Timeline       string   `json:"timeline"`
	KPIs           string   `json:"kpis"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
	Replayed bool        `json:"replayed"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type StatusHistoryDTO struct {
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ChangedBy  string `json:"changed_by"`
	Reason     string `json:"reason"`
	ChangedAt  string `json:"changed_at"`
}

type StatusHistoryResponse struct {
	Items []StatusHistoryDTO `json:"items"`
}
