package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitApplicationRequest struct {
	FullName       string            `json:"full_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone,omitempty"`
	Niche          string            `json:"niche"`
	FollowerCount  int64             `json:"follower_count"`
	EngagementRate float64           `json:"engagement_rate"`
	PortfolioURL   string            `json:"portfolio_url,omitempty"`
	SocialHandles  map[string]string `json:"social_handles"`
	Bio            string            `json:"bio,omitempty"`
}

type ReviewApplicationRequest struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

type ApplicationDTO struct {
	ApplicationID  string            `json:"application_id"`
	FullName       string            `json:"full_name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone,omitempty"`
	Niche          string            `json:"niche"`
	FollowerCount  int64             `json:"follower_count"`
	EngagementRate float64           `json:"engagement_rate"`
	PortfolioURL   string            `json:"portfolio_url,omitempty"`
	SocialHandles  map[string]string `json:"social_handles"`
	Bio            string            `json:"bio,omitempty"`
	Status         string            `json:"status"`
	ReviewedBy     string            `json:"reviewed_by,omitempty"`
	ReviewReason   string            `json:"review_reason,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type SubmitApplicationResponse struct {
	Status   string         `json:"status"`
	Replayed bool           `json:"replayed"`
	Data     ApplicationDTO `json:"data"`
}

type ApplicationResponse struct {
	Status string         `json:"status"`
	Data   ApplicationDTO `json:"data"`
}

type ListApplicationsResponse struct {
	Status string           `json:"status"`
	Data   []ApplicationDTO `json:"data"`
}
