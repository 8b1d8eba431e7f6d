package entities

import (
	"math"
	"net/mail"
	"net/url"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Target is the status a decision moves a pending application to.
func (d Decision) Target() (Status, bool) {
	switch d {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	default:
		return "", false
	}
}

type Application struct {
	ApplicationID  string
	FullName       string
	Email          string
	Phone          string
	Niche          string
	FollowerCount  int64
	EngagementRate float64
	PortfolioURL   string
	SocialHandles  map[string]string
	Bio            string
	Status         Status
	ReviewedBy     string
	ReviewReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	MaxBioLength     = 2000
	MaxNameLength    = 120
	MaxSocialHandles = 10
)

// Validate checks applicant-supplied fields.
func (a Application) Validate() bool {
	name := strings.TrimSpace(a.FullName)
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	if !validEmail(a.Email) || strings.TrimSpace(a.Niche) == "" {
		return false
	}
	if a.FollowerCount < 0 || math.IsNaN(a.EngagementRate) || a.EngagementRate < 0 || a.EngagementRate > 100 {
		return false
	}
	if len(a.SocialHandles) == 0 || len(a.SocialHandles) > MaxSocialHandles {
		return false
	}
	for platform, handle := range a.SocialHandles {
		if strings.TrimSpace(platform) == "" || strings.TrimSpace(handle) == "" {
			return false
		}
	}
	if len(a.Bio) > MaxBioLength {
		return false
	}
	return validOptionalURL(a.PortfolioURL)
}

// NormalizeHandles lower-cases platform keys and trims values. Empty pairs are
// dropped.
func NormalizeHandles(handles map[string]string) map[string]string {
	out := make(map[string]string, len(handles))
	for platform, handle := range handles {
		key := strings.ToLower(strings.TrimSpace(platform))
		value := strings.TrimSpace(handle)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	parsed, err := mail.ParseAddress(email)
	return err == nil && parsed.Address == email
}

func validOptionalURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
