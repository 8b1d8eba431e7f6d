package entities

import (
	"math"
	"strings"
	"time"
)

type CampaignStatus string
type InfluencerTier string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusApproved  CampaignStatus = "approved"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"

	InfluencerTierMicro InfluencerTier = "micro"
	InfluencerTierMacro InfluencerTier = "macro"
	InfluencerTierMega  InfluencerTier = "mega"
)

const (
	MaxTitleLength    = 200
	MaxPlatforms      = 10
	MaxPlatformLength = 50
)

type Campaign struct {
	CampaignID     string
	BrandID        string
	Title          string
	Description    string
	Budget         float64
	DurationDays   int
	InfluencerTier InfluencerTier
	TargetAudience string
	Goals          string
	ContentType    string
	Platforms      []string
	Timeline       string
	KPIs           string
	Status         CampaignStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateBasics checks the fields a brand supplies on creation.
func (c Campaign) ValidateBasics() bool {
	title := strings.TrimSpace(c.Title)
	return title != "" &&
		len(title) <= MaxTitleLength &&
		strings.TrimSpace(c.Description) != "" &&
		IsValidBudget(c.Budget) &&
		c.DurationDays > 0 &&
		IsSupportedTier(c.InfluencerTier) &&
		strings.TrimSpace(c.TargetAudience) != "" &&
		strings.TrimSpace(c.Goals) != "" &&
		strings.TrimSpace(c.ContentType) != "" &&
		ValidPlatforms(c.Platforms) &&
		strings.TrimSpace(c.Timeline) != "" &&
		strings.TrimSpace(c.KPIs) != ""
}

func IsSupportedTier(value InfluencerTier) bool {
	switch value {
	case InfluencerTierMicro, InfluencerTierMacro, InfluencerTierMega:
		return true
	default:
		return false
	}
}

func IsKnownStatus(value CampaignStatus) bool {
	switch value {
	case CampaignStatusPending, CampaignStatusApproved, CampaignStatusRejected,
		CampaignStatusActive, CampaignStatusPaused, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// IsValidBudget reports whether value is a finite, non-negative amount.
func IsValidBudget(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0) && value >= 0
}

// ValidPlatforms checks the platform list shape. Names are free text.
func ValidPlatforms(platforms []string) bool {
	if len(platforms) == 0 || len(platforms) > MaxPlatforms {
		return false
	}
	for _, item := range platforms {
		value := strings.TrimSpace(item)
		if value == "" || len(value) > MaxPlatformLength {
			return false
		}
	}
	return true
}

// NormalizePlatforms lower-cases, trims and de-duplicates platform names
// keeping first-seen order.
func NormalizePlatforms(platforms []string) []string {
	seen := make(map[string]struct{}, len(platforms))
	out := make([]string, 0, len(platforms))
	for _, item := range platforms {
		value := strings.ToLower(strings.TrimSpace(item))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
