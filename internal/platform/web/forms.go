package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	campaignentities "spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	campaignerrors "spotlight/contexts/campaign-editorial/campaign-service/domain/errors"
	identityerrors "spotlight/contexts/identity-access/identity-service/domain/errors"
	onboardingerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	admindomainerrors "spotlight/contexts/internal-ops/admin-dashboard-service/domain/errors"
)

// fieldErrors maps a form field name to the message shown under it.
type fieldErrors map[string]string

type signInForm struct {
	Email    string
	Password string
	Errors   fieldErrors
}

func (f signInForm) validate() fieldErrors {
	errs := fieldErrors{}
	if f.Email == "" {
		errs["email"] = "Email is required."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs
}

type signUpForm struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
	Errors      fieldErrors
}

func (f signUpForm) validate() fieldErrors {
	errs := fieldErrors{}
	if _, err := mail.ParseAddress(f.Email); err != nil || f.Email == "" {
		errs["email"] = "Enter a valid email address."
	}
	if len(f.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if f.DisplayName == "" {
		errs["display_name"] = "Display name is required."
	}
	if f.Role != "brand" && f.Role != "influencer" {
		errs["role"] = "Choose brand or influencer."
	}
	return errs
}

var campaignTiers = []string{"micro", "macro", "mega"}

type campaignForm struct {
	IdempotencyKey string
	Title          string
	Description    string
	Budget         string
	DurationDays   string
	InfluencerTier string
	TargetAudience string
	Goals          string
	ContentType    string
	Platforms      []string
	Timeline       string
	KPIs           string
	Errors         fieldErrors
}

func campaignFormFrom(r *http.Request) campaignForm {
	_ = r.ParseForm()
	return campaignForm{
		IdempotencyKey: strings.TrimSpace(r.PostForm.Get("idempotency_key")),
		Title:          strings.TrimSpace(r.PostForm.Get("title")),
		Description:    strings.TrimSpace(r.PostForm.Get("description")),
		Budget:         strings.TrimSpace(r.PostForm.Get("budget")),
		DurationDays:   strings.TrimSpace(r.PostForm.Get("duration_days")),
		InfluencerTier: strings.TrimSpace(r.PostForm.Get("influencer_tier")),
		TargetAudience: strings.TrimSpace(r.PostForm.Get("target_audience")),
		Goals:          strings.TrimSpace(r.PostForm.Get("goals")),
		ContentType:    strings.TrimSpace(r.PostForm.Get("content_type")),
		Platforms:      splitPlatforms(r.PostForm["platforms"]),
		Timeline:       strings.TrimSpace(r.PostForm.Get("timeline")),
		KPIs:           strings.TrimSpace(r.PostForm.Get("kpis")),
	}
}

func (f campaignForm) validate() fieldErrors {
	errs := fieldErrors{}
	required := map[string]string{
		"title":           f.Title,
		"description":     f.Description,
		"target_audience": f.TargetAudience,
		"goals":           f.Goals,
		"content_type":    f.ContentType,
		"timeline":        f.Timeline,
		"kpis":            f.KPIs,
	}
	for field, value := range required {
		if value == "" {
			errs[field] = "This field is required."
		}
	}
	if len(f.Title) > campaignentities.MaxTitleLength {
		errs["title"] = "Title is too long."
	}
	if budget, err := strconv.ParseFloat(f.Budget, 64); err != nil || !campaignentities.IsValidBudget(budget) {
		errs["budget"] = "Enter a budget as a non-negative number."
	}
	if days, err := strconv.Atoi(f.DurationDays); err != nil || days <= 0 {
		errs["duration_days"] = "Enter the duration in whole days."
	}
	if !campaignentities.IsSupportedTier(campaignentities.InfluencerTier(f.InfluencerTier)) {
		errs["influencer_tier"] = "Choose an influencer tier."
	}
	if len(f.Platforms) == 0 {
		errs["platforms"] = "Pick at least one platform."
	} else if !campaignentities.ValidPlatforms(f.Platforms) {
		errs["platforms"] = fmt.Sprintf("List up to %d platforms of at most %d characters each.",
			campaignentities.MaxPlatforms, campaignentities.MaxPlatformLength)
	}
	return errs
}

// splitPlatforms accepts comma-separated names in one or more form values.
func splitPlatforms(values []string) []string {
	var names []string
	for _, value := range values {
		names = append(names, strings.Split(value, ",")...)
	}
	return campaignentities.NormalizePlatforms(names)
}

// Parsed values are only meaningful after validate returned no errors.
func (f campaignForm) budget() float64 {
	value, _ := strconv.ParseFloat(f.Budget, 64)
	return value
}

func (f campaignForm) durationDays() int {
	value, _ := strconv.Atoi(f.DurationDays)
	return value
}

var applicationHandleFields = []string{"instagram", "tiktok", "youtube", "twitter"}

type applicationForm struct {
	IdempotencyKey string
	FullName       string
	Email          string
	Phone          string
	Niche          string
	FollowerCount  string
	EngagementRate string
	PortfolioURL   string
	Bio            string
	Handles        map[string]string
	Errors         fieldErrors
}

func applicationFormFrom(r *http.Request) applicationForm {
	_ = r.ParseForm()
	form := applicationForm{
		IdempotencyKey: strings.TrimSpace(r.PostForm.Get("idempotency_key")),
		FullName:       strings.TrimSpace(r.PostForm.Get("full_name")),
		Email:          strings.TrimSpace(r.PostForm.Get("email")),
		Phone:          strings.TrimSpace(r.PostForm.Get("phone")),
		Niche:          strings.TrimSpace(r.PostForm.Get("niche")),
		FollowerCount:  strings.TrimSpace(r.PostForm.Get("follower_count")),
		EngagementRate: strings.TrimSpace(r.PostForm.Get("engagement_rate")),
		PortfolioURL:   strings.TrimSpace(r.PostForm.Get("portfolio_url")),
		Bio:            strings.TrimSpace(r.PostForm.Get("bio")),
		Handles:        map[string]string{},
	}
	for _, platform := range applicationHandleFields {
		if handle := strings.TrimSpace(r.PostForm.Get("handle_" + platform)); handle != "" {
			form.Handles[platform] = handle
		}
	}
	return form
}

func (f applicationForm) validate() fieldErrors {
	errs := fieldErrors{}
	if f.FullName == "" {
		errs["full_name"] = "Full name is required."
	}
	if _, err := mail.ParseAddress(f.Email); err != nil || f.Email == "" {
		errs["email"] = "Enter a valid email address."
	}
	if f.Niche == "" {
		errs["niche"] = "Niche is required."
	}
	if count, err := strconv.ParseInt(f.FollowerCount, 10, 64); err != nil || count < 0 {
		errs["follower_count"] = "Enter your follower count as a whole number."
	}
	if rate, err := strconv.ParseFloat(f.EngagementRate, 64); err != nil || math.IsNaN(rate) || rate < 0 || rate > 100 {
		errs["engagement_rate"] = "Engagement rate must be between 0 and 100."
	}
	if len(f.Handles) == 0 {
		errs["handles"] = "Add at least one social handle."
	}
	if f.PortfolioURL != "" {
		parsed, err := url.Parse(f.PortfolioURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs["portfolio_url"] = "Portfolio must be an http or https link."
		}
	}
	if len(f.Bio) > 2000 {
		errs["bio"] = "Bio must be 2000 characters or fewer."
	}
	return errs
}

func (f applicationForm) followerCount() int64 {
	value, _ := strconv.ParseInt(f.FollowerCount, 10, 64)
	return value
}

func (f applicationForm) engagementRate() float64 {
	value, _ := strconv.ParseFloat(f.EngagementRate, 64)
	return value
}

// displayable errors carry a message that is safe to show as-is.
var displayable = []error{
	identityerrors.ErrInvalidInput,
	identityerrors.ErrInvalidRole,
	identityerrors.ErrEmailTaken,
	identityerrors.ErrAdminInviteRequired,
	identityerrors.ErrInvalidCredentials,
	identityerrors.ErrEmailNotVerified,
	identityerrors.ErrInvalidVerificationToken,
	campaignerrors.ErrCampaignNotFound,
	campaignerrors.ErrInvalidCampaignInput,
	campaignerrors.ErrInvalidStateTransition,
	campaignerrors.ErrStatusConflict,
	campaignerrors.ErrIdempotencyKeyConflict,
	onboardingerrors.ErrInvalidRequest,
	onboardingerrors.ErrApplicationNotFound,
	onboardingerrors.ErrAlreadyReviewed,
	onboardingerrors.ErrIdempotencyConflict,
}

func userMessage(err error) string {
	for _, known := range displayable {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if isForbidden(err) {
		return "you do not have access to this action"
	}
	return "something went wrong, please try again"
}

func isForbidden(err error) bool {
	return errors.Is(err, identityerrors.ErrForbidden) ||
		errors.Is(err, campaignerrors.ErrForbidden) ||
		errors.Is(err, onboardingerrors.ErrForbidden) ||
		errors.Is(err, admindomainerrors.ErrForbidden)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, identityerrors.ErrInvalidCredentials),
		errors.Is(err, identityerrors.ErrEmailNotVerified):
		return http.StatusUnauthorized
	case isForbidden(err):
		return http.StatusForbidden
	case errors.Is(err, identityerrors.ErrEmailTaken),
		errors.Is(err, campaignerrors.ErrStatusConflict),
		errors.Is(err, campaignerrors.ErrInvalidStateTransition),
		errors.Is(err, campaignerrors.ErrIdempotencyKeyConflict),
		errors.Is(err, onboardingerrors.ErrAlreadyReviewed),
		errors.Is(err, onboardingerrors.ErrIdempotencyConflict):
		return http.StatusConflict
	case errors.Is(err, campaignerrors.ErrCampaignNotFound),
		errors.Is(err, onboardingerrors.ErrApplicationNotFound):
		return http.StatusNotFound
	case errors.Is(err, identityerrors.ErrInvalidInput),
		errors.Is(err, identityerrors.ErrInvalidRole),
		errors.Is(err, identityerrors.ErrAdminInviteRequired),
		errors.Is(err, identityerrors.ErrInvalidVerificationToken),
		errors.Is(err, campaignerrors.ErrInvalidCampaignInput),
		errors.Is(err, onboardingerrors.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
