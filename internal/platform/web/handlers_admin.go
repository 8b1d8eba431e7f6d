package web

import (
	"net/http"
	"net/url"
	"strings"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	onboardinghttp "spotlight/contexts/identity-access/onboarding-service/transport/http"

	"github.com/go-chi/chi/v5"
)

const adminAuditPreview = 10

func (s *site) adminOverview(w http.ResponseWriter, r *http.Request) {
	page := s.pageContext(r)
	ctx := r.Context()
	adminID := page.Viewer.ID
	view := adminOverviewView{StatusFilter: strings.TrimSpace(r.URL.Query().Get("status"))}

	var failed error
	if overview, err := s.deps.Admin.Handler.GetOverviewHandler(ctx, adminID); err != nil {
		failed = err
	} else {
		view.Overview = overview
	}
	if campaigns, err := s.deps.Campaigns.Handler.ListAllCampaignsHandler(ctx, adminID, view.StatusFilter); err != nil {
		failed = err
	} else {
		view.Campaigns = campaigns.Items
	}
	if applications, err := s.deps.Applications.Handler.ListApplicationsHandler(ctx, adminID, "pending"); err != nil {
		failed = err
	} else {
		view.Applications = applications.Data
	}
	if audit, err := s.deps.Admin.Handler.ListAuditLogHandler(ctx, adminID, adminAuditPreview); err != nil {
		failed = err
	} else {
		view.AuditLog = audit.Entries
	}
	if failed != nil {
		s.logBackendError(ctx, "web_admin_overview_failed", failed, "user_id", adminID)
		if page.Flash.Message == "" {
			page.Flash = flashError("Some admin data could not be loaded: " + userMessage(failed))
		}
	}
	renderHTML(w, http.StatusOK, adminOverviewPage(page, view))
}

func (s *site) adminBrands(w http.ResponseWriter, r *http.Request) {
	page := s.pageContext(r)
	brands, err := s.deps.Profiles.Handler.ListProfilesHandler(r.Context(), "brand")
	if err != nil {
		s.logBackendError(r.Context(), "web_admin_brands_failed", err)
		page.Flash = flashError("Could not load brands: " + userMessage(err))
	}
	renderHTML(w, http.StatusOK, adminBrandsPage(page, brands.Items))
}

func (s *site) adminInfluencers(w http.ResponseWriter, r *http.Request) {
	page := s.pageContext(r)
	influencers, err := s.deps.Profiles.Handler.ListProfilesHandler(r.Context(), "influencer")
	if err != nil {
		s.logBackendError(r.Context(), "web_admin_influencers_failed", err)
		page.Flash = flashError("Could not load influencers: " + userMessage(err))
	}
	applications, err := s.deps.Applications.Handler.ListApplicationsHandler(r.Context(), page.Viewer.ID, "")
	if err != nil {
		s.logBackendError(r.Context(), "web_admin_applications_failed", err)
		page.Flash = flashError("Could not load applications: " + userMessage(err))
	}
	renderHTML(w, http.StatusOK, adminInfluencersPage(page, influencers.Items, applications.Data))
}

func (s *site) adminChangeCampaignStatus(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaign_id")
	action := strings.TrimSpace(r.PostFormValue("action"))
	_, err := s.deps.Campaigns.Handler.ChangeStatusHandler(r.Context(), viewerFrom(r.Context()).ID, campaignID, campaignhttp.StatusActionRequest{
		Action: action,
		Reason: strings.TrimSpace(r.PostFormValue("reason")),
	})
	if err != nil {
		s.logBackendError(r.Context(), "web_admin_campaign_status_failed", err, "campaign_id", campaignID, "action", action)
		redirectWithFlash(w, r, "/admin", "error", "Could not "+action+" the campaign: "+userMessage(err))
		return
	}
	redirectWithFlash(w, r, "/admin", "notice", "Campaign updated.")
}

func (s *site) adminReviewApplication(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "application_id")
	decision := strings.TrimSpace(r.PostFormValue("decision"))
	_, err := s.deps.Applications.Handler.ReviewApplicationHandler(r.Context(), viewerFrom(r.Context()).ID, applicationID, onboardinghttp.ReviewApplicationRequest{
		Decision: decision,
		Reason:   strings.TrimSpace(r.PostFormValue("reason")),
	})
	if err != nil {
		s.logBackendError(r.Context(), "web_admin_application_review_failed", err, "application_id", applicationID, "decision", decision)
		redirectWithFlash(w, r, "/admin", "error", "Could not "+decision+" the application: "+userMessage(err))
		return
	}
	redirectWithFlash(w, r, "/admin", "notice", "Application reviewed.")
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	http.Redirect(w, r, path+"?"+url.Values{kind: {message}}.Encode(), http.StatusSeeOther)
}
