package web

import (
	"net/http"
	"strings"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"

	"github.com/google/uuid"
)

func (s *site) dashboard(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, dashboardPage(s.pageContext(r)))
}

func (s *site) brandDashboard(w http.ResponseWriter, r *http.Request) {
	page := s.pageContext(r)
	list, err := s.deps.Campaigns.Handler.ListCampaignsHandler(r.Context(), page.Viewer.ID, "")
	if err != nil {
		s.logBackendError(r.Context(), "web_brand_dashboard_failed", err, "user_id", page.Viewer.ID)
		page.Flash = flashError("Could not load your campaigns: " + userMessage(err))
	}
	counts := map[string]int{}
	for _, item := range list.Items {
		counts[item.Status]++
	}
	recent := list.Items
	if len(recent) > 5 {
		recent = recent[:5]
	}
	renderHTML(w, http.StatusOK, brandDashboardPage(page, counts, recent))
}

func (s *site) campaignsPage(w http.ResponseWriter, r *http.Request) {
	page := s.pageContext(r)
	items := s.loadBrandCampaigns(r, &page)
	renderHTML(w, http.StatusOK, campaignsPage(page, items, campaignForm{IdempotencyKey: uuid.NewString()}))
}

// createCampaign keeps the submitted values on any failure. The hidden
// idempotency key makes a double submit replay the first result.
func (s *site) createCampaign(w http.ResponseWriter, r *http.Request) {
	form := campaignFormFrom(r)
	if form.IdempotencyKey == "" {
		form.IdempotencyKey = uuid.NewString()
	}
	page := s.pageContext(r)
	if errs := form.validate(); len(errs) > 0 {
		form.Errors = errs
		items := s.loadBrandCampaigns(r, &page)
		renderHTML(w, http.StatusUnprocessableEntity, campaignsPage(page, items, form))
		return
	}

	_, err := s.deps.Campaigns.Handler.CreateCampaignHandler(r.Context(), page.Viewer.ID, form.IdempotencyKey, campaignhttp.CreateCampaignRequest{
		Title:          form.Title,
		Description:    form.Description,
		Budget:         form.budget(),
		DurationDays:   form.durationDays(),
		InfluencerTier: form.InfluencerTier,
		TargetAudience: form.TargetAudience,
		Goals:          form.Goals,
		ContentType:    form.ContentType,
		Platforms:      form.Platforms,
		Timeline:       form.Timeline,
		KPIs:           form.KPIs,
	})
	if err != nil {
		s.logBackendError(r.Context(), "web_campaign_create_failed", err, "user_id", page.Viewer.ID)
		items := s.loadBrandCampaigns(r, &page)
		page.Flash = flashError("Could not create the campaign: " + userMessage(err))
		renderHTML(w, statusFor(err), campaignsPage(page, items, form))
		return
	}
	http.Redirect(w, r, "/campaigns?notice=Campaign+submitted+for+review.", http.StatusSeeOther)
}

func (s *site) loadBrandCampaigns(r *http.Request, page *pageContext) []campaignhttp.CampaignDTO {
	list, err := s.deps.Campaigns.Handler.ListCampaignsHandler(r.Context(), page.Viewer.ID, strings.TrimSpace(r.URL.Query().Get("status")))
	if err != nil {
		s.logBackendError(r.Context(), "web_campaign_list_failed", err, "user_id", page.Viewer.ID)
		page.Flash = flashError("Could not load your campaigns: " + userMessage(err))
		return nil
	}
	return list.Items
}

func (s *site) influencerDirectory(w http.ResponseWriter, r *http.Request) {
	niche := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("niche")))
	renderHTML(w, http.StatusOK, influencerDirectoryPage(
		s.pageContext(r),
		s.samples.niches(),
		niche,
		s.samples.influencersByNiche(niche),
	))
}

func (s *site) analytics(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, analyticsPage(s.pageContext(r), s.samples.Analytics))
}

func (s *site) influencerRestricted(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, influencerRestrictedPage(s.pageContext(r)))
}
