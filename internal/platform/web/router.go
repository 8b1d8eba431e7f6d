// Package web serves the server-rendered pages: landing, auth, the brand
// workspace, the influencer application form and the admin console.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	campaignservice "spotlight/contexts/campaign-editorial/campaign-service"
	authorization "spotlight/contexts/identity-access/authorization-service"
	authentities "spotlight/contexts/identity-access/authorization-service/domain/entities"
	identity "spotlight/contexts/identity-access/identity-service"
	onboarding "spotlight/contexts/identity-access/onboarding-service"
	profile "spotlight/contexts/identity-access/profile-service"
	admindashboardservice "spotlight/contexts/internal-ops/admin-dashboard-service"

	"github.com/go-chi/chi/v5"
	gomponents "maragu.dev/gomponents"
)

// Dependencies are the context modules the pages read from and write to.
type Dependencies struct {
	Identity      identity.Module
	Profiles      profile.Module
	Access        authorization.Module
	Campaigns     campaignservice.Module
	Applications  onboarding.Module
	Admin         admindashboardservice.Module
	SecureCookies bool
	Logger        *slog.Logger
}

type site struct {
	deps    Dependencies
	samples sampleData
	logger  *slog.Logger
}

// NewRouter builds the page router. It fails only if the embedded sample
// dataset cannot be parsed.
func NewRouter(deps Dependencies) (http.Handler, error) {
	samples, err := loadSamples()
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &site{deps: deps, samples: samples, logger: logger}

	guard := deps.Access.Middleware(func(r *http.Request) string {
		return viewerFrom(r.Context()).ID
	})

	r := chi.NewRouter()
	r.Use(s.loadViewer)
	r.Use(s.ensureCSRFToken)
	r.Use(s.requireCSRF)
	r.NotFound(s.notFound)

	r.Get("/static/app.css", serveStylesheet)

	r.Get("/", s.landing)
	r.Get("/auth", s.authPage)
	r.Post("/auth/signin", s.signIn)
	r.Post("/auth/signup", s.signUp)
	r.Post("/auth/signout", s.signOut)
	r.Get("/auth/verify", s.verifyEmail)
	r.Get("/apply-influencer", s.applyPage)
	r.Post("/apply-influencer", s.applySubmit)

	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticated)
		r.Get("/dashboard", s.dashboard)
		r.Get("/influencers", s.influencerDirectory)
		r.Get("/analytics", s.analytics)
		r.Get("/influencer-restricted", s.influencerRestricted)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.Require(authentities.RoleBrand))
		r.Get("/brand-dashboard", s.brandDashboard)
		r.Get("/campaigns", s.campaignsPage)
		r.Post("/campaigns", s.createCampaign)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(guard.Require(authentities.RoleAdmin))
		r.Get("/", s.adminOverview)
		r.Get("/brands", s.adminBrands)
		r.Get("/influencers", s.adminInfluencers)
		r.Post("/campaigns/{campaign_id}/status", s.adminChangeCampaignStatus)
		r.Post("/influencer-applications/{application_id}/review", s.adminReviewApplication)
	})

	return r, nil
}

func (s *site) notFound(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusNotFound, notFoundPage(s.pageContext(r)))
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func (s *site) logBackendError(ctx context.Context, event string, err error, attrs ...any) {
	if errors.Is(err, context.Canceled) {
		return
	}
	args := append([]any{
		"event", event,
		"module", "internal/platform/web",
		"layer", "platform",
		"error", err.Error(),
	}, attrs...)
	s.logger.WarnContext(ctx, "page action failed", args...)
}
