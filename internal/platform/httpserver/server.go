package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	campaignservice "spotlight/contexts/campaign-editorial/campaign-service"
	identity "spotlight/contexts/identity-access/identity-service"
	onboarding "spotlight/contexts/identity-access/onboarding-service"
	profile "spotlight/contexts/identity-access/profile-service"
	admindashboardservice "spotlight/contexts/internal-ops/admin-dashboard-service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "spotlight/internal/platform/httpserver/docs"
)

const maxRequestBodyBytes = 1 << 20

// Modules are the context modules served by the JSON API.
type Modules struct {
	Identity     identity.Module
	Profiles     profile.Module
	Campaigns    campaignservice.Module
	Applications onboarding.Module
	Admin        admindashboardservice.Module
}

type Options struct {
	Addr                string
	AllowedOrigins      []string
	SignInRatePerSecond float64
	SignInBurst         int
}

type Server struct {
	router       chi.Router
	logger       *slog.Logger
	addr         string
	identity     identity.Module
	profiles     profile.Module
	campaigns    campaignservice.Module
	applications onboarding.Module
	admin        admindashboardservice.Module
	authLimiter  func(http.Handler) http.Handler
}

func New(modules Modules, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.SignInRatePerSecond <= 0 {
		opts.SignInRatePerSecond = 1
	}
	if opts.SignInBurst <= 0 {
		opts.SignInBurst = 5
	}

	s := &Server{
		router:       chi.NewRouter(),
		logger:       logger,
		addr:         opts.Addr,
		identity:     modules.Identity,
		profiles:     modules.Profiles,
		campaigns:    modules.Campaigns,
		applications: modules.Applications,
		admin:        modules.Admin,
		authLimiter: RateLimiter(RateLimitConfig{
			RequestsPerSecond: opts.SignInRatePerSecond,
			Burst:             opts.SignInBurst,
		}),
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(s.accessLog)
	s.router.Use(chimw.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests and for mounting the web UI.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Mount attaches a handler below pattern, e.g. the server-rendered pages at "/".
func (s *Server) Mount(pattern string, handler http.Handler) {
	s.router.Mount(pattern, handler)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(s.authLimiter).Post("/signup", s.handleSignUp)
			r.With(s.authLimiter).Post("/signin", s.handleSignIn)
			r.Post("/signout", s.handleSignOut)
			r.Post("/verify-email", s.handleVerifyEmail)
			r.Get("/session", s.handleGetSession)
			r.Post("/rpc/set-user-role", s.handleSetUserRole)
		})

		r.Get("/profiles/me", s.handleGetMyProfile)
		r.Patch("/profiles/me", s.handleUpdateMyProfile)
		r.Get("/profiles/{account_id}", s.handleGetProfile)
		r.Get("/profiles", s.handleListProfiles)

		r.Post("/campaigns", s.handleCreateCampaign)
		r.Get("/campaigns", s.handleListCampaigns)
		r.Get("/campaigns/{campaign_id}", s.handleGetCampaign)
		r.Get("/campaigns/{campaign_id}/history", s.handleGetCampaignHistory)

		r.Post("/influencer-applications", s.handleSubmitApplication)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/campaigns", s.handleAdminListCampaigns)
			r.Post("/campaigns/{campaign_id}/status", s.handleAdminChangeCampaignStatus)
			r.Get("/influencer-applications", s.handleAdminListApplications)
			r.Get("/influencer-applications/{application_id}", s.handleAdminGetApplication)
			r.Post("/influencer-applications/{application_id}/review", s.handleAdminReviewApplication)
			r.Get("/overview", s.handleAdminOverview)
			r.Get("/audit-log", s.handleAdminListAuditLog)
			r.Post("/audit-log", s.handleAdminRecordAction)
		})
	})
}

type errorWriter func(w http.ResponseWriter, status int, code string, message string)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, writeErr errorWriter) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"code":"internal_error","message":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func bearerToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Idempotency-Key"))
}
