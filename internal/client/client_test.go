package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
	onboardinghttp "spotlight/contexts/identity-access/onboarding-service/transport/http"
	"spotlight/internal/app/bootstrap"
	"spotlight/internal/client"
	"spotlight/internal/platform/config"
	"spotlight/internal/platform/httpserver"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt, err := bootstrap.BuildRuntime(context.Background(), config.Config{
		ServiceName:     "spotlight",
		StorageDriver:   config.StorageDriverMemory,
		SessionTTL:      time.Hour,
		VerificationTTL: time.Hour,
		RoleCacheTTL:    time.Minute,
		IdempotencyTTL:  time.Hour,
	}, logger)
	if err != nil {
		t.Fatalf("build runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	server := httpserver.New(httpserver.Modules{
		Identity:     rt.Identity,
		Profiles:     rt.Profiles,
		Campaigns:    rt.Campaigns,
		Applications: rt.Applications,
		Admin:        rt.Admin,
	}, httpserver.Options{SignInRatePerSecond: 100, SignInBurst: 100}, logger)
	api := httptest.NewServer(server.Handler())
	t.Cleanup(api.Close)
	return api
}

func newBackend(t *testing.T, baseURL string) *client.HTTPSessionBackend {
	t.Helper()
	return &client.HTTPSessionBackend{
		Client: client.NewClient(baseURL+"/", ""),
		Tokens: client.TokenFile{Path: filepath.Join(t.TempDir(), "session.yaml")},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func signUpBrand(t *testing.T, api *client.Client, email string) {
	t.Helper()
	if _, err := api.SignUp(context.Background(), identityhttp.SignUpRequest{
		Email:       email,
		Password:    "correct-horse",
		Role:        "brand",
		DisplayName: "Acme",
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
}

func TestBrandSessionAndCampaignFlow(t *testing.T) {
	api := newAPI(t)
	backend := newBackend(t, api.URL)
	ctx := context.Background()
	signUpBrand(t, backend.Client, "brand@example.com")

	provider := client.NewSessionProvider(backend, nil)
	defer provider.Close()
	if err := provider.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if provider.IsAuthenticated() {
		t.Fatal("expected signed out before sign in")
	}

	if _, _, err := backend.SignIn(ctx, "brand@example.com", "correct-horse"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !provider.IsAuthenticated() || provider.CurrentUser().Role != "brand" {
		t.Fatalf("expected watched sign in to reach provider, got %+v", provider.State())
	}

	user, session, err := backend.FetchSession(ctx)
	if err != nil || user == nil || session == nil {
		t.Fatalf("fetch session: %v %v %v", user, session, err)
	}

	store := client.NewCampaignStore(backend.Client.WithToken(session.AccessToken))
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	created, err := store.Create(ctx, "", campaignhttp.CreateCampaignRequest{
		Title:          "Spring launch",
		Description:    "New product line",
		Budget:         25000,
		DurationDays:   30,
		InfluencerTier: "micro",
		TargetAudience: "Women 18-34",
		Goals:          "Awareness",
		ContentType:    "Reels",
		Platforms:      []string{"instagram"},
		Timeline:       "April",
		KPIs:           "Reach",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "pending" {
		t.Fatalf("expected pending, got %s", created.Status)
	}
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("refresh after create: %v", err)
	}
	items := store.Items()
	if len(items) != 1 || items[0].CampaignID != created.CampaignID {
		t.Fatalf("expected created campaign first, got %+v", items)
	}

	provider.SignOut(ctx)
	if provider.IsAuthenticated() {
		t.Fatal("expected provider signed out")
	}
	if _, err := backend.Client.WithToken(session.AccessToken).GetSession(ctx); !client.IsUnauthorized(err) {
		t.Fatalf("expected revoked session, got %v", err)
	}
}

func TestSignOutWithUnreachableAPIClearsLocalSession(t *testing.T) {
	api := newAPI(t)
	backend := newBackend(t, api.URL)
	ctx := context.Background()
	signUpBrand(t, backend.Client, "offline@example.com")
	if _, _, err := backend.SignIn(ctx, "offline@example.com", "correct-horse"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	provider := client.NewSessionProvider(backend, nil)
	defer provider.Close()
	if err := provider.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !provider.IsAuthenticated() {
		t.Fatal("expected signed in")
	}

	api.Close()
	provider.SignOut(ctx)

	if provider.IsAuthenticated() || provider.CurrentSession() != nil {
		t.Fatalf("expected local state cleared, got %+v", provider.State())
	}
	if _, ok, err := backend.Tokens.Load(); err != nil || ok {
		t.Fatalf("expected token file cleared, got ok=%v err=%v", ok, err)
	}
}

func TestStaleTokenIsForgotten(t *testing.T) {
	api := newAPI(t)
	backend := newBackend(t, api.URL)
	if err := backend.Tokens.Save(client.StoredSession{AccessToken: "not-a-jwt"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	user, session, err := backend.FetchSession(context.Background())
	if err != nil || user != nil || session != nil {
		t.Fatalf("expected signed out without error, got %v %v %v", user, session, err)
	}
	if _, ok, _ := backend.Tokens.Load(); ok {
		t.Fatal("expected stale token removed")
	}
}

func TestSubmitApplicationRequiresKey(t *testing.T) {
	api := newAPI(t)
	c := client.NewClient(api.URL, "")
	req := onboardinghttp.SubmitApplicationRequest{
		FullName:       "Ava Chen",
		Email:          "ava@example.com",
		Niche:          "travel",
		FollowerCount:  120000,
		EngagementRate: 4.2,
		SocialHandles:  map[string]string{"instagram": "@ava"},
	}
	_, err := c.SubmitApplication(context.Background(), "", req)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.HTTPStatus != 400 {
		t.Fatalf("expected 400 without key, got %v", err)
	}
	resp, err := c.SubmitApplication(context.Background(), "app-key-1", req)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Data.Status != "pending" {
		t.Fatalf("expected pending application, got %s", resp.Data.Status)
	}
}
