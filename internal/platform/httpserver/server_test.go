package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
	profilehttp "spotlight/contexts/identity-access/profile-service/transport/http"
	"spotlight/internal/app/bootstrap"
	"spotlight/internal/platform/config"
	"spotlight/internal/platform/httpserver"
)

func newTestServer(t *testing.T, opts httpserver.Options) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt, err := bootstrap.BuildRuntime(context.Background(), config.Config{
		ServiceName:     "spotlight",
		StorageDriver:   config.StorageDriverMemory,
		SessionTTL:      time.Hour,
		VerificationTTL: time.Hour,
		AdminInviteCode: "let-me-in",
		RoleCacheTTL:    time.Minute,
		IdempotencyTTL:  time.Hour,
	}, logger)
	if err != nil {
		t.Fatalf("build runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	if opts.SignInRatePerSecond == 0 {
		opts.SignInRatePerSecond = 100
		opts.SignInBurst = 100
	}
	server := httpserver.New(httpserver.Modules{
		Identity:     rt.Identity,
		Profiles:     rt.Profiles,
		Campaigns:    rt.Campaigns,
		Applications: rt.Applications,
		Admin:        rt.Admin,
	}, opts, logger)
	return server.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v (body %s)", out, err, rec.Body.String())
	}
	return out
}

func signUpAndIn(t *testing.T, handler http.Handler, req identityhttp.SignUpRequest) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/signup", "", req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign up %s: %d %s", req.Email, rec.Code, rec.Body.String())
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/signin", "", identityhttp.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign in %s: %d %s", req.Email, rec.Code, rec.Body.String())
	}
	return decode[identityhttp.SessionResponse](t, rec).Session.AccessToken
}

func TestHealthz(t *testing.T) {
	handler := newTestServer(t, httpserver.Options{})
	rec := doJSON(t, handler, http.MethodGet, "/healthz", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	handler := newTestServer(t, httpserver.Options{})
	for _, path := range []string{"/api/v1/profiles/me", "/api/v1/campaigns", "/api/v1/admin/overview"} {
		rec := doJSON(t, handler, http.MethodGet, path, "", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
		if got := decode[identityhttp.ErrorResponse](t, rec).Code; got != "unauthorized" {
			t.Fatalf("%s: expected unauthorized code, got %q", path, got)
		}
	}
}

func TestSignInIsRateLimited(t *testing.T) {
	handler := newTestServer(t, httpserver.Options{SignInRatePerSecond: 0.001, SignInBurst: 2})
	body := identityhttp.SignInRequest{Email: "nobody@example.com", Password: "wrong-password"}
	for i := 0; i < 2; i++ {
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/signin", "", body, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/signin", "", body, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestCampaignCreateReplayAndList(t *testing.T) {
	handler := newTestServer(t, httpserver.Options{})
	token := signUpAndIn(t, handler, identityhttp.SignUpRequest{
		Email: "brand@example.com", Password: "password123", Role: "brand", DisplayName: "Acme",
	})

	create := campaignhttp.CreateCampaignRequest{
		Title:          "Summer Launch",
		Description:    "Launch of the summer collection",
		Budget:         25000,
		DurationDays:   30,
		InfluencerTier: "micro",
		TargetAudience: "18-30 outdoor fans",
		Goals:          "Awareness",
		ContentType:    "short video",
		Platforms:      []string{"instagram"},
		Timeline:       "June",
		KPIs:           "Reach 1M",
		Status:         "active",
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/campaigns", token, create, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key, got %d", rec.Code)
	}

	headers := map[string]string{"Idempotency-Key": "create-1"}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/campaigns", token, create, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	created := decode[campaignhttp.CreateCampaignResponse](t, rec)
	if created.Campaign.Status != "pending" {
		t.Fatalf("expected pending status, got %q", created.Campaign.Status)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/campaigns", token, create, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected replay 200, got %d", rec.Code)
	}
	replayed := decode[campaignhttp.CreateCampaignResponse](t, rec)
	if !replayed.Replayed || replayed.Campaign.CampaignID != created.Campaign.CampaignID {
		t.Fatalf("expected replay of %s, got %+v", created.Campaign.CampaignID, replayed)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/campaigns", token, nil, nil)
	list := decode[campaignhttp.ListCampaignsResponse](t, rec)
	if len(list.Items) != 1 || list.Items[0].CampaignID != created.Campaign.CampaignID {
		t.Fatalf("expected the created campaign first, got %+v", list.Items)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/admin/campaigns", token, nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected brand to be forbidden from admin listing, got %d", rec.Code)
	}
}

func TestAdminRoleElevationIsVisibleOnProfile(t *testing.T) {
	handler := newTestServer(t, httpserver.Options{})
	adminToken := signUpAndIn(t, handler, identityhttp.SignUpRequest{
		Email: "ops@example.com", Password: "password123", Role: "admin", DisplayName: "Ops", AdminInviteCode: "let-me-in",
	})
	userToken := signUpAndIn(t, handler, identityhttp.SignUpRequest{
		Email: "user@example.com", Password: "password123", Role: "brand", DisplayName: "User",
	})

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/rpc/set-user-role", userToken, identityhttp.SetUserRoleRequest{
		Email: "ops@example.com", Role: "brand",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected non-admin role change to be forbidden, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/rpc/set-user-role", adminToken, identityhttp.SetUserRoleRequest{
		Email: "user@example.com", Role: "admin",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected role change to succeed, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/profiles/me", userToken, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected profile, got %d", rec.Code)
	}
	if role := decode[profilehttp.ProfileResponse](t, rec).Profile.Role; role != "admin" {
		t.Fatalf("expected admin role after elevation, got %q", role)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/admin/overview", userToken, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected elevated user to read the overview, got %d", rec.Code)
	}
}

func TestPublicApplicationSubmit(t *testing.T) {
	handler := newTestServer(t, httpserver.Options{})
	body := map[string]any{
		"full_name":       "Jonah Reed",
		"email":           "jonah@example.com",
		"niche":           "food",
		"follower_count":  12000,
		"engagement_rate": 4.5,
		"social_handles":  map[string]string{"instagram": "@jonahcooks"},
	}
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/influencer-applications", "", body, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/influencer-applications", "", body, map[string]string{"Idempotency-Key": "apply-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
}
