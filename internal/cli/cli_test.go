package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
	"spotlight/internal/app/bootstrap"
	"spotlight/internal/client"
	"spotlight/internal/platform/config"
	"spotlight/internal/platform/httpserver"
)

type harness struct {
	api       *httptest.Server
	tokenFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
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
	return &harness{api: api, tokenFile: filepath.Join(t.TempDir(), "session.yaml")}
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--api-url", h.api.URL, "--token-file", h.tokenFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (h *harness) signUp(t *testing.T, email, role string) {
	t.Helper()
	if _, err := client.NewClient(h.api.URL, "").SignUp(context.Background(), identityhttp.SignUpRequest{
		Email:       email,
		Password:    "correct-horse",
		Role:        role,
		DisplayName: "Acme",
	}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
}

func TestBrandWorkflow(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "brand@example.com", "brand")

	out, _, err := h.run(t, "login", "--email", "brand@example.com", "--password", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Signed in as brand@example.com (brand)") {
		t.Fatalf("unexpected login output %q", out)
	}

	out, _, err = h.run(t, "whoami", "-o", "json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var me map[string]any
	if err := json.Unmarshal([]byte(out), &me); err != nil {
		t.Fatalf("decode whoami: %v (%s)", err, out)
	}
	if me["role"] != "brand" || me["email"] != "brand@example.com" {
		t.Fatalf("unexpected whoami %v", me)
	}

	out, _, err = h.run(t, "campaigns", "create",
		"--title", "Spring launch",
		"--description", "New product line",
		"--budget", "25000",
		"--duration", "30",
		"--tier", "micro",
		"--audience", "Women 18-34",
		"--goals", "Awareness",
		"--content-type", "Reels",
		"--platform", "instagram",
		"--platform", "tiktok",
		"--timeline", "April",
		"--kpis", "Reach",
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, "status pending") {
		t.Fatalf("unexpected create output %q", out)
	}

	out, _, err = h.run(t, "campaigns", "list", "-o", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var items []campaignhttp.CampaignDTO
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("decode list: %v (%s)", err, out)
	}
	if len(items) != 1 || items[0].Status != "pending" || items[0].Budget != 25000 || items[0].DurationDays != 30 {
		t.Fatalf("unexpected campaigns %+v", items)
	}

	out, _, err = h.run(t, "campaigns", "list")
	if err != nil || !strings.Contains(out, "Spring launch") || !strings.Contains(out, "STATUS") {
		t.Fatalf("unexpected table output %q (%v)", out, err)
	}

	if _, _, err := h.run(t, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := h.run(t, "whoami"); !errors.Is(err, errNotSignedIn) {
		t.Fatalf("expected not signed in after logout, got %v", err)
	}
}

func TestCampaignCreateReportsMissingFlags(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run(t, "campaigns", "create", "--title", "Only a title")
	if err == nil || !strings.Contains(err.Error(), "--description") || !strings.Contains(err.Error(), "--platform") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestCampaignsListRequiresLogin(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "campaigns", "list"); !errors.Is(err, errNotSignedIn) {
		t.Fatalf("expected not signed in, got %v", err)
	}
}

func TestLogoutWithUnreachableAPIForgetsToken(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "offline@example.com", "brand")
	if _, _, err := h.run(t, "login", "--email", "offline@example.com", "--password", "correct-horse"); err != nil {
		t.Fatalf("login: %v", err)
	}

	h.api.Close()
	out, _, err := h.run(t, "logout")
	if err != nil {
		t.Fatalf("logout should not fail offline: %v", err)
	}
	if !strings.Contains(out, "Signed out") {
		t.Fatalf("unexpected logout output %q", out)
	}
	if _, ok, _ := (client.TokenFile{Path: h.tokenFile}).Load(); ok {
		t.Fatal("expected token file removed")
	}
}

func TestApplySubmitsApplication(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run(t, "apply",
		"--name", "Ava Chen",
		"--email", "ava@example.com",
		"--niche", "travel",
		"--followers", "120000",
		"--engagement", "4.2",
		"--handle", "instagram=@ava",
		"-o", "json",
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	var app map[string]any
	if err := json.Unmarshal([]byte(out), &app); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if app["status"] != "pending" || app["full_name"] != "Ava Chen" {
		t.Fatalf("unexpected application %v", app)
	}

	if _, _, err := h.run(t, "apply", "--name", "Ava", "--email", "ava@example.com", "--niche", "travel"); err == nil {
		t.Fatal("expected handle requirement error")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "brand@example.com", "brand")
	_, _, err := h.run(t, "login", "--email", "brand@example.com", "--password", "wrong-password")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.HTTPStatus != 401 {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestUnsupportedOutputFormat(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run(t, "whoami", "-o", "yaml"); err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Fatalf("expected output format error, got %v", err)
	}
}

func TestPrintErrorJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	printError(&stderr, &stdout, "json", &client.APIError{HTTPStatus: 403, Code: "forbidden", Message: "nope"})
	var payload map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["code"] != "forbidden" || payload["http_status"].(float64) != 403 {
		t.Fatalf("unexpected payload %v", payload)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected nothing on stderr, got %q", stderr.String())
	}
}
