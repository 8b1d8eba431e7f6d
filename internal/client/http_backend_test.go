package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
)

// stallingSessionAPI answers session lookups and, once armed, holds the next
// lookup until released.
type stallingSessionAPI struct {
	armed   atomic.Bool
	once    sync.Once
	entered chan struct{}
	release chan struct{}
	served  chan struct{}
}

func newStallingSessionAPI(t *testing.T) (*stallingSessionAPI, *httptest.Server) {
	t.Helper()
	api := &stallingSessionAPI{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		served:  make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
		stalled := false
		if api.armed.Load() {
			api.once.Do(func() {
				stalled = true
				close(api.entered)
				<-api.release
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identityhttp.SessionResponse{
			User:    identityhttp.UserDTO{ID: "acct-1", Email: "brand@example.com", Role: "brand"},
			Session: identityhttp.SessionDTO{ID: "sess-1", ExpiresAt: time.Now().Add(time.Hour).Format(time.RFC3339)},
		})
		if stalled {
			close(api.served)
		}
	})
	mux.HandleFunc("POST /api/v1/auth/signout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return api, server
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestPollStartedBeforeSignOutCannotRestoreSession(t *testing.T) {
	api, server := newStallingSessionAPI(t)
	tokens := TokenFile{Path: filepath.Join(t.TempDir(), "session.yaml")}
	if err := tokens.Save(StoredSession{AccessToken: "token-1", SessionID: "sess-1", UserID: "acct-1"}); err != nil {
		t.Fatalf("save token: %v", err)
	}
	backend := &HTTPSessionBackend{
		Client:       NewClient(server.URL, ""),
		Tokens:       tokens,
		PollInterval: 5 * time.Millisecond,
		Logger:       quietLogger(),
	}
	provider := NewSessionProvider(backend, quietLogger())
	defer provider.Close()

	ctx := context.Background()
	if err := provider.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !provider.IsAuthenticated() {
		t.Fatal("expected the stored token to resolve to a session")
	}

	api.armed.Store(true)
	waitFor(t, api.entered, "a poll to reach the API")

	provider.SignOut(ctx)
	if provider.IsAuthenticated() {
		t.Fatal("expected sign out to clear the session")
	}

	close(api.release)
	waitFor(t, api.served, "the stalled poll to complete")

	for i := 0; i < 20; i++ {
		if provider.IsAuthenticated() {
			t.Fatal("a poll fetched before sign out restored the session")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, ok, err := tokens.Load(); err != nil || ok {
		t.Fatalf("expected token file to stay cleared, ok=%v err=%v", ok, err)
	}
}
