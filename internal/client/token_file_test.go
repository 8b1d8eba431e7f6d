package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTokenFileRoundTrip(t *testing.T) {
	file := TokenFile{Path: filepath.Join(t.TempDir(), "nested", "session.yaml")}

	if _, ok, err := file.Load(); err != nil || ok {
		t.Fatalf("expected no session before save, got ok=%v err=%v", ok, err)
	}

	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := file.Save(StoredSession{AccessToken: "tok", SessionID: "sess", Email: "a@example.com", ExpiresAt: expires}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(file.Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	stored, ok, err := file.Load()
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if stored.AccessToken != "tok" || stored.SessionID != "sess" || !stored.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected stored session %+v", stored)
	}

	if err := file.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := file.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if _, ok, _ := file.Load(); ok {
		t.Fatal("expected session gone after clear")
	}
}
