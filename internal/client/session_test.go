package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeBackend struct {
	mu       sync.Mutex
	user     *User
	session  *Session
	fetchErr error
	watchFn  func(*User, *Session)
	unwatch  int

	signOutStarted chan struct{}
	releaseSignOut chan struct{}
	signOutErr     error
}

func (f *fakeBackend) FetchSession(context.Context) (*User, *Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, f.session, f.fetchErr
}

func (f *fakeBackend) Watch(_ context.Context, fn func(*User, *Session)) (func(), error) {
	f.mu.Lock()
	f.watchFn = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unwatch++
		f.mu.Unlock()
	}, nil
}

func (f *fakeBackend) SignOut(context.Context) error {
	if f.signOutStarted != nil {
		close(f.signOutStarted)
	}
	if f.releaseSignOut != nil {
		<-f.releaseSignOut
	}
	return f.signOutErr
}

func (f *fakeBackend) emit(user *User, session *Session) {
	f.mu.Lock()
	fn := f.watchFn
	f.mu.Unlock()
	fn(user, session)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signedIn() (*User, *Session) {
	return &User{ID: "acct-1", Email: "brand@example.com", Role: "brand"},
		&Session{ID: "sess-1", AccessToken: "token-1", ExpiresAt: time.Now().Add(time.Hour)}
}

func TestProviderStartsLoading(t *testing.T) {
	provider := NewSessionProvider(&fakeBackend{}, quietLogger())
	if !provider.IsLoading() || provider.IsAuthenticated() {
		t.Fatalf("expected loading and signed out, got %+v", provider.State())
	}
}

func TestProviderStartResolvesSession(t *testing.T) {
	user, session := signedIn()
	backend := &fakeBackend{user: user, session: session}
	provider := NewSessionProvider(backend, quietLogger())
	defer provider.Close()

	if err := provider.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if provider.IsLoading() {
		t.Fatal("expected loading to finish")
	}
	if !provider.IsAuthenticated() || provider.CurrentUser().Email != "brand@example.com" {
		t.Fatalf("unexpected state %+v", provider.State())
	}
	if provider.CurrentSession().ID != "sess-1" {
		t.Fatalf("unexpected session %+v", provider.CurrentSession())
	}
}

func TestProviderStartFetchFailureSettlesSignedOut(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("dial tcp: connection refused")}
	provider := NewSessionProvider(backend, quietLogger())
	defer provider.Close()

	if err := provider.Start(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if provider.IsLoading() || provider.IsAuthenticated() {
		t.Fatalf("expected settled signed-out state, got %+v", provider.State())
	}
}

func TestProviderFollowsBackendNotifications(t *testing.T) {
	backend := &fakeBackend{}
	provider := NewSessionProvider(backend, quietLogger())
	defer provider.Close()
	if err := provider.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	var seen []State
	cancel := provider.Subscribe(func(state State) { seen = append(seen, state) })
	user, session := signedIn()
	backend.emit(user, session)
	if !provider.IsAuthenticated() {
		t.Fatal("expected notification to sign the provider in")
	}
	cancel()
	backend.emit(nil, nil)
	if provider.IsAuthenticated() {
		t.Fatal("expected notification to sign the provider out")
	}
	if len(seen) != 1 || seen[0].User.ID != "acct-1" {
		t.Fatalf("expected exactly one observed change before cancel, got %d", len(seen))
	}
}

func TestSignOutClearsLocalStateBeforeBackendReturns(t *testing.T) {
	user, session := signedIn()
	backend := &fakeBackend{
		user:           user,
		session:        session,
		signOutStarted: make(chan struct{}),
		releaseSignOut: make(chan struct{}),
		signOutErr:     errors.New("network unreachable"),
	}
	provider := NewSessionProvider(backend, quietLogger())
	defer provider.Close()
	if err := provider.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		provider.SignOut(context.Background())
		close(done)
	}()

	<-backend.signOutStarted
	if provider.IsAuthenticated() || provider.CurrentSession() != nil {
		t.Fatalf("expected local state cleared while remote sign out is in flight, got %+v", provider.State())
	}
	close(backend.releaseSignOut)
	<-done
	if provider.IsAuthenticated() {
		t.Fatal("expected provider to stay signed out after backend failure")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	provider := NewSessionProvider(backend, quietLogger())
	if err := provider.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	provider.Close()
	provider.Close()
	if backend.unwatch != 1 {
		t.Fatalf("expected a single unwatch, got %d", backend.unwatch)
	}
}
