package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
)

// HTTPSessionBackend keeps the access token in a TokenFile and resolves it
// against the JSON API. A positive PollInterval makes Watch re-check the
// session in the background. Watch callbacks must not call back into the
// backend.
type HTTPSessionBackend struct {
	Client       *Client
	Tokens       TokenFile
	PollInterval time.Duration
	Logger       *slog.Logger

	mu       sync.Mutex
	watchers map[int]func(*User, *Session)
	nextID   int

	// deliver serializes watcher notifications. generation moves on every
	// local sign in or sign out so poll results fetched earlier are dropped.
	deliver    sync.Mutex
	generation uint64
}

func (b *HTTPSessionBackend) FetchSession(ctx context.Context) (*User, *Session, error) {
	stored, ok, err := b.Tokens.Load()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, nil
	}
	resp, err := b.Client.WithToken(stored.AccessToken).GetSession(ctx)
	if IsUnauthorized(err) {
		if clearErr := b.Tokens.Clear(); clearErr != nil {
			return nil, nil, clearErr
		}
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fetch session: %w", err)
	}
	user, session := fromSessionResponse(resp)
	if session.AccessToken == "" {
		session.AccessToken = stored.AccessToken
	}
	return user, session, nil
}

func (b *HTTPSessionBackend) Watch(ctx context.Context, fn func(*User, *Session)) (func(), error) {
	b.mu.Lock()
	if b.watchers == nil {
		b.watchers = map[int]func(*User, *Session){}
	}
	id := b.nextID
	b.nextID++
	b.watchers[id] = fn
	b.mu.Unlock()

	pollCtx, cancel := context.WithCancel(ctx)
	if b.PollInterval > 0 {
		go b.poll(pollCtx, fn)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			b.mu.Lock()
			delete(b.watchers, id)
			b.mu.Unlock()
		})
	}, nil
}

// SignIn stores the new token and notifies watchers.
func (b *HTTPSessionBackend) SignIn(ctx context.Context, email, password string) (*User, *Session, error) {
	resp, err := b.Client.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	user, session := fromSessionResponse(resp)

	b.deliver.Lock()
	defer b.deliver.Unlock()
	b.bumpGeneration()
	if err := b.Tokens.Save(StoredSession{
		AccessToken: session.AccessToken,
		SessionID:   session.ID,
		UserID:      user.ID,
		Email:       user.Email,
		ExpiresAt:   session.ExpiresAt,
	}); err != nil {
		return nil, nil, err
	}
	b.notify(user, session)
	return user, session, nil
}

// SignOut forgets the local token before revoking it remotely, so an
// unreachable API still leaves the client signed out.
func (b *HTTPSessionBackend) SignOut(ctx context.Context) error {
	b.deliver.Lock()
	b.bumpGeneration()
	stored, ok, loadErr := b.Tokens.Load()
	if err := b.Tokens.Clear(); err != nil {
		b.deliver.Unlock()
		return err
	}
	b.notify(nil, nil)
	b.deliver.Unlock()

	if loadErr != nil {
		return loadErr
	}
	if !ok {
		return nil
	}
	return b.Client.WithToken(stored.AccessToken).SignOut(ctx)
}

func (b *HTTPSessionBackend) poll(ctx context.Context, fn func(*User, *Session)) {
	ticker := time.NewTicker(b.PollInterval)
	defer ticker.Stop()
	var lastSession string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			started := b.currentGeneration()
			user, session, err := b.FetchSession(ctx)
			if err != nil {
				b.logger().Debug("session poll failed",
					"event", "session_poll_failed",
					"module", "internal/client",
					"layer", "client",
					"error", err.Error(),
				)
				continue
			}
			current := ""
			if session != nil {
				current = session.ID
			}
			b.deliver.Lock()
			if b.currentGeneration() != started {
				b.deliver.Unlock()
				b.logger().Debug("stale session poll dropped",
					"event", "session_poll_stale",
					"module", "internal/client",
					"layer", "client",
				)
				continue
			}
			if current != lastSession {
				lastSession = current
				fn(user, session)
			}
			b.deliver.Unlock()
		}
	}
}

func (b *HTTPSessionBackend) bumpGeneration() {
	b.mu.Lock()
	b.generation++
	b.mu.Unlock()
}

func (b *HTTPSessionBackend) currentGeneration() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

func (b *HTTPSessionBackend) notify(user *User, session *Session) {
	b.mu.Lock()
	watchers := make([]func(*User, *Session), 0, len(b.watchers))
	for _, fn := range b.watchers {
		watchers = append(watchers, fn)
	}
	b.mu.Unlock()
	for _, fn := range watchers {
		fn(user, session)
	}
}

func (b *HTTPSessionBackend) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func fromSessionResponse(resp identityhttp.SessionResponse) (*User, *Session) {
	user := &User{
		ID:            resp.User.ID,
		Email:         resp.User.Email,
		Role:          resp.User.Role,
		DisplayName:   resp.User.DisplayName,
		EmailVerified: resp.User.EmailVerified,
	}
	session := &Session{
		ID:          resp.Session.ID,
		AccessToken: resp.Session.AccessToken,
		IssuedAt:    parseTime(resp.Session.IssuedAt),
		ExpiresAt:   parseTime(resp.Session.ExpiresAt),
	}
	return user, session
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
