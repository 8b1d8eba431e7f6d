package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type User struct {
	ID            string
	Email         string
	Role          string
	DisplayName   string
	EmailVerified bool
}

type Session struct {
	ID          string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// State is a snapshot of the provider. User and Session are nil when signed out.
type State struct {
	User    *User
	Session *Session
	Loading bool
}

func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// SessionBackend is the identity backend seen by the provider. FetchSession
// returns nil user and session, without error, when nobody is signed in.
type SessionBackend interface {
	FetchSession(ctx context.Context) (*User, *Session, error)
	Watch(ctx context.Context, fn func(*User, *Session)) (func(), error)
	SignOut(ctx context.Context) error
}

// SessionProvider holds the current user and session for a client process.
type SessionProvider struct {
	backend SessionBackend
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	epoch     uint64
	listeners map[int]func(State)
	nextID    int
	unwatch   func()
	closed    bool
}

func NewSessionProvider(backend SessionBackend, logger *slog.Logger) *SessionProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionProvider{
		backend:   backend,
		logger:    logger,
		state:     State{Loading: true},
		listeners: map[int]func(State){},
	}
}

// Start subscribes to backend session changes and fetches the current
// session. Both paths settle the provider into the same state. A fetch
// failure leaves the provider signed out and is returned.
func (p *SessionProvider) Start(ctx context.Context) error {
	unwatch, err := p.backend.Watch(ctx, func(user *User, session *Session) {
		p.apply(user, session)
	})
	if err != nil {
		p.logger.Warn("session watch failed",
			"event", "session_watch_failed",
			"module", "internal/client",
			"layer", "client",
			"error", err.Error(),
		)
	} else {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			unwatch()
		} else {
			p.unwatch = unwatch
			p.mu.Unlock()
		}
	}

	p.mu.Lock()
	epoch := p.epoch
	p.mu.Unlock()

	user, session, err := p.backend.FetchSession(ctx)
	if err != nil {
		p.logger.Warn("session fetch failed",
			"event", "session_fetch_failed",
			"module", "internal/client",
			"layer", "client",
			"error", err.Error(),
		)
		p.applyIf(epoch, nil, nil)
		return err
	}
	p.applyIf(epoch, user, session)
	return nil
}

func (p *SessionProvider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *SessionProvider) CurrentUser() *User {
	return p.State().User
}

func (p *SessionProvider) CurrentSession() *Session {
	return p.State().Session
}

func (p *SessionProvider) IsLoading() bool {
	return p.State().Loading
}

func (p *SessionProvider) IsAuthenticated() bool {
	return p.State().IsAuthenticated()
}

// Subscribe registers fn for state changes and returns its cancel func.
func (p *SessionProvider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// SignOut clears local state before asking the backend to end the session.
// Backend failures are logged and otherwise ignored.
func (p *SessionProvider) SignOut(ctx context.Context) {
	p.mu.Lock()
	p.epoch++
	p.mu.Unlock()
	p.apply(nil, nil)

	if err := p.backend.SignOut(ctx); err != nil {
		p.logger.Warn("remote sign out failed",
			"event", "session_signout_failed",
			"module", "internal/client",
			"layer", "client",
			"error", err.Error(),
		)
	}
}

// Close stops watching the backend. It is safe to call more than once.
func (p *SessionProvider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	unwatch := p.unwatch
	p.unwatch = nil
	p.listeners = map[int]func(State){}
	p.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
}

func (p *SessionProvider) apply(user *User, session *Session) {
	p.mu.Lock()
	p.set(user, session)
}

// applyIf drops a fetch result that a later sign out has overtaken.
func (p *SessionProvider) applyIf(epoch uint64, user *User, session *Session) {
	p.mu.Lock()
	if p.epoch != epoch {
		user, session = nil, nil
	}
	p.set(user, session)
}

// set expects p.mu held and releases it before notifying listeners.
func (p *SessionProvider) set(user *User, session *Session) {
	p.state = State{User: user, Session: session, Loading: false}
	snapshot := p.state
	listeners := make([]func(State), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}
