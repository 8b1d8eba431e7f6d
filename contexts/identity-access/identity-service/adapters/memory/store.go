package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"spotlight/contexts/identity-access/identity-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/identity-service/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	accounts      map[string]entities.Account
	emailIndex    map[string]string
	sessions      map[string]entities.Session
	verifications map[string]entities.EmailVerification
	revoked       map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]entities.Account),
		emailIndex:    make(map[string]string),
		sessions:      make(map[string]entities.Session),
		verifications: make(map[string]entities.EmailVerification),
		revoked:       make(map[string]time.Time),
	}
}

func (s *Store) CreateAccount(_ context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := entities.NormalizeEmail(account.Email)
	if _, exists := s.emailIndex[email]; exists {
		return domainerrors.ErrEmailTaken
	}
	if _, exists := s.accounts[account.AccountID]; exists {
		return domainerrors.ErrInvalidInput
	}
	s.accounts[account.AccountID] = account
	s.emailIndex[email] = account.AccountID
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[accountID]
	if !exists {
		return domainerrors.ErrAccountNotFound
	}
	delete(s.emailIndex, entities.NormalizeEmail(account.Email))
	delete(s.accounts, accountID)
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; !exists {
		return domainerrors.ErrAccountNotFound
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) GetAccountByID(_ context.Context, accountID string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.accounts[strings.TrimSpace(accountID)]
	if !exists {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return item, nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, exists := s.emailIndex[entities.NormalizeEmail(email)]
	if !exists {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return s.accounts[accountID], nil
}

func (s *Store) CreateSession(_ context.Context, session entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.SessionID]; exists {
		return domainerrors.ErrInvalidInput
	}
	s.sessions[session.SessionID] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.sessions[strings.TrimSpace(sessionID)]
	if !exists {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}
	return item, nil
}

func (s *Store) RevokeSession(_ context.Context, sessionID string, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.sessions[strings.TrimSpace(sessionID)]
	if !exists {
		return domainerrors.ErrSessionNotFound
	}
	if item.RevokedAt == nil {
		at := revokedAt.UTC()
		item.RevokedAt = &at
		s.sessions[item.SessionID] = item
	}
	return nil
}

func (s *Store) CreateVerification(_ context.Context, verification entities.EmailVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verifications[verification.Token] = verification
	return nil
}

func (s *Store) GetVerification(_ context.Context, token string) (entities.EmailVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.verifications[strings.TrimSpace(token)]
	if !exists {
		return entities.EmailVerification{}, domainerrors.ErrInvalidVerificationToken
	}
	return item, nil
}

func (s *Store) ConsumeVerification(_ context.Context, token string, consumedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.verifications[strings.TrimSpace(token)]
	if !exists || item.ConsumedAt != nil {
		return domainerrors.ErrInvalidVerificationToken
	}
	at := consumedAt.UTC()
	item.ConsumedAt = &at
	s.verifications[item.Token] = item
	return nil
}

// PendingVerificationToken returns the newest unconsumed token for an account.
// Local runs and tests use it in place of a mailbox.
func (s *Store) PendingVerificationToken(accountID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		token  string
		newest time.Time
	)
	for _, item := range s.verifications {
		if item.AccountID != accountID || item.ConsumedAt != nil {
			continue
		}
		if token == "" || item.CreatedAt.After(newest) {
			token = item.Token
			newest = item.CreatedAt
		}
	}
	return token, token != ""
}

func (s *Store) MarkRevoked(_ context.Context, sessionID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[strings.TrimSpace(sessionID)] = expiresAt.UTC()
	return nil
}

func (s *Store) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, exists := s.revoked[strings.TrimSpace(sessionID)]
	if !exists {
		return false, nil
	}
	return time.Now().UTC().Before(expiresAt), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
