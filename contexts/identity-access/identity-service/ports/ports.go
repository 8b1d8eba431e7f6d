package ports

import (
	"context"
	"time"

	"spotlight/contexts/identity-access/identity-service/domain/entities"
	contractsv1 "spotlight/contracts/gen/events/v1"
)

// AccountRepository persists accounts. Email uniqueness is enforced by the
// store and surfaces as ErrEmailTaken.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account entities.Account) error
	UpdateAccount(ctx context.Context, account entities.Account) error
	GetAccountByID(ctx context.Context, accountID string) (entities.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (entities.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session entities.Session) error
	GetSession(ctx context.Context, sessionID string) (entities.Session, error)
	RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error
}

type VerificationRepository interface {
	CreateVerification(ctx context.Context, verification entities.EmailVerification) error
	GetVerification(ctx context.Context, token string) (entities.EmailVerification, error)
	ConsumeVerification(ctx context.Context, token string, consumedAt time.Time) error
}

// TokenClaims is the signed payload carried by an access token.
type TokenClaims struct {
	AccountID string
	SessionID string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Sign(claims TokenClaims) (string, error)
	ParseAndValidate(raw string) (TokenClaims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RevocationCache short-circuits session lookups for revoked sessions.
type RevocationCache interface {
	MarkRevoked(ctx context.Context, sessionID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// ProfileProvisioner keeps the profile row in step with the account.
type ProfileProvisioner interface {
	Provision(ctx context.Context, accountID string, displayName string, role string) error
	SetRole(ctx context.Context, accountID string, role string) error
}

type VerificationNotifier interface {
	SendVerification(ctx context.Context, email string, token string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}
