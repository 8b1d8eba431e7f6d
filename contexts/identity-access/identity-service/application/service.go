package application

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"spotlight/contexts/identity-access/identity-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/identity-service/domain/errors"
	"spotlight/contexts/identity-access/identity-service/ports"
)

const moduleName = "identity-access/identity-service"

type Service struct {
	Accounts      ports.AccountRepository
	Sessions      ports.SessionRepository
	Verifications ports.VerificationRepository
	Tokens        ports.TokenIssuer
	Passwords     ports.PasswordHasher
	Revocations   ports.RevocationCache
	Profiles      ports.ProfileProvisioner
	Notifier      ports.VerificationNotifier
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger

	SessionTTL               time.Duration
	VerificationTTL          time.Duration
	RequireEmailVerification bool
	AdminInviteCode          string
}

type SignUpInput struct {
	Email           string
	Password        string
	Role            string
	DisplayName     string
	AdminInviteCode string
}

type SignUpResult struct {
	Account              entities.Account
	VerificationRequired bool
}

type SignInResult struct {
	AccessToken string
	Session     entities.Session
	Account     entities.Account
}

// SessionView is the resolved state behind a valid access token.
type SessionView struct {
	Session entities.Session
	Account entities.Account
}

func (s Service) SignUp(ctx context.Context, input SignUpInput) (SignUpResult, error) {
	logger := ResolveLogger(s.Logger)
	email := entities.NormalizeEmail(input.Email)
	role := entities.Role(strings.ToLower(strings.TrimSpace(input.Role)))
	displayName := strings.TrimSpace(input.DisplayName)

	if !entities.ValidEmail(email) || len(input.Password) < entities.MinPasswordLength {
		return SignUpResult{}, domainerrors.ErrInvalidInput
	}
	if !role.Valid() {
		return SignUpResult{}, domainerrors.ErrInvalidRole
	}
	if !role.SelfServiceRole() && !s.adminInviteAccepted(input.AdminInviteCode) {
		logger.Warn("admin sign-up rejected",
			"event", "identity_admin_signup_rejected",
			"module", moduleName,
			"layer", "application",
			"email", email,
		)
		return SignUpResult{}, domainerrors.ErrAdminInviteRequired
	}
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	if _, err := s.Accounts.GetAccountByEmail(ctx, email); err == nil {
		return SignUpResult{}, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrAccountNotFound) {
		return SignUpResult{}, err
	}

	hash, err := s.Passwords.Hash(input.Password)
	if err != nil {
		return SignUpResult{}, err
	}
	accountID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return SignUpResult{}, err
	}

	now := s.now()
	account := entities.Account{
		AccountID:    accountID,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !s.RequireEmailVerification {
		account.EmailVerifiedAt = &now
	}
	if err := s.Accounts.CreateAccount(ctx, account); err != nil {
		return SignUpResult{}, err
	}
	if s.Profiles != nil {
		if err := s.Profiles.Provision(ctx, account.AccountID, account.DisplayName, string(account.Role)); err != nil {
			logger.Error("profile provisioning failed",
				"event", "identity_profile_provision_failed",
				"module", moduleName,
				"layer", "application",
				"account_id", account.AccountID,
				"error", err.Error(),
			)
			s.discardAccount(ctx, account.AccountID)
			return SignUpResult{}, err
		}
	}

	if s.RequireEmailVerification {
		if err := s.issueVerification(ctx, account, now); err != nil {
			return SignUpResult{}, err
		}
	}
	if err := s.appendEvent(ctx, "account.registered", account.AccountID, now, map[string]any{
		"account_id": account.AccountID,
		"email":      account.Email,
		"role":       string(account.Role),
	}); err != nil {
		return SignUpResult{}, err
	}

	logger.Info("account registered",
		"event", "identity_account_registered",
		"module", moduleName,
		"layer", "application",
		"account_id", account.AccountID,
		"role", string(account.Role),
		"verification_required", s.RequireEmailVerification,
	)
	return SignUpResult{Account: account, VerificationRequired: s.RequireEmailVerification}, nil
}

// discardAccount removes an account whose sign-up could not complete so the
// email address stays free for a retry.
func (s Service) discardAccount(ctx context.Context, accountID string) {
	if err := s.Accounts.DeleteAccount(context.WithoutCancel(ctx), accountID); err != nil {
		ResolveLogger(s.Logger).Error("discarding incomplete account failed",
			"event", "identity_account_discard_failed",
			"module", moduleName,
			"layer", "application",
			"account_id", accountID,
			"error", err.Error(),
		)
	}
}

func (s Service) VerifyEmail(ctx context.Context, token string) (entities.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.Account{}, domainerrors.ErrInvalidVerificationToken
	}
	now := s.now()
	verification, err := s.Verifications.GetVerification(ctx, token)
	if err != nil {
		return entities.Account{}, err
	}
	if !verification.Usable(now) {
		return entities.Account{}, domainerrors.ErrInvalidVerificationToken
	}
	account, err := s.Accounts.GetAccountByID(ctx, verification.AccountID)
	if err != nil {
		return entities.Account{}, err
	}
	if err := s.Verifications.ConsumeVerification(ctx, token, now); err != nil {
		return entities.Account{}, err
	}
	if !account.Verified() {
		account.EmailVerifiedAt = &now
		account.UpdatedAt = now
		if err := s.Accounts.UpdateAccount(ctx, account); err != nil {
			return entities.Account{}, err
		}
	}

	ResolveLogger(s.Logger).Info("email verified",
		"event", "identity_email_verified",
		"module", moduleName,
		"layer", "application",
		"account_id", account.AccountID,
	)
	return account, nil
}

func (s Service) SignIn(ctx context.Context, email string, password string) (SignInResult, error) {
	logger := ResolveLogger(s.Logger)
	email = entities.NormalizeEmail(email)
	if email == "" || password == "" {
		return SignInResult{}, domainerrors.ErrInvalidCredentials
	}

	account, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return SignInResult{}, domainerrors.ErrInvalidCredentials
		}
		return SignInResult{}, err
	}
	if err := s.Passwords.Compare(account.PasswordHash, password); err != nil {
		logger.Warn("sign-in rejected",
			"event", "identity_signin_rejected",
			"module", moduleName,
			"layer", "application",
			"account_id", account.AccountID,
		)
		return SignInResult{}, domainerrors.ErrInvalidCredentials
	}
	if s.RequireEmailVerification && !account.Verified() {
		return SignInResult{}, domainerrors.ErrEmailNotVerified
	}

	sessionID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return SignInResult{}, err
	}
	now := s.now()
	session := entities.Session{
		SessionID: sessionID,
		AccountID: account.AccountID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL()),
	}
	if err := s.Sessions.CreateSession(ctx, session); err != nil {
		return SignInResult{}, err
	}
	token, err := s.Tokens.Sign(ports.TokenClaims{
		AccountID: account.AccountID,
		SessionID: session.SessionID,
		Email:     account.Email,
		Role:      string(account.Role),
		IssuedAt:  session.IssuedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return SignInResult{}, err
	}

	logger.Info("session created",
		"event", "identity_session_created",
		"module", moduleName,
		"layer", "application",
		"account_id", account.AccountID,
		"session_id", session.SessionID,
	)
	return SignInResult{AccessToken: token, Session: session, Account: account}, nil
}

// GetSession resolves an access token to its live session and account.
// Role is read from the account row, not the token, so elevation takes effect
// without re-signing.
func (s Service) GetSession(ctx context.Context, accessToken string) (SessionView, error) {
	claims, err := s.parse(accessToken)
	if err != nil {
		return SessionView{}, err
	}
	if s.Revocations != nil {
		revoked, err := s.Revocations.IsRevoked(ctx, claims.SessionID)
		if err != nil {
			ResolveLogger(s.Logger).Warn("revocation cache lookup failed",
				"event", "identity_revocation_lookup_failed",
				"module", moduleName,
				"layer", "application",
				"session_id", claims.SessionID,
				"error", err.Error(),
			)
		} else if revoked {
			return SessionView{}, domainerrors.ErrSessionRevoked
		}
	}

	session, err := s.Sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrSessionNotFound) {
			return SessionView{}, domainerrors.ErrUnauthorized
		}
		return SessionView{}, err
	}
	if session.Revoked() {
		return SessionView{}, domainerrors.ErrSessionRevoked
	}
	if !session.Active(s.now()) {
		return SessionView{}, domainerrors.ErrSessionExpired
	}
	account, err := s.Accounts.GetAccountByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return SessionView{}, domainerrors.ErrUnauthorized
		}
		return SessionView{}, err
	}
	return SessionView{Session: session, Account: account}, nil
}

// SignOut revokes the session behind the token. Revoking an already revoked
// session succeeds.
func (s Service) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.parse(accessToken)
	if err != nil {
		return err
	}
	session, err := s.Sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrSessionNotFound) {
			return domainerrors.ErrUnauthorized
		}
		return err
	}
	if session.Revoked() {
		return nil
	}

	now := s.now()
	if err := s.Sessions.RevokeSession(ctx, session.SessionID, now); err != nil {
		return err
	}
	if s.Revocations != nil {
		if err := s.Revocations.MarkRevoked(ctx, session.SessionID, session.ExpiresAt); err != nil {
			ResolveLogger(s.Logger).Warn("revocation cache write failed",
				"event", "identity_revocation_write_failed",
				"module", moduleName,
				"layer", "application",
				"session_id", session.SessionID,
				"error", err.Error(),
			)
		}
	}

	ResolveLogger(s.Logger).Info("session revoked",
		"event", "identity_session_revoked",
		"module", moduleName,
		"layer", "application",
		"account_id", session.AccountID,
		"session_id", session.SessionID,
	)
	return nil
}

// SetUserRole is the administrative role-elevation call keyed by email.
func (s Service) SetUserRole(ctx context.Context, actorID string, email string, role string) (entities.Account, error) {
	logger := ResolveLogger(s.Logger)
	actorID = strings.TrimSpace(actorID)
	email = entities.NormalizeEmail(email)
	target := entities.Role(strings.ToLower(strings.TrimSpace(role)))
	if actorID == "" {
		return entities.Account{}, domainerrors.ErrUnauthorized
	}
	if email == "" {
		return entities.Account{}, domainerrors.ErrInvalidInput
	}
	if !target.Valid() {
		return entities.Account{}, domainerrors.ErrInvalidRole
	}

	actor, err := s.Accounts.GetAccountByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return entities.Account{}, domainerrors.ErrForbidden
		}
		return entities.Account{}, err
	}
	if actor.Role != entities.RoleAdmin {
		logger.Warn("role change denied",
			"event", "identity_set_role_denied",
			"module", moduleName,
			"layer", "application",
			"actor_id", actorID,
			"target_email", email,
		)
		return entities.Account{}, domainerrors.ErrForbidden
	}

	account, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return entities.Account{}, err
	}
	previous := account.Role
	now := s.now()
	if previous != target {
		account.Role = target
		account.UpdatedAt = now
		if err := s.Accounts.UpdateAccount(ctx, account); err != nil {
			return entities.Account{}, err
		}
	}
	if s.Profiles != nil {
		if err := s.Profiles.SetRole(ctx, account.AccountID, string(target)); err != nil {
			return entities.Account{}, err
		}
	}
	if previous != target {
		if err := s.appendEvent(ctx, "account.role_changed", account.AccountID, now, map[string]any{
			"account_id":    account.AccountID,
			"actor_id":      actorID,
			"previous_role": string(previous),
			"role":          string(target),
		}); err != nil {
			return entities.Account{}, err
		}
	}

	logger.Info("account role set",
		"event", "identity_role_set",
		"module", moduleName,
		"layer", "application",
		"actor_id", actorID,
		"account_id", account.AccountID,
		"previous_role", string(previous),
		"role", string(target),
	)
	return account, nil
}

func (s Service) issueVerification(ctx context.Context, account entities.Account, now time.Time) error {
	token, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	if err := s.Verifications.CreateVerification(ctx, entities.EmailVerification{
		Token:     token,
		AccountID: account.AccountID,
		ExpiresAt: now.Add(s.verificationTTL()),
		CreatedAt: now,
	}); err != nil {
		return err
	}
	if s.Notifier == nil {
		return nil
	}
	return s.Notifier.SendVerification(ctx, account.Email, token)
}

func (s Service) appendEvent(ctx context.Context, eventType string, accountID string, now time.Time, data map[string]any) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       now.UTC(),
		SourceService:    "identity-service",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "account_id",
		PartitionKey:     accountID,
		Data:             payload,
	})
}

func (s Service) parse(accessToken string) (ports.TokenClaims, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return ports.TokenClaims{}, domainerrors.ErrUnauthorized
	}
	claims, err := s.Tokens.ParseAndValidate(accessToken)
	if err != nil {
		return ports.TokenClaims{}, domainerrors.ErrUnauthorized
	}
	return claims, nil
}

func (s Service) adminInviteAccepted(code string) bool {
	expected := strings.TrimSpace(s.AdminInviteCode)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(expected)) == 1
}

func (s Service) sessionTTL() time.Duration {
	if s.SessionTTL <= 0 {
		return 24 * time.Hour
	}
	return s.SessionTTL
}

func (s Service) verificationTTL() time.Duration {
	if s.VerificationTTL <= 0 {
		return 48 * time.Hour
	}
	return s.VerificationTTL
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
