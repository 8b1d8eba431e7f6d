package identity

import (
	"log/slog"
	"time"

	httpadapter "spotlight/contexts/identity-access/identity-service/adapters/http"
	"spotlight/contexts/identity-access/identity-service/adapters/memory"
	"spotlight/contexts/identity-access/identity-service/adapters/security"
	"spotlight/contexts/identity-access/identity-service/application"
	"spotlight/contexts/identity-access/identity-service/ports"

	"golang.org/x/crypto/bcrypt"
)

// Module is the identity-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
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

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Accounts:                 deps.Accounts,
		Sessions:                 deps.Sessions,
		Verifications:            deps.Verifications,
		Tokens:                   deps.Tokens,
		Passwords:                deps.Passwords,
		Revocations:              deps.Revocations,
		Profiles:                 deps.Profiles,
		Notifier:                 deps.Notifier,
		Outbox:                   deps.Outbox,
		Clock:                    deps.Clock,
		IDGenerator:              deps.IDGenerator,
		Logger:                   deps.Logger,
		SessionTTL:               deps.SessionTTL,
		VerificationTTL:          deps.VerificationTTL,
		RequireEmailVerification: deps.RequireEmailVerification,
		AdminInviteCode:          deps.AdminInviteCode,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

// InMemoryOptions tunes NewInMemoryModule for tests and local runs.
type InMemoryOptions struct {
	Profiles                 ports.ProfileProvisioner
	Outbox                   ports.OutboxWriter
	Notifier                 ports.VerificationNotifier
	Clock                    ports.Clock
	RequireEmailVerification bool
	AdminInviteCode          string
	Logger                   *slog.Logger
}

func NewInMemoryModule(opts InMemoryOptions) (Module, error) {
	store := memory.NewStore()
	signer, err := security.NewEphemeralJWTSigner("spotlight")
	if err != nil {
		return Module{}, err
	}
	var clock ports.Clock = store
	if opts.Clock != nil {
		clock = opts.Clock
	}
	module := NewModule(Dependencies{
		Accounts:                 store,
		Sessions:                 store,
		Verifications:            store,
		Tokens:                   signer,
		Passwords:                security.NewBcryptHasher(bcrypt.MinCost),
		Revocations:              store,
		Profiles:                 opts.Profiles,
		Notifier:                 opts.Notifier,
		Outbox:                   opts.Outbox,
		Clock:                    clock,
		IDGenerator:              store,
		Logger:                   opts.Logger,
		SessionTTL:               24 * time.Hour,
		VerificationTTL:          48 * time.Hour,
		RequireEmailVerification: opts.RequireEmailVerification,
		AdminInviteCode:          opts.AdminInviteCode,
	})
	module.Store = store
	return module, nil
}
