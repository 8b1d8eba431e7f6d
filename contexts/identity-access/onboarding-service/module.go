package onboarding

import (
	"log/slog"
	"time"

	httpadapter "spotlight/contexts/identity-access/onboarding-service/adapters/http"
	"spotlight/contexts/identity-access/onboarding-service/adapters/memory"
	"spotlight/contexts/identity-access/onboarding-service/application"
	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	"spotlight/contexts/identity-access/onboarding-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Roles          ports.RoleLookup
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		Roles:          deps.Roles,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		Logger:         deps.Logger,
		IdempotencyTTL: deps.IdempotencyTTL,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.Application, roles ports.RoleLookup, outbox ports.OutboxWriter, logger *slog.Logger) Module {
	store := memory.NewStore(seed...)
	module := NewModule(Dependencies{
		Repository:  store,
		Idempotency: store,
		Roles:       roles,
		Outbox:      outbox,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
