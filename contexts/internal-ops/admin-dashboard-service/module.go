package admindashboardservice

import (
	"log/slog"
	"time"

	httpadapter "spotlight/contexts/internal-ops/admin-dashboard-service/adapters/http"
	"spotlight/contexts/internal-ops/admin-dashboard-service/adapters/memory"
	"spotlight/contexts/internal-ops/admin-dashboard-service/application"
	"spotlight/contexts/internal-ops/admin-dashboard-service/application/workers"
	"spotlight/contexts/internal-ops/admin-dashboard-service/ports"
)

type Module struct {
	Handler       httpadapter.Handler
	AuditConsumer workers.AuditConsumer
	Store         *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	Roles          ports.RoleLookup
	Campaigns      ports.CampaignCounter
	Applications   ports.ApplicationCounter
	Profiles       ports.ProfileCounter
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
		Campaigns:      deps.Campaigns,
		Applications:   deps.Applications,
		Profiles:       deps.Profiles,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler:       httpadapter.Handler{Service: service},
		AuditConsumer: workers.AuditConsumer{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule wires the memory store. Counters may be nil.
func NewInMemoryModule(deps Dependencies) Module {
	store := memory.NewStore()
	deps.Repository = store
	deps.Idempotency = store
	deps.Clock = store
	deps.IDGenerator = store
	if deps.IdempotencyTTL <= 0 {
		deps.IdempotencyTTL = 7 * 24 * time.Hour
	}
	module := NewModule(deps)
	module.Store = store
	return module
}
