package authorization

import (
	"log/slog"
	"time"

	httpadapter "spotlight/contexts/identity-access/authorization-service/adapters/http"
	"spotlight/contexts/identity-access/authorization-service/adapters/memory"
	"spotlight/contexts/identity-access/authorization-service/application/commands"
	"spotlight/contexts/identity-access/authorization-service/application/queries"
	"spotlight/contexts/identity-access/authorization-service/ports"
)

// Module is the access guard composition root exposed to runtime wiring.
type Module struct {
	Guard      queries.EvaluateGuardUseCase
	Invalidate commands.InvalidateRoleUseCase
	Store      *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Roles    ports.RoleSource
	Cache    ports.RoleCache
	Clock    ports.Clock
	CacheTTL time.Duration
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Guard: queries.EvaluateGuardUseCase{
			Roles:    deps.Roles,
			Cache:    deps.Cache,
			Clock:    deps.Clock,
			CacheTTL: deps.CacheTTL,
			Logger:   deps.Logger,
		},
		Invalidate: commands.InvalidateRoleUseCase{
			Cache:  deps.Cache,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule builds a guard backed by an in-process role cache.
func NewInMemoryModule(roles ports.RoleSource, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Roles:    roles,
		Cache:    store,
		Clock:    store,
		CacheTTL: time.Minute,
		Logger:   logger,
	})
	module.Store = store
	return module
}

// Middleware builds the HTTP adapter around the guard.
func (m Module) Middleware(resolve httpadapter.SessionResolver) httpadapter.Middleware {
	return httpadapter.Middleware{Guard: m.Guard, Resolve: resolve, Logger: m.Guard.Logger}
}
