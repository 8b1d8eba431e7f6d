package profile

import (
	"log/slog"

	httpadapter "spotlight/contexts/identity-access/profile-service/adapters/http"
	"spotlight/contexts/identity-access/profile-service/adapters/memory"
	"spotlight/contexts/identity-access/profile-service/application"
	"spotlight/contexts/identity-access/profile-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Listeners  []ports.RoleChangeListener
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:      deps.Repository,
		Listeners: deps.Listeners,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger, listeners ...ports.RoleChangeListener) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Listeners:  listeners,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
