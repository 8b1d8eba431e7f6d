package campaignservice

import (
	"log/slog"
	"time"

	httpadapter "spotlight/contexts/campaign-editorial/campaign-service/adapters/http"
	"spotlight/contexts/campaign-editorial/campaign-service/adapters/memory"
	"spotlight/contexts/campaign-editorial/campaign-service/application/commands"
	"spotlight/contexts/campaign-editorial/campaign-service/application/queries"
	"spotlight/contexts/campaign-editorial/campaign-service/domain/entities"
	"spotlight/contexts/campaign-editorial/campaign-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Campaigns      ports.CampaignRepository
	History        ports.HistoryRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Roles          ports.RoleLookup
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createCampaign := commands.CreateCampaignUseCase{
		Campaigns:      deps.Campaigns,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Roles:          deps.Roles,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Campaigns: deps.Campaigns,
		History:   deps.History,
		Outbox:    deps.Outbox,
		Roles:     deps.Roles,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign: createCampaign,
			ChangeStatus:   changeStatus,
			ListCampaigns: queries.ListCampaignsUseCase{
				Campaigns: deps.Campaigns,
				Logger:    deps.Logger,
			},
			ListAllCampaigns: queries.ListAllCampaignsUseCase{
				Campaigns: deps.Campaigns,
				Roles:     deps.Roles,
				Logger:    deps.Logger,
			},
			GetCampaign: queries.GetCampaignUseCase{
				Campaigns: deps.Campaigns,
				Roles:     deps.Roles,
				Logger:    deps.Logger,
			},
			GetHistory: queries.GetHistoryUseCase{
				Campaigns: deps.Campaigns,
				History:   deps.History,
				Roles:     deps.Roles,
				Logger:    deps.Logger,
			},
			CountByStatus: queries.CountByStatusUseCase{Campaigns: deps.Campaigns},
			Logger:        deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Campaign, roles ports.RoleLookup, outbox ports.OutboxWriter, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns:      store,
		History:        store,
		Idempotency:    store,
		Outbox:         outbox,
		Roles:          roles,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
