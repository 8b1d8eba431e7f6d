package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	campaignservice "spotlight/contexts/campaign-editorial/campaign-service"
	campaignpostgres "spotlight/contexts/campaign-editorial/campaign-service/adapters/postgres"
	authorization "spotlight/contexts/identity-access/authorization-service"
	authcache "spotlight/contexts/identity-access/authorization-service/adapters/cache"
	authmemory "spotlight/contexts/identity-access/authorization-service/adapters/memory"
	authports "spotlight/contexts/identity-access/authorization-service/ports"
	identity "spotlight/contexts/identity-access/identity-service"
	identitycache "spotlight/contexts/identity-access/identity-service/adapters/cache"
	identitymemory "spotlight/contexts/identity-access/identity-service/adapters/memory"
	"spotlight/contexts/identity-access/identity-service/adapters/notify"
	identitypostgres "spotlight/contexts/identity-access/identity-service/adapters/postgres"
	"spotlight/contexts/identity-access/identity-service/adapters/security"
	identityports "spotlight/contexts/identity-access/identity-service/ports"
	onboarding "spotlight/contexts/identity-access/onboarding-service"
	onboardingpostgres "spotlight/contexts/identity-access/onboarding-service/adapters/postgres"
	profile "spotlight/contexts/identity-access/profile-service"
	profilememory "spotlight/contexts/identity-access/profile-service/adapters/memory"
	profilepostgres "spotlight/contexts/identity-access/profile-service/adapters/postgres"
	profileports "spotlight/contexts/identity-access/profile-service/ports"
	admindashboardservice "spotlight/contexts/internal-ops/admin-dashboard-service"
	adminpostgres "spotlight/contexts/internal-ops/admin-dashboard-service/adapters/postgres"
	"spotlight/internal/platform/cache"
	"spotlight/internal/platform/config"
	"spotlight/internal/platform/db"
	"spotlight/internal/platform/httpserver"
	"spotlight/internal/platform/messaging"
	"spotlight/internal/platform/web"
	"spotlight/internal/shared/outbox"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type outboxStore interface {
	AppendOutbox(ctx context.Context, envelope outbox.Envelope) error
	outbox.Repository
}

// Runtime holds every wired module plus the shared event plumbing.
type Runtime struct {
	Config       config.Config
	Logger       *slog.Logger
	Identity     identity.Module
	Profiles     profile.Module
	Access       authorization.Module
	Campaigns    campaignservice.Module
	Applications onboarding.Module
	Admin        admindashboardservice.Module
	Outbox       outboxStore
	Bus          *messaging.Bus
	Publisher    outbox.Publisher

	closers []func() error
}

type APIApp struct {
	runtime *Runtime
	server  *httpserver.Server
}

type WorkerApp struct {
	runtime *Runtime
}

// NewLogger builds the process JSON logger from LOG_LEVEL.
func NewLogger(cfg config.Config, process string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

// BuildRuntime wires modules against the configured storage driver.
func BuildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		Bus:    messaging.NewBus(logger),
	}

	publishers := messaging.Fanout{rt.Bus}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ServiceName+".")
		if err != nil {
			return nil, err
		}
		publishers = append(messaging.Fanout{kafka}, publishers...)
		rt.closers = append(rt.closers, kafka.Close)
	}
	rt.Publisher = publishers

	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		redisClient = client
		rt.closers = append(rt.closers, client.Close)
	}

	var err error
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		err = rt.wirePostgres(ctx, redisClient)
	default:
		err = rt.wireMemory(redisClient)
	}
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func (rt *Runtime) wireMemory(redisClient *redis.Client) error {
	cfg := rt.Config
	store := outbox.NewMemoryStore()
	rt.Outbox = store

	relay := &roleChangeRelay{}
	profileStore := profilememory.NewStore()
	rt.Profiles = profile.NewModule(profileDeps(profileStore, profileStore, relay, rt.Logger))
	rt.Profiles.Store = profileStore
	roles := profileRoles{service: rt.Profiles.Service}
	rt.Access = rt.buildAccess(roles, redisClient)
	relay.bind(rt.Access.Invalidate)

	identityStore := identitymemory.NewStore()
	var revocations identityports.RevocationCache = identityStore
	if redisClient != nil {
		revocations = identitycache.NewRedisRevocationStore(redisClient)
	}
	signer, err := rt.tokenSigner()
	if err != nil {
		return err
	}
	rt.Identity = identity.NewModule(identity.Dependencies{
		Accounts:                 identityStore,
		Sessions:                 identityStore,
		Verifications:            identityStore,
		Tokens:                   signer,
		Passwords:                security.NewBcryptHasher(bcrypt.DefaultCost),
		Revocations:              revocations,
		Profiles:                 profileProvisioner{service: rt.Profiles.Service},
		Notifier:                 notify.LogNotifier{BaseURL: cfg.PublicBaseURL, Logger: rt.Logger},
		Outbox:                   store,
		Clock:                    identityStore,
		IDGenerator:              identityStore,
		Logger:                   rt.Logger,
		SessionTTL:               cfg.SessionTTL,
		VerificationTTL:          cfg.VerificationTTL,
		RequireEmailVerification: cfg.RequireEmailVerification,
		AdminInviteCode:          cfg.AdminInviteCode,
	})
	rt.Identity.Store = identityStore

	rt.Campaigns = campaignservice.NewInMemoryModule(nil, roles, store, rt.Logger)
	rt.Applications = onboarding.NewInMemoryModule(nil, roles, store, rt.Logger)
	rt.Admin = admindashboardservice.NewInMemoryModule(rt.adminDeps(roles))
	return nil
}

func (rt *Runtime) wirePostgres(ctx context.Context, redisClient *redis.Client) error {
	cfg := rt.Config
	pg, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, pg.Close)
	if cfg.RunMigrations {
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
	}

	store := outbox.NewPostgresStore(pg.DB)
	rt.Outbox = store

	relay := &roleChangeRelay{}
	rt.Profiles = profile.NewModule(profileDeps(
		profilepostgres.NewRepository(pg.DB),
		identitypostgres.SystemClock{},
		relay,
		rt.Logger,
	))
	roles := profileRoles{service: rt.Profiles.Service}
	rt.Access = rt.buildAccess(roles, redisClient)
	relay.bind(rt.Access.Invalidate)

	var revocations identityports.RevocationCache
	if redisClient != nil {
		revocations = identitycache.NewRedisRevocationStore(redisClient)
	}
	signer, err := rt.tokenSigner()
	if err != nil {
		return err
	}
	identityRepo := identitypostgres.NewRepository(pg.DB, rt.Logger)
	rt.Identity = identity.NewModule(identity.Dependencies{
		Accounts:                 identityRepo,
		Sessions:                 identityRepo,
		Verifications:            identityRepo,
		Tokens:                   signer,
		Passwords:                security.NewBcryptHasher(bcrypt.DefaultCost),
		Revocations:              revocations,
		Profiles:                 profileProvisioner{service: rt.Profiles.Service},
		Notifier:                 notify.LogNotifier{BaseURL: cfg.PublicBaseURL, Logger: rt.Logger},
		Outbox:                   store,
		Clock:                    identitypostgres.SystemClock{},
		IDGenerator:              identitypostgres.UUIDGenerator{},
		Logger:                   rt.Logger,
		SessionTTL:               cfg.SessionTTL,
		VerificationTTL:          cfg.VerificationTTL,
		RequireEmailVerification: cfg.RequireEmailVerification,
		AdminInviteCode:          cfg.AdminInviteCode,
	})

	campaignRepo := campaignpostgres.NewRepository(pg.DB, rt.Logger)
	rt.Campaigns = campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:      campaignRepo,
		History:        campaignRepo,
		Idempotency:    campaignRepo,
		Outbox:         store,
		Roles:          roles,
		Clock:          campaignpostgres.SystemClock{},
		IDGenerator:    campaignpostgres.UUIDGenerator{},
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         rt.Logger,
	})

	applicationRepo := onboardingpostgres.NewRepository(pg.DB, rt.Logger)
	rt.Applications = onboarding.NewModule(onboarding.Dependencies{
		Repository:     applicationRepo,
		Idempotency:    applicationRepo,
		Roles:          roles,
		Outbox:         store,
		Clock:          campaignpostgres.SystemClock{},
		IDGenerator:    campaignpostgres.UUIDGenerator{},
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         rt.Logger,
	})

	adminRepo := adminpostgres.NewRepository(pg.DB)
	deps := rt.adminDeps(roles)
	deps.Repository = adminRepo
	deps.Idempotency = adminRepo
	deps.Clock = campaignpostgres.SystemClock{}
	deps.IDGenerator = campaignpostgres.UUIDGenerator{}
	rt.Admin = admindashboardservice.NewModule(deps)
	return nil
}

func profileDeps(repo profileports.Repository, clock profileports.Clock, relay *roleChangeRelay, logger *slog.Logger) profile.Dependencies {
	return profile.Dependencies{
		Repository: repo,
		Listeners:  []profileports.RoleChangeListener{relay},
		Clock:      clock,
		Logger:     logger,
	}
}

func (rt *Runtime) buildAccess(roles profileRoles, redisClient *redis.Client) authorization.Module {
	memoryCache := authmemory.NewStore()
	var roleCache authports.RoleCache = memoryCache
	if redisClient != nil {
		roleCache = authcache.NewRedisRoleCache(redisClient)
	}
	module := authorization.NewModule(authorization.Dependencies{
		Roles:    roles,
		Cache:    roleCache,
		Clock:    memoryCache,
		CacheTTL: rt.Config.RoleCacheTTL,
		Logger:   rt.Logger,
	})
	module.Store = memoryCache
	return module
}

func (rt *Runtime) adminDeps(roles profileRoles) admindashboardservice.Dependencies {
	return admindashboardservice.Dependencies{
		Roles:          roles,
		Campaigns:      campaignCounter{module: rt.Campaigns},
		Applications:   applicationCounter{module: rt.Applications},
		Profiles:       profileCounter{service: rt.Profiles.Service},
		IdempotencyTTL: rt.Config.IdempotencyTTL,
		Logger:         rt.Logger,
	}
}

func (rt *Runtime) tokenSigner() (*security.JWTSigner, error) {
	if strings.TrimSpace(rt.Config.JWTSecret) == "" {
		if rt.Config.StorageDriver == config.StorageDriverPostgres {
			return nil, errors.New("JWT_SECRET is required when STORAGE_DRIVER=postgres")
		}
		rt.Logger.Warn("JWT_SECRET not set, using an ephemeral signing key",
			"event", "bootstrap_ephemeral_jwt_key",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return security.NewEphemeralJWTSigner(rt.Config.ServiceName)
	}
	return security.NewJWTSigner(rt.Config.ServiceName, rt.Config.JWTSecret)
}

// Relay returns the outbox relay publishing to the configured fanout.
func (rt *Runtime) Relay() outbox.Relay {
	return outbox.Relay{
		Outbox:    rt.Outbox,
		Publisher: rt.Publisher,
		Now:       func() time.Time { return time.Now().UTC() },
		BatchSize: 100,
		Logger:    rt.Logger,
	}
}

// StartConsumers subscribes in-process consumers to the bus.
func (rt *Runtime) StartConsumers(ctx context.Context) error {
	consumer := rt.Admin.AuditConsumer
	for _, topic := range consumer.Topics() {
		if err := rt.Bus.Subscribe(ctx, topic, "admin-audit", consumer.Handle); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "api")
	rt, err := BuildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(httpserver.Modules{
		Identity:     rt.Identity,
		Profiles:     rt.Profiles,
		Campaigns:    rt.Campaigns,
		Applications: rt.Applications,
		Admin:        rt.Admin,
	}, httpserver.Options{
		Addr:                normalizeAddr(cfg.HTTPPort),
		AllowedOrigins:      cfg.CORSAllowedOrigins,
		SignInRatePerSecond: cfg.SignInRatePerSecond,
		SignInBurst:         cfg.SignInBurst,
	}, logger)

	pages, err := web.NewRouter(web.Dependencies{
		Identity:      rt.Identity,
		Profiles:      rt.Profiles,
		Access:        rt.Access,
		Campaigns:     rt.Campaigns,
		Applications:  rt.Applications,
		Admin:         rt.Admin,
		SecureCookies: cfg.SecureCookies,
		Logger:        logger,
	})
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	server.Mount("/", pages)

	return &APIApp{runtime: rt, server: server}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return nil, errors.New("worker requires STORAGE_DRIVER=postgres")
	}
	logger := NewLogger(cfg, "worker")
	rt, err := BuildRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{runtime: rt}, nil
}

// Run serves HTTP and, when enabled, relays the outbox until ctx ends.
func (a *APIApp) Run(ctx context.Context) error {
	rt := a.runtime
	g, gctx := errgroup.WithContext(ctx)
	if err := rt.StartConsumers(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		return a.server.Start(gctx)
	})
	if rt.Config.RunOutboxRelay {
		g.Go(func() error {
			return rt.Relay().Run(gctx, rt.Config.OutboxPollInterval)
		})
	}
	rt.Logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"storage_driver", rt.Config.StorageDriver,
	)
	return g.Wait()
}

func (a *APIApp) Close() error {
	return a.runtime.Close()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	rt := w.runtime
	g, gctx := errgroup.WithContext(ctx)
	if err := rt.StartConsumers(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		return rt.Relay().Run(gctx, rt.Config.OutboxPollInterval)
	})
	rt.Logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", rt.Config.OutboxPollInterval.String(),
	)
	return g.Wait()
}

func (w *WorkerApp) Close() error {
	return w.runtime.Close()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
