package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string   `env:"SERVICE_NAME" envDefault:"spotlight"`
	HTTPPort      string   `env:"HTTP_PORT" envDefault:"8080"`
	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"memory"`
	PostgresDSN   string   `env:"POSTGRES_DSN"`
	RedisURL      string   `env:"REDIS_URL"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envSeparator:","`
	LogLevel      string   `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret                    string        `env:"JWT_SECRET"`
	SessionTTL                   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	VerificationTTL              time.Duration `env:"VERIFICATION_TTL" envDefault:"48h"`
	RequireEmailVerification     bool          `env:"AUTH_REQUIRE_EMAIL_VERIFICATION" envDefault:"true"`
	AdminInviteCode              string        `env:"ADMIN_INVITE_CODE"`
	SignInRatePerSecond          float64       `env:"SIGNIN_RATE_PER_SECOND" envDefault:"1"`
	SignInBurst                  int           `env:"SIGNIN_BURST" envDefault:"5"`
	RoleCacheTTL                 time.Duration `env:"ROLE_CACHE_TTL" envDefault:"1m"`
	IdempotencyTTL               time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"168h"`
	CORSAllowedOrigins           []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	OutboxPollInterval           time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	SecureCookies                bool          `env:"SECURE_COOKIES" envDefault:"false"`
	RunMigrations                bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RunOutboxRelay               bool          `env:"RUN_OUTBOX_RELAY" envDefault:"true"`
	PublicBaseURL                string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case StorageDriverMemory, StorageDriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == StorageDriverPostgres && strings.TrimSpace(cfg.PostgresDSN) == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required when STORAGE_DRIVER=postgres")
	}

	brokers := make([]string, 0, len(cfg.KafkaBrokers))
	for _, value := range cfg.KafkaBrokers {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	cfg.KafkaBrokers = brokers
	return cfg, nil
}
