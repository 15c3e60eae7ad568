package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/globetrotter.db"`
	Store     string     `env:"STORE" envDefault:"sqlite"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir    string     `env:"SPA_DIR" envDefault:"../web/build"`
	PublicURL string     `env:"PUBLIC_URL" envDefault:"http://localhost:3000"`

	OptionCount int `env:"OPTION_COUNT" envDefault:"4"`
	// RandomSeed makes rounds reproducible. Zero picks a random seed.
	RandomSeed uint64 `env:"RANDOM_SEED" envDefault:"0"`
	// SessionIdleTTL evicts sessions nobody played for this long. Zero keeps
	// them until shutdown.
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	SeedCatalog   bool   `env:"SEED_CATALOG" envDefault:"true"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.Store {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreSQLite, StoreMemory, c.Store)
	}
	if c.OptionCount < 2 {
		return fmt.Errorf("OPTION_COUNT must be at least 2, got %d", c.OptionCount)
	}
	if c.SessionIdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must not be negative, got %s", c.SessionIdleTTL)
	}
	return nil
}
