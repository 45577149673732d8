// Package config reads the daemon settings from the process environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"entertablock.io/internal/registry"
)

// Config holds every ENTERTABLOCK_* setting.
type Config struct {
	HTTPAddr string `env:"ENTERTABLOCK_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"ENTERTABLOCK_GRPC_ADDR" envDefault:":9090"`

	// At most one of PGDSN and SQLitePath may be set; neither keeps state in memory.
	PGDSN      string `env:"ENTERTABLOCK_PG_DSN"`
	SQLitePath string `env:"ENTERTABLOCK_SQLITE_PATH"`

	Operator string `env:"ENTERTABLOCK_OPERATOR"`

	LogFile       string `env:"ENTERTABLOCK_LOG_FILE"`
	LogMaxSizeMB  int    `env:"ENTERTABLOCK_LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"ENTERTABLOCK_LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"ENTERTABLOCK_LOG_MAX_AGE_DAYS" envDefault:"28"`

	RateLimitRPS   float64  `env:"ENTERTABLOCK_RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int      `env:"ENTERTABLOCK_RATE_LIMIT_BURST" envDefault:"40"`
	CORSOrigins    []string `env:"ENTERTABLOCK_CORS_ORIGINS" envSeparator:","`

	TokenTTL        time.Duration `env:"ENTERTABLOCK_TOKEN_TTL" envDefault:"1h"`
	ChallengeWindow time.Duration `env:"ENTERTABLOCK_CHALLENGE_WINDOW" envDefault:"5m"`
	// DevTokens lets /v1/auth/token issue tokens without a signed challenge.
	DevTokens bool `env:"ENTERTABLOCK_DEV_TOKENS"`

	// PayoutWallets pre-funds the in-memory payout primitive and turns on
	// balance enforcement, e.g. "<address>:1000,<address>:500".
	PayoutWallets map[string]int64 `env:"ENTERTABLOCK_PAYOUT_WALLETS"`

	ShutdownTimeout time.Duration `env:"ENTERTABLOCK_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the given .env files (".env" when none are named) without
// overriding variables already set, then parses the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects combinations the daemon cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.PGDSN != "" && c.SQLitePath != "" {
		errs = append(errs, errors.New("ENTERTABLOCK_PG_DSN and ENTERTABLOCK_SQLITE_PATH are mutually exclusive"))
	}
	if _, err := c.OperatorIdentity(); err != nil {
		errs = append(errs, fmt.Errorf("ENTERTABLOCK_OPERATOR: %w", err))
	}
	if _, err := c.Wallets(); err != nil {
		errs = append(errs, fmt.Errorf("ENTERTABLOCK_PAYOUT_WALLETS: %w", err))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limit must be positive"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("ENTERTABLOCK_TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// OperatorIdentity is the configured operator, or "" when none is set.
func (c Config) OperatorIdentity() (registry.Identity, error) {
	if strings.TrimSpace(c.Operator) == "" {
		return "", nil
	}
	return registry.ParseIdentity(c.Operator)
}

// Wallets returns the pre-funded payout wallets keyed by canonical identity.
func (c Config) Wallets() (map[registry.Identity]int64, error) {
	if len(c.PayoutWallets) == 0 {
		return nil, nil
	}
	out := make(map[registry.Identity]int64, len(c.PayoutWallets))
	for raw, amount := range c.PayoutWallets {
		id, err := registry.ParseIdentity(raw)
		if err != nil {
			return nil, err
		}
		if amount < 0 {
			return nil, fmt.Errorf("negative balance for %s", id)
		}
		out[id] += amount
	}
	return out, nil
}
