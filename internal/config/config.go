// Package config loads the typed configuration enumerated in spec.md §6,
// following the teacher's caarlos0/env + godotenv pattern
// (github.com/herdiagusthio/flight-search-system/internal/config).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the root configuration record.
type Config struct {
	Server   ServerConfig
	Executor ExecutorConfig
	Circuit  CircuitConfig
	Cache    CacheConfig
	Browser  BrowserPoolConfig
	Proxy    ProxyPoolConfig
	Logging  LoggingConfig
	App      AppConfig
	Adapters map[string]AdapterConfig `env:"-"`
}

// ServerConfig configures the thin HTTP collaborator (§1, out of scope;
// kept only as the documented boundary).
type ServerConfig struct {
	Port         int           `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// ExecutorConfig governs §5 deadlines and the §4.4 first-response grace
// window.
type ExecutorConfig struct {
	InteractiveDeadline time.Duration `env:"EXECUTOR_INTERACTIVE_DEADLINE_MS" envDefault:"4000ms"`
	BackgroundDeadline  time.Duration `env:"EXECUTOR_BACKGROUND_DEADLINE_MS" envDefault:"60000ms"`
	FirstResponseGrace  time.Duration `env:"EXECUTOR_FIRST_RESPONSE_GRACE_MS" envDefault:"200ms"`
	// MinDeadlineFloor: below this remaining deadline an adapter is
	// skipped entirely rather than launched doomed to time out (§5).
	MinDeadlineFloor time.Duration `env:"EXECUTOR_MIN_DEADLINE_FLOOR_MS" envDefault:"250ms"`
}

// CircuitConfig provides the defaults for any adapter whose AdapterConfig
// doesn't override them (§4.4, §6).
type CircuitConfig struct {
	FailureThreshold int           `env:"CIRCUIT_FAILURE_THRESHOLD" envDefault:"5"`
	Window           time.Duration `env:"CIRCUIT_WINDOW_MS" envDefault:"60000ms"`
	Cooldown         time.Duration `env:"CIRCUIT_COOLDOWN_MS" envDefault:"30000ms"`
}

// CacheConfig holds the §4.6 tier TTL table plus the backing store
// location.
type CacheConfig struct {
	TopFreshTTL      time.Duration `env:"CACHE_TOP_FRESH_TTL" envDefault:"5m"`
	TopStaleTTL      time.Duration `env:"CACHE_TOP_STALE_TTL" envDefault:"15m"`
	MediumFreshTTL   time.Duration `env:"CACHE_MEDIUM_FRESH_TTL" envDefault:"30m"`
	MediumStaleTTL   time.Duration `env:"CACHE_MEDIUM_STALE_TTL" envDefault:"6h"`
	LongTailFreshTTL time.Duration `env:"CACHE_LONGTAIL_FRESH_TTL" envDefault:"6h"`
	LongTailStaleTTL time.Duration `env:"CACHE_LONGTAIL_STALE_TTL" envDefault:"24h"`
	RedisAddr        string        `env:"CACHE_REDIS_ADDR" envDefault:"localhost:6379"`
	MemCacheSize     int           `env:"CACHE_MEM_SIZE" envDefault:"2048"`
}

// BrowserPoolConfig sizes the browser-automation lease pool (§5, §6).
type BrowserPoolConfig struct {
	Size int `env:"BROWSER_POOL_SIZE" envDefault:"3"`
}

// ProxyPoolConfig bounds residential-IP proxy concurrency (§5, §6).
type ProxyPoolConfig struct {
	MaxConcurrent int `env:"PROXY_POOL_MAX_CONCURRENT" envDefault:"5"`
}

type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type AppConfig struct {
	Env string `env:"ENV" envDefault:"development"`
}

// RateLimitConfig is the token bucket shape of §6. BucketWait bounds how
// long a request may queue for a token before failing as RATE_LIMITED
// (§4.1: "waits up to min(deadline_remaining, bucket_wait)").
type RateLimitConfig struct {
	Capacity     int
	RefillPerSec float64
	BucketWait   time.Duration
}

// CredentialKind is the §6 credentials enumeration.
type CredentialKind string

const (
	CredentialNone   CredentialKind = "none"
	CredentialAPIKey CredentialKind = "api-key"
	CredentialOAuth  CredentialKind = "oauth"
)

// TierOverride lets an operator pin an adapter's tier instead of letting
// the Router decide (§6).
type TierOverride string

const (
	TierOverrideAuto          TierOverride = "auto"
	TierOverridePrimary       TierOverride = "primary"
	TierOverrideComplementary TierOverride = "complementary"
	TierOverrideFallback      TierOverride = "fallback"
)

// AdapterConfig is the per-source configuration of §6.
type AdapterConfig struct {
	ID           string
	Enabled      bool
	RateLimit    RateLimitConfig
	Timeout      time.Duration
	TierOverride TierOverride
	Credential   CredentialKind
	TrustScore   int
}

// Load reads Config from the process environment (and an optional .env
// file), following the teacher's LoadConfig/MustLoadConfig split so
// callers can choose whether a bad config should be an error or a panic
// at boot.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using default environment values")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Adapters = DefaultAdapters()

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// MustLoad panics on a bad configuration; only cmd/ entrypoints should
// call this.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	if cfg.Executor.InteractiveDeadline <= 0 {
		return fmt.Errorf("EXECUTOR_INTERACTIVE_DEADLINE_MS must be positive")
	}
	if cfg.Executor.BackgroundDeadline <= cfg.Executor.InteractiveDeadline {
		return fmt.Errorf("EXECUTOR_BACKGROUND_DEADLINE_MS must exceed EXECUTOR_INTERACTIVE_DEADLINE_MS")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of json, console; got %q", cfg.Logging.Format)
	}
	return nil
}

// TTLFor returns (fresh, stale) TTLs for a route tier, per the §4.6 table.
func (c *CacheConfig) TTLFor(tier string) (fresh, stale time.Duration) {
	switch tier {
	case "top":
		return c.TopFreshTTL, c.TopStaleTTL
	case "medium":
		return c.MediumFreshTTL, c.MediumStaleTTL
	default:
		return c.LongTailFreshTTL, c.LongTailStaleTTL
	}
}
