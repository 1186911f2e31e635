package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Token write modes.
const (
	WriteModeAsync = "async"
	WriteModeSync  = "sync"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	Realm     string `env:"REALM,      default=Users"`

	Mongo MongoConfig
	Redis RedisConfig
	Auth  AuthConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_server"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuthConfig struct {
	TokenCacheTTL      time.Duration `env:"TOKEN_CACHE_TTL,      default=15m"`
	TokenWriteMode     string        `env:"TOKEN_WRITE_MODE,     default=async"`
	TokenWriterWorkers int           `env:"TOKEN_WRITER_WORKERS, default=4"`
	HashConcurrency    int           `env:"HASH_CONCURRENCY,     default=4"`
	BcryptCost         int           `env:"BCRYPT_COST,          default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Auth.TokenWriteMode {
	case WriteModeAsync, WriteModeSync:
	default:
		return fmt.Errorf("config: TOKEN_WRITE_MODE must be %q or %q, got %q",
			WriteModeAsync, WriteModeSync, c.Auth.TokenWriteMode)
	}
	if c.Auth.TokenCacheTTL < 0 {
		return fmt.Errorf("config: TOKEN_CACHE_TTL must not be negative")
	}
	if c.Realm == "" {
		return fmt.Errorf("config: REALM must not be empty")
	}
	return nil
}
