package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Mongo.Database != "auth_server" {
		t.Errorf("Mongo.Database = %q, want auth_server", cfg.Mongo.Database)
	}
	if cfg.Realm != "Users" {
		t.Errorf("Realm = %q, want Users", cfg.Realm)
	}
	if cfg.Auth.TokenWriteMode != WriteModeAsync {
		t.Errorf("TokenWriteMode = %q, want async", cfg.Auth.TokenWriteMode)
	}
	if cfg.Auth.TokenCacheTTL != 15*time.Minute {
		t.Errorf("TokenCacheTTL = %v, want 15m", cfg.Auth.TokenCacheTTL)
	}
	if cfg.Auth.TokenWriterWorkers != 4 || cfg.Auth.HashConcurrency != 4 {
		t.Errorf("unexpected pool sizes: %+v", cfg.Auth)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":             "9090",
		"LOG_PRETTY":       "true",
		"TOKEN_WRITE_MODE": "sync",
		"TOKEN_CACHE_TTL":  "1m",
		"REDIS_DB":         "3",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || !cfg.LogPretty || cfg.Redis.DB != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Auth.TokenWriteMode != WriteModeSync || cfg.Auth.TokenCacheTTL != time.Minute {
		t.Errorf("auth overrides not applied: %+v", cfg.Auth)
	}
}

func TestLoadFrom_RejectsUnknownWriteMode(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_WRITE_MODE": "batch",
	}))
	if err == nil {
		t.Fatal("expected error for unknown write mode")
	}
}
