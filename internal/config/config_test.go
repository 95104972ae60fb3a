package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/claims")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if cfg.DocAITimeout != 60*time.Second {
		t.Errorf("expected default docai timeout 60s, got %s", cfg.DocAITimeout)
	}
}

func TestLoad_DatabaseURLRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/claims")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("expected production mode")
	}
}

func TestValidate_DocAITimeout(t *testing.T) {
	cfg := &Config{DocAIURL: "http://localhost:9000", DocAITimeout: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero DOCAI_TIMEOUT with DOCAI_URL set")
	}

	cfg.DocAITimeout = 30 * time.Second
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := &Config{RateLimitRPS: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative RATE_LIMIT_RPS")
	}
}
