package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Env:                   "test",
		HTTPPort:              "8080",
		DatabaseURL:           "postgres://localhost:5432/pos_admin",
		JWTIssuer:             "pos-admin-api",
		JWTAudience:           "pos-admin-console",
		JWTAccessSecret:       strings.Repeat("s", 32),
		JWTAccessTTL:          8 * time.Hour,
		AuthRateLimitPerMin:   30,
		APIRateLimitPerMin:    240,
		ListCacheTTL:          30 * time.Second,
		PermissionCacheTTL:    time.Minute,
		OTELExporterOTLPEndpoint: "localhost:4317",
		OTELTraceSamplingRatio:   1.0,
		OTELLogLevel:             "info",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	cfg.JWTAccessSecret = "short"
	cfg.APIRateLimitPerMin = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_ACCESS_SECRET", "API_RATE_LIMIT_PER_MIN"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %q", want, err.Error())
		}
	}
}

func TestValidateRedisAddrRequiredWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.RedisEnabled = true
	cfg.RedisAddr = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "REDIS_ADDR") {
		t.Fatalf("expected REDIS_ADDR error, got %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pos_admin")
	t.Setenv("JWT_ACCESS_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.JWTAccessTTL != 8*time.Hour {
		t.Errorf("JWTAccessTTL = %v, want 8h", cfg.JWTAccessTTL)
	}
	if cfg.ListCacheTTL != 30*time.Second {
		t.Errorf("ListCacheTTL = %v, want 30s", cfg.ListCacheTTL)
	}
	if cfg.RedisEnabled {
		t.Error("RedisEnabled should default to false")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pos_admin")
	t.Setenv("JWT_ACCESS_SECRET", strings.Repeat("s", 32))
	t.Setenv("LIST_CACHE_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid LIST_CACHE_TTL")
	}
}
