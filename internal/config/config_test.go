package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/clinic_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default DB_MAX_CONNS 20, got %d", cfg.DBMaxConns)
	}
	if cfg.TokenTTLMinutes != 480 {
		t.Errorf("expected default TOKEN_TTL_MINUTES 480, got %d", cfg.TokenTTLMinutes)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_DevInsecureSecret(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/clinic_test")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a fallback dev secret in development mode")
	}
}

func TestValidate_ProductionRequiresSecret(t *testing.T) {
	cfg := &Config{
		Env:                   "production",
		TokenTTLMinutes:       480,
		DBMaxConns:            20,
		DBMinConns:            5,
		RequestTimeoutSeconds: 30,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty JWT_SECRET in production")
	}

	cfg.JWTSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_ConnBounds(t *testing.T) {
	cfg := &Config{
		Env:                   "development",
		JWTSecret:             "x",
		TokenTTLMinutes:       60,
		DBMaxConns:            5,
		DBMinConns:            10,
		RequestTimeoutSeconds: 30,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error when min conns exceed max conns")
	}
}
