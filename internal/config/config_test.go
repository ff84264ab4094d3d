package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_FileValues(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
db:
  path: "test.db"
auth:
  jwt_secret: "s3cret"
  token_ttl: "1h"
cors:
  allowed_origins:
    - "http://localhost:3000"
seed:
  enabled: true
  admin:
    email: "admin@leafstack.local"
    username: "admin"
    password: "admin123"
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBPath != "test.db" || cfg.JWTSecret != "s3cret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TokenTTL != time.Hour || cfg.StatsInterval != 2*time.Second {
		t.Fatalf("durations: ttl=%v interval=%v", cfg.TokenTTL, cfg.StatsInterval)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("origins: %v", cfg.AllowedOrigins)
	}
	if !cfg.Seed.Enabled || cfg.Seed.SampleData || cfg.Seed.AdminName != "Administrator" {
		t.Fatalf("seed: %+v", cfg.Seed)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, "auth:\n  jwt_secret: from-file\n")
	t.Setenv("LIBRARY_AUTH_JWT_SECRET", "from-env")
	t.Setenv("LIBRARY_PORT", "7070")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret != "from-env" || cfg.Port != "7070" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoad_Rejections(t *testing.T) {
	if _, err := Load(writeConfig(t, "port: 8080\n")); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := Load(writeConfig(t, "auth:\n  jwt_secret: x\n  token_ttl: -1h\n")); err == nil {
		t.Fatalf("expected ttl error")
	}
	// No file at all still resolves from the environment.
	t.Setenv("LIBRARY_AUTH_JWT_SECRET", "env-only")
	cfg, err := Load(t.TempDir())
	if err != nil || cfg.JWTSecret != "env-only" || cfg.Port != "8080" {
		t.Fatalf("unexpected: %+v, %v", cfg, err)
	}
}
