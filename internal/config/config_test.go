package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	err := os.WriteFile(path, []byte(`# comment
APP_ADDR=127.0.0.1:8081
export APP_SEED_FILE="/srv/dispo/seed.yaml"
APP_COOKIE_SECRET='supersecret'
INVALID_LINE
EMPTY=
`), 0o600)
	if err != nil {
		t.Fatalf("write env file: %v", err)
	}

	env := map[string]string{
		"APP_ADDR": "127.0.0.1:8080",
	}
	getenv := func(k string) string { return env[k] }
	setenv := func(k, v string) error {
		env[k] = v
		return nil
	}

	if err := loadDotEnvFile(path, setenv, getenv); err != nil {
		t.Fatalf("loadDotEnvFile: %v", err)
	}

	if got := env["APP_ADDR"]; got != "127.0.0.1:8080" {
		t.Fatalf("APP_ADDR override: got %q", got)
	}
	if got := env["APP_SEED_FILE"]; got != "/srv/dispo/seed.yaml" {
		t.Fatalf("APP_SEED_FILE: got %q", got)
	}
	if got := env["APP_COOKIE_SECRET"]; got != "supersecret" {
		t.Fatalf("APP_COOKIE_SECRET: got %q", got)
	}
	if _, ok := env["EMPTY"]; ok {
		t.Fatalf("EMPTY: expected not set, got %q", env["EMPTY"])
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(nil)
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Env != "dev" || cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("defaults = %q %q", cfg.Env, cfg.Addr)
	}
	if cfg.WorkspaceTTL != 24*time.Hour || cfg.SweepInterval != 5*time.Minute {
		t.Fatalf("durations = %v %v", cfg.WorkspaceTTL, cfg.SweepInterval)
	}
	if cfg.CookieSecure() {
		t.Fatalf("dev without public url should not force secure cookies")
	}
}

func TestLoadFromEnvValidation(t *testing.T) {
	secret := strings.Repeat("k", 32)
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad env", map[string]string{"APP_ENV": "staging"}, "APP_ENV"},
		{"relative url", map[string]string{"APP_PUBLIC_URL": "/app"}, "APP_PUBLIC_URL"},
		{"ftp url", map[string]string{"APP_PUBLIC_URL": "ftp://example.com"}, "APP_PUBLIC_URL"},
		{"zero ttl", map[string]string{"APP_WORKSPACE_TTL": "0s"}, "APP_WORKSPACE_TTL"},
		{"bad duration", map[string]string{"APP_SWEEP_INTERVAL": "soon"}, "invalid duration"},
		{"prod without url", map[string]string{"APP_ENV": "prod", "APP_COOKIE_SECRET": secret}, "APP_PUBLIC_URL"},
		{"prod short secret", map[string]string{"APP_ENV": "prod", "APP_PUBLIC_URL": "https://dispo.example"}, "APP_COOKIE_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromEnv(tt.env)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnvProd(t *testing.T) {
	cfg, err := LoadFromEnv(map[string]string{
		"APP_ENV":           "prod",
		"APP_PUBLIC_URL":    "https://dispo.example",
		"APP_COOKIE_SECRET": strings.Repeat("k", 32),
		"APP_WORKSPACE_TTL": "2h",
		"APP_SEED_FILE":     "/etc/dispo/seed.yaml",
	})
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if !cfg.IsProd() || !cfg.CookieSecure() {
		t.Fatalf("expected prod with secure cookies")
	}
	if cfg.WorkspaceTTL != 2*time.Hour || cfg.SeedFile != "/etc/dispo/seed.yaml" {
		t.Fatalf("cfg = %#v", cfg)
	}
}
