package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Env           string        `env:"APP_ENV"            envDefault:"dev"`
	Addr          string        `env:"APP_ADDR"           envDefault:"127.0.0.1:8080"`
	PublicURLRaw  string        `env:"APP_PUBLIC_URL"`
	CookieSecret  string        `env:"APP_COOKIE_SECRET"`
	WorkspaceTTL  time.Duration `env:"APP_WORKSPACE_TTL"  envDefault:"24h"`
	SweepInterval time.Duration `env:"APP_SWEEP_INTERVAL" envDefault:"5m"`
	LogLevel      string        `env:"APP_LOG_LEVEL"`
	SeedFile      string        `env:"APP_SEED_FILE"`
	HistoryFile   string        `env:"APP_SHELL_HISTORY"`

	PublicURL *url.URL `env:"-"`
}

// Load reads an optional .env file from the working directory, then the
// process environment.
func Load() (Config, error) {
	if err := loadDotEnvFile(".env", os.Setenv, os.Getenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf(".env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFromEnv parses cfg from environ only, ignoring the process environment.
func LoadFromEnv(environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, err
	}

	if cfg.PublicURLRaw != "" {
		parsed, err := url.Parse(cfg.PublicURLRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_PUBLIC_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_PUBLIC_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_PUBLIC_URL: scheme must be http or https")
		}
		cfg.PublicURL = parsed
	}

	if cfg.WorkspaceTTL <= 0 {
		return Config{}, errors.New("APP_WORKSPACE_TTL: must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, errors.New("APP_SWEEP_INTERVAL: must be > 0")
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	if cfg.IsProd() {
		if cfg.PublicURL == nil {
			return Config{}, errors.New("APP_PUBLIC_URL: required in prod")
		}
		if len(cfg.CookieSecret) < 32 {
			return Config{}, errors.New("APP_COOKIE_SECRET: must be at least 32 bytes in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func (c Config) CookieSecure() bool {
	if c.PublicURL != nil {
		return c.PublicURL.Scheme == "https"
	}
	return c.IsProd()
}
