package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"DispoCeSoir/internal/auth"
	"DispoCeSoir/internal/config"
	"DispoCeSoir/internal/httpapi"
	"DispoCeSoir/internal/seed"
	"DispoCeSoir/internal/userui"
	"DispoCeSoir/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error("seed load failed", "err", err)
		os.Exit(1)
	}

	reg := workspace.NewRegistry(workspace.RegistryOpts{
		Factory: workspace.Factory{Seed: data, Logger: logger},
		TTL:     cfg.WorkspaceTTL,
		Logger:  logger,
	})

	codec := auth.NewCookieCodec([]byte(cfg.CookieSecret))
	if !codec.Signed() {
		logger.Warn("APP_COOKIE_SECRET is empty: workspace cookies are not signed")
	}
	binder := &workspace.Binder{
		Registry:     reg,
		Codec:        codec,
		CookieSecure: cfg.CookieSecure(),
	}

	handler := httpapi.NewRouter(httpapi.RouterOpts{
		Logger: logger,
		IsProd: cfg.IsProd(),
		Binder: binder,
		UI:     userui.New(userui.Opts{Logger: logger}),
	})

	ctx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go reg.RunSweeper(ctx, cfg.SweepInterval)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr, "workspace_ttl", cfg.WorkspaceTTL)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		cancelSweep()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
