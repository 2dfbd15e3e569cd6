package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rdrive-upload/internal/server"
	"rdrive-upload/internal/store"
)

func main() {
	cfg, err := server.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "service=backend msg=%q err=%v\n", "invalid_config", err)
		os.Exit(1)
	}

	logger := server.NewLogger(os.Stdout, cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(ctx, cfg.Storage)
	cancel()
	if err != nil {
		logger.Error("store_open_failed", map[string]any{
			"service": "backend",
			"backend": cfg.Storage.Backend,
		}, err)
		os.Exit(1)
	}

	if cfg.APIKey == "" {
		logger.Warn("api_key_not_set", map[string]any{
			"service": "backend",
			"detail":  "all endpoints are reachable without a key",
		})
	}

	srv := server.New(cfg, st, logger)

	// Start the HTTP server in a background goroutine.
	// This allows us to listen for OS signals while the server runs.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting", map[string]any{
			"service": "backend",
			"app":     cfg.AppName,
			"version": cfg.Version,
			"addr":    cfg.Addr,
			"backend": cfg.Storage.Backend,
			"storage": st.Location(),
		})
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting_down", map[string]any{"service": "backend", "signal": sig.String()})
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown_error", map[string]any{"service": "backend"}, err)
			os.Exit(1)
		}
		logger.Info("shutdown_complete", map[string]any{"service": "backend"})
	case err := <-errCh:
		if err != nil {
			logger.Error("server_error", map[string]any{"service": "backend"}, err)
			os.Exit(1)
		}
	}
}
