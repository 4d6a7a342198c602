// Package main is the entry point for the modhub edge API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modhub/internal/captcha"
	"modhub/internal/catalog"
	"modhub/internal/config"
	"modhub/internal/counters"
	"modhub/internal/handlers"
	"modhub/internal/hub"
	"modhub/internal/interactions"
	"modhub/internal/router"
	"modhub/internal/storage"
	"modhub/internal/submissions"
)

func main() {
	// Structured logger — text output, debug level.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"repo", cfg.RepoOwner+"/"+cfg.RepoName,
	)

	// Connect to Valkey (Redis-compatible counter store).
	valkeyClient, err := counters.Connect(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	store := counters.NewStore(valkeyClient)

	// Git host client for releases, issues, and the catalog snapshot.
	host := hub.New(cfg.RepoOwner, cfg.RepoName, cfg.RepoToken)
	if cfg.HubBaseURL != "" {
		host.SetBaseURL(cfg.HubBaseURL)
	}

	// Captcha verification — open mode when no secret is configured.
	verifier := captcha.New(cfg.CaptchaSecret)
	if !verifier.Enabled() {
		slog.Warn("captcha secret not configured — submissions are unverified")
	}

	// Connect to S3-compatible object storage (optional — the archive mirror
	// is skipped without it).
	archive, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if archive != nil {
		slog.Info("s3 archive connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 archive not configured — submissions are not mirrored")
	}

	// Core services.
	catalogSvc := catalog.NewService(catalog.NewFetcher(cfg.SnapshotURL, cfg.SnapshotTTL), store)
	interactionSvc := interactions.NewService(store)
	submissionSvc := submissions.NewService(host, verifier, archive, cfg.MaxUploadBytes)

	api := handlers.NewAPI(catalogSvc, interactionSvc, submissionSvc)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, cfg.AllowedOrigins)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate multi-file submission uploads to the git host.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
