package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olprod/backend/internal/adapters/authapi"
	"github.com/olprod/backend/internal/adapters/ollama"
	"github.com/olprod/backend/internal/adapters/releasesapi"
	"github.com/olprod/backend/internal/adapters/remote"
	"github.com/olprod/backend/internal/adapters/rest"
	"github.com/olprod/backend/internal/adapters/sqlite"
	"github.com/olprod/backend/internal/config"
	"github.com/olprod/backend/internal/core/ports"
	"github.com/olprod/backend/internal/core/services"
	"github.com/olprod/backend/internal/logger"
)

func main() {
	// 1. Configuration
	cfg := config.Load()
	logger.Init(logger.Config{
		ServiceName: "olprod-api",
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})
	if err := cfg.Validate(); err != nil {
		logger.Fatal(logger.EventServiceStartup, "invalid configuration", logger.Fields("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Driven adapters
	store, err := sqlite.NewAdapter(cfg.DatabasePath)
	if err != nil {
		logger.Fatal(logger.EventDBError, "failed to initialize database", logger.Fields("path", cfg.DatabasePath, "error", err))
	}
	defer store.Close()
	logger.Info(logger.EventDBConnection, "database ready", logger.Fields("path", cfg.DatabasePath))

	httpClient := remote.NewHTTPClient(ctx, remote.Config{
		ClientID:     cfg.RemoteClientID,
		ClientSecret: cfg.RemoteClientSecret,
		TokenURL:     cfg.RemoteTokenURL,
		Timeout:      cfg.RemoteTimeout,
	})
	releasesClient := releasesapi.NewClient(httpClient, cfg.ReleasesAPIURL)
	authClient := authapi.NewClient(httpClient, cfg.AuthAPIURL)

	ready := map[string]rest.ReadyCheck{"database": store.Ping}
	optional := map[string]rest.ReadyCheck{}

	var assistant ports.Assistant
	if cfg.OllamaHost != "" {
		ollamaClient := ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel)
		assistant = ollamaClient
		optional["assistant"] = ollamaClient.Ping
	} else {
		logger.Warn(logger.EventServiceStartup, "OLLAMA_HOST not set, support chat will use the canned reply", nil)
	}

	// 3. Core services
	releases := services.NewReleaseManager(
		releasesClient,
		store,
		services.CoverValidator{Strict: cfg.CoverStrict, Size: cfg.CoverSize},
		services.AudioValidator{Limit: cfg.AudioLimit},
	)
	svc := rest.Services{
		Releases:    releases,
		SmartLinks:  services.NewSmartLinkManager(store, cfg.PublicURL),
		Sessions:    services.NewSessions(authClient, cfg.JWTSecret, cfg.SessionTTL),
		Support:     services.NewSupport(assistant),
		Preferences: services.NewPreferences(store),
	}

	// 4. Driving adapter
	handler := rest.NewHandler(svc, rest.Options{
		RateLimit:      cfg.RateLimitRPS,
		RateBurst:      cfg.RateLimitBurst,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		TrustProxy:     cfg.TrustProxy,
		Ready:          ready,
		Optional:       optional,
	})

	// 5. Start the server
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	logger.Info(logger.EventServiceStartup, "OLPROD API is running", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"remote_auth", cfg.RemoteClientID != "",
	))

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal(logger.EventServiceShutdown, "server failed", logger.Fields("error", err))
		}
	case <-ctx.Done():
		logger.Info(logger.EventServiceShutdown, "shutting down server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(logger.EventServiceShutdown, "shutdown error", logger.Fields("error", err))
		}
	}
}
