package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mcoot/chessclub/internal/api"
	"github.com/mcoot/chessclub/internal/config"
	"github.com/mcoot/chessclub/internal/factory"
	"github.com/mcoot/chessclub/internal/storage/postgres"
	redisstorage "github.com/mcoot/chessclub/internal/storage/redis"
	"github.com/mcoot/chessclub/internal/tracing"
	"github.com/mcoot/chessclub/internal/web"
)

// housekeepingInterval is how often empty hubs and idle sessions are dropped
const housekeepingInterval = time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Setup(cfg.TraceExporter, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	factoryCfg := factory.Config{
		Logger:         logger,
		StorageType:    cfg.StorageType,
		RatingsAPIURL:  cfg.RatingsAPIURL,
		RatingsTimeout: cfg.RatingsTimeout,
		MembersFile:    cfg.MembersFile,
		SeedFile:       cfg.SeedFile,
		SearchDebounce: cfg.SearchDebounce,

		SessionIdleTimeout: cfg.SessionIdleTimeout,
	}

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.DSN = cfg.DatabaseURL
		factoryCfg.PostgresConfig = &pgCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	logger.Info("application ready",
		slog.String("storage", cfg.StorageType),
		slog.Bool("static_ratings", cfg.UseStaticRatings() || cfg.RatingsAPIURL == ""),
		slog.String("trace_exporter", cfg.TraceExporter),
	)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		EventService:        app.EventService,
		RegistrationService: app.RegistrationService,
		WizardController:    app.WizardController,
		Directory:           app.Directory,
		AllowedOrigins:      cfg.CORSAllowedOrigins,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		EventService:     app.EventService,
		WizardController: app.WizardController,
		TermsRenderer:    app.TermsRenderer,
		HubManager:       app.HubManager,
		StaticDir:        findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go housekeeping(ctx, app, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func housekeeping(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.HubManager.CleanupEmptyHubs()
			if _, err := app.WizardController.PurgeIdleSessions(ctx); err != nil {
				logger.Error("session purge failed", slog.String("error", err.Error()))
			}
		}
	}
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	// Try common locations
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
