// Command server runs the reconciliation upload shell over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/bdcrecon/internal/config"
	"github.com/JonMunkholm/bdcrecon/internal/core"
	_ "github.com/JonMunkholm/bdcrecon/internal/core/sources" // Register all sources
	"github.com/JonMunkholm/bdcrecon/internal/history"
	"github.com/JonMunkholm/bdcrecon/internal/logging"
	"github.com/JonMunkholm/bdcrecon/internal/web"
	"github.com/JonMunkholm/bdcrecon/internal/workbook"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"history_enabled", cfg.Database.Enabled(),
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"cover_sheet", cfg.Reconcile.CoverSheet,
	)

	ctx := context.Background()

	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithLiterals(cfg.Reconcile.Literals()),
		core.WithLimiter(core.NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)),
	}

	// Run history is optional; without a database the history API answers 503.
	var hist web.HistoryLister
	if cfg.Database.Enabled() {
		pool, err := connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store := history.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare history schema", "error", err)
			os.Exit(1)
		}
		opts = append(opts, core.WithRecorder(store))
		hist = store
	}

	service := core.NewService(
		workbook.NewReader(logger),
		workbook.NewWriter(
			workbook.WithCoverSheet(cfg.Reconcile.CoverSheet),
			workbook.WithWriterLogger(logger),
		),
		opts...,
	)

	for _, info := range service.ListSources() {
		slog.Debug("source registered", "key", info.Key, "label", info.Label, "required", info.Required)
	}
	slog.Info("sources registered", "count", core.SourceCount())

	server := web.NewServer(service, cfg, hist)

	// Background jobs stop before the server drains.
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go server.StartCleanupScheduler(jobCtx)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for reconciliations in flight (with timeout)
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for runs to complete", "active", status.Active)
			if err := service.WaitForRuns(shutdownCtx); err != nil {
				slog.Warn("runs did not complete in time", "error", err)
			} else {
				slog.Info("all runs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connect opens and pings the history pool.
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to history database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
