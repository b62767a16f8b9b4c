package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/wallyben/autoenroll-core/internal/config"
	"github.com/wallyben/autoenroll-core/internal/core"
	_ "github.com/wallyben/autoenroll-core/internal/core/importers" // Register payroll sources
	"github.com/wallyben/autoenroll-core/internal/logging"
	"github.com/wallyben/autoenroll-core/internal/metrics"
	"github.com/wallyben/autoenroll-core/internal/web"
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

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"validate_ppsn", cfg.Import.ValidatePPSN,
		"strict_mode", cfg.Import.StrictMode,
		"package_max_concurrent", cfg.Package.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Amounts go out as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true

	for _, src := range core.Sources() {
		slog.Debug("payroll source", "source", src.Key, "available", src.Available)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	server := web.NewServer(cfg, metrics.New(reg), reg)

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Archives are written inside request handlers, but a handler can
		// outlive a timed-out Shutdown.
		if status := server.PackagingStatus(); status.Active+status.Waiting > 0 {
			slog.Info("waiting for packaging to complete", "active", status.Active, "waiting", status.Waiting)
			if err := server.WaitForPackaging(shutdownCtx); err != nil {
				slog.Warn("packaging did not complete in time", "error", err)
			} else {
				slog.Info("all packaging completed")
			}
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-idle
}
