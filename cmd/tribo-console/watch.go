package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/controller"
	"github.com/yourusername/tribo-console/internal/logging"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/view"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the console engine headless, logging status, log lines and gallery changes",
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	logger.Info().
		Str("version", version).
		Str("git_commit", gitCommit).
		Str("build_date", buildDate).
		Msg("Starting tribo-console watch")

	logger.Info().
		Str("backend_url", cfg.BackendURL).
		Dur("status_interval", cfg.StatusInterval).
		Dur("log_interval", cfg.LogInterval).
		Str("category", string(cfg.DefaultCategory)).
		Msg("Configuration loaded")

	ctx, cancel := signalContext(logger)
	defer cancel()

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger)
	ctrl := controller.NewController(cfg, client, view.NewLogger(logger), logger)

	// Start metrics server
	metricsServer := startMetricsServer(cfg.MetricsPort, logger)
	defer shutdownServer(metricsServer, "Metrics", logger)

	// Start health server
	healthServer := startHealthServer(cfg.HealthPort, ctrl.Ready, logger)
	defer shutdownServer(healthServer, "Health", logger)

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Controller error")
		metrics.HealthStatus.Set(0)
		return err
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}

func shutdownServer(server *http.Server, name string, logger zerolog.Logger) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msgf("%s server shutdown error", name)
	}
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", port).Msg("Starting metrics server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()

	return server
}

// startHealthServer starts the health check HTTP server
func startHealthServer(port int, ready func() bool, logger zerolog.Logger) *http.Server {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      healthHandler(ready),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", port).Msg("Starting health server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Health server error")
		}
	}()

	return server
}

func healthHandler(ready func() bool) http.Handler {
	mux := http.NewServeMux()

	// Liveness: always returns 200 if server is running
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Readiness: 200 once the initial snapshot is loaded and the loops are running
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("starting"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	return mux
}
