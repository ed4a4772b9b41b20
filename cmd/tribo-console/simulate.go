package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/tribo-console/internal/logging"
	"github.com/yourusername/tribo-console/internal/simulator"
)

func simulateCmd() *cobra.Command {
	var (
		addr   string
		images string
		ports  []string
		busy   []string
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Serve a simulated tribometer backend for development and demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.SimulatorAddr
			}
			if images == "" {
				images = cfg.SimulatorImages
			}

			ctx, cancel := signalContext(logger)
			defer cancel()

			sim, err := simulator.New(simulator.Options{
				Ports:     ports,
				BusyPorts: busy,
				ImageDir:  images,
				Seed:      seed,
				Logger:    logger,
				Shutdown:  cancel,
			})
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           sim.Router(),
				ReadHeaderTimeout: 5 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", addr).Str("images", images).Msg("Starting simulated backend")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Simulator shutdown error")
			}
			logger.Info().Msg("Simulator stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from simulator_addr)")
	cmd.Flags().StringVar(&images, "images", "", "Image root directory (default from simulator_images)")
	cmd.Flags().StringSliceVar(&ports, "ports", nil, "Serial port names to advertise")
	cmd.Flags().StringSliceVar(&busy, "busy", nil, "Ports that fail to open")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for measurements (0 = time based)")
	return cmd
}
