package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yourusername/tribo-console/internal/backend"
	"github.com/yourusername/tribo-console/internal/config"
	"github.com/yourusername/tribo-console/internal/controller"
	"github.com/yourusername/tribo-console/internal/logging"
	"github.com/yourusername/tribo-console/internal/metrics"
	"github.com/yourusername/tribo-console/internal/tui"
)

var (
	// Version information (set via -ldflags)
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"

	// CLI flags
	configPath string
	backendURL string
	logLevel   string
	logFormat  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tribo-console",
		Short: "Operator console for the tribometer backend",
		Long: `tribo-console drives a tribometer through its HTTP backend: it opens the serial
connection, sends device instructions, follows the device log and browses the
generated charts. Without a subcommand it starts the terminal UI.`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&backendURL, "backend-url", "", "Backend base URL (overrides TRIBO_BACKEND_URL)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "Log format: json or text")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tribo-console %s\n", version)
			fmt.Printf("  git commit: %s\n", gitCommit)
			fmt.Printf("  build date: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(
		versionCmd,
		watchCmd(),
		simulateCmd(),
		portsCmd(),
		statusCmd(),
		connectCmd(),
		disconnectCmd(),
		sendCmd(),
		paramCmd(),
		chartCmd(),
		analyzeCmd(),
		shutdownCmd(),
		logCmd(),
		galleryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies the persistent flags on top of file and environment configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, out)
	if err != nil {
		return err
	}

	logger.Info().
		Str("version", version).
		Str("git_commit", gitCommit).
		Str("build_date", buildDate).
		Str("backend_url", cfg.BackendURL).
		Msg("Starting tribo-console")

	ctx, cancel := signalContext(logger)
	defer cancel()

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger)
	bridge := tui.NewBridge()
	ctrl := controller.NewController(cfg, client, bridge, logger)

	if err := tui.Run(ctx, ctrl, bridge, client.BaseURL(), logger); err != nil {
		metrics.HealthStatus.Set(0)
		return err
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}

// setup is shared by the one-shot subcommands, which log to stderr and print results to stdout
func setup() (*config.Config, *backend.Client, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	return cfg, backend.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger), logger, nil
}
