package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/haikal/sidekick/internal/config"
	"github.com/haikal/sidekick/internal/logger"
	"github.com/haikal/sidekick/internal/metrics"
	"github.com/haikal/sidekick/pkg/api"
	"github.com/haikal/sidekick/pkg/llm"
	"github.com/haikal/sidekick/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the code-assist HTTP server",
	Long: `Start the code-assist HTTP server in the foreground.
The server exposes the session and snippet endpoints used by the
editor plugin and runs until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Pick up GEMINI_API_KEY and friends from a local .env if present
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Close()

	provider, err := llm.NewProvider(cfg.Upstream.Provider, llm.Options{
		APIKey:   cfg.Upstream.APIKey,
		Model:    cfg.Upstream.Model,
		Endpoint: cfg.Upstream.Endpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	m := metrics.NewMetrics()
	store := session.New()

	cleanup := session.NewCleanup(
		store,
		time.Duration(cfg.Sessions.TTLHours)*time.Hour,
		cfg.Sessions.MaxTurns,
	)
	cleanup.SetInterval(time.Duration(cfg.Sessions.CleanupIntervalMinutes) * time.Minute)
	if err := cleanup.Start(); err != nil {
		return fmt.Errorf("failed to start session cleanup: %w", err)
	}
	defer cleanup.Stop()

	server, err := api.NewServer(api.ServerOptions{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Timeout:     cfg.Timeout(),
		LongTimeout: cfg.LongTimeout(),
	}, store, provider, m, lg.GetZerolog())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		return server.Stop()
	}
}
