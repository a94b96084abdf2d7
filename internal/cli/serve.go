package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hovde/livelink/internal/config"
	"github.com/hovde/livelink/internal/logger"
	"github.com/hovde/livelink/pkg/gateway"
	"github.com/hovde/livelink/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the livelink service",
	Long: `Run the livelink service in the foreground: restore sessions from
the snapshot file, serve the JSON API, and shut down gracefully on
SIGINT/SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:     level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	zl := lg.GetZerolog()

	store, err := session.NewStore(session.StoreOptions{
		StateFile:     cfg.Session.StateFile,
		TTL:           time.Duration(cfg.Session.TTLSeconds) * time.Second,
		MaxUpdates:    cfg.Session.MaxUpdates,
		PersistPolicy: session.PersistPolicy(cfg.Session.PersistPolicy),
		Logger:        &zl,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	server, err := gateway.NewServer(gateway.Config{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		Store:  store,
		Logger: zl,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize gateway: %w", err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	zl.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	return server.Stop()
}
