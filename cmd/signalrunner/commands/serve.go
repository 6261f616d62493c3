package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/akverma/signalrunner/internal/api"
	"github.com/akverma/signalrunner/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP server that triggers runs and serves the latest
persisted artifacts.

Endpoints:
  GET  /health         - Health check
  POST /api/run        - Trigger a pipeline run (?dry_run=true)
  GET  /api/signals    - Latest signal snapshot
  GET  /api/watchlist  - Latest watchlist snapshot

Example:
  signalrunner serve
  signalrunner serve --port 8080`,
	RunE: runServer,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (overrides PORT)")
}

func runServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if servePort != "" {
		app.cfg.Port = servePort
	}

	runHandler := handlers.NewRunHandler(app.orchestrator, app.logger)
	artifactHandler := handlers.NewArtifactHandler(app.store, app.logger)
	router := api.NewRouter(runHandler, artifactHandler, app.logger)

	server := api.New(app.cfg, app.logger, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		app.logger.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
