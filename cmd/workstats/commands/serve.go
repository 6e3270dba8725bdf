package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/slackstats/workstats/internal/di"
	"github.com/slackstats/workstats/internal/shared/config"
	httpServer "github.com/slackstats/workstats/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the event receiver",
	Long: `Serve starts the HTTP event receiver. Inbound Slack events are verified
against the signing secret; a message containing "hello" triggers report
generation and posting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	injector, err := di.Setup()
	if err != nil {
		return err
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg := do.MustInvoke[*config.Config](injector)
	server := do.MustInvoke[*httpServer.Server](injector)

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start event server", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Event receiver started", "port", cfg.HTTPPort)
	slog.Info("Press Ctrl+C to stop")

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	slog.Info("Shutting down...")
	return nil
}
