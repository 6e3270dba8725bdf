package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/slackstats/workstats/internal/di"
	reportService "github.com/slackstats/workstats/internal/modules/report/service"
)

var reportTimeout time.Duration

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and post a usage report once",
	Long: `Report runs one report generation pass: the workspace directory and
channel histories are fetched, aggregated, and posted to the configured
destination channel.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().DurationVar(&reportTimeout, "timeout", 10*time.Minute, "Wall-clock limit for the run")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	injector, err := di.Setup()
	if err != nil {
		return err
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	report := do.MustInvoke[*reportService.Service](injector)

	ctx, cancel := context.WithTimeout(cmd.Context(), reportTimeout)
	defer cancel()

	return report.Run(ctx)
}
