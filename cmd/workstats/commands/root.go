package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "workstats",
	Short: "Slack workspace usage reporting",
	Long: `workstats pulls workspace-wide activity from Slack's Discovery API,
aggregates it into usage statistics, and posts the summary back into a
Slack channel as a block message.

The tool has two modes:
  - serve: run the event receiver; the report is triggered by a "hello" message
  - report: generate and post a report once, then exit`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
