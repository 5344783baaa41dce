// Package cli implements the coop command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"coop/internal/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the coop CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coop",
		Short: "coop: a cooperative batch kernel",
		Long:  "coop boots a set of built-in user programs and schedules them round robin until every one has exited.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = newLogger(cmd, flagLogLevel, flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "auto", "Log format (text, json, auto)")

	root.AddCommand(
		newRunCmd(),
		newAppsCmd(),
		newVersionCmd(),
	)

	return root
}

func newLogger(cmd *cobra.Command, level, format string) *slog.Logger {
	w := cmd.ErrOrStderr()
	return logging.NewLoggerWithWriter(logging.ParseLevel(level), logging.ResolveFormat(format, w), w)
}
