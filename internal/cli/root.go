// Package cli wires the climate-report commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// Run executes the root command with the process arguments.
func Run() ExitCode {
	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "climate-report",
		Short:         "Responsibility and impact of climate change, as an interactive report.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		newServeCmd(),
		newRenderCmd(),
		newSummaryCmd(),
		newExportCmd(),
		newValidateCmd(),
	)
	return rootCmd
}
