package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const rootLong = `rootmodel reads RSML (Root System Markup Language) files, infers the capture
date of each file, and assembles the plants and roots they describe into a
model indexed by date.

Files that cannot be used are skipped with a diagnostic; a run only fails
when no file is usable, or in --strict mode when an input is missing or
not well-formed XML.

Configuration is read from rootmodel.yaml in the working directory (or
--config). ROOTMODEL_* environment variables, also read from .env,
override file values; flags override both.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Input path not found (strict mode)
  12 - Input is not well-formed XML (strict mode)
  13 - Every input file was skipped
  14 - Export to a database failed`

// newRootCmd builds the command tree. Every call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "rootmodel",
		Short:        "Assemble RSML root-system scans into a dated root model",
		Long:         rootLong,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", "", "Path to rootmodel.yaml (default: ./rootmodel.yaml if present)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text|json (default: text, or log_format in rootmodel.yaml)")

	rootCmd.AddCommand(newLoadCmd(), newDatesCmd(), newExportCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return newRootCmd().Execute()
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// commandContext cancels on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
