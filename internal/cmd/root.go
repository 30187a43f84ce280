package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for quicksearch
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quicksearch",
		Short: "Fast parallel text search across directory trees",
		Long: `Quicksearch recursively scans directory trees for a text pattern,
streaming matches with context lines as they are found.

Files are selected by glob patterns, scanned by a pool of parallel
workers, and binary files and noisy directories (.git, node_modules,
build output) are skipped unless asked for. Results can be exported
to JSON, CSV, Markdown, or HTML, and past runs are kept in a local
history database.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once and maps it to an exit code
		SilenceErrors: true,
	}

	// Add subcommands
	cmd.AddCommand(NewSearchCommand())
	cmd.AddCommand(NewInteractiveCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
