package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/petervflocke/quicksearch/internal/tui"
)

// NewInteractiveCommand creates the 'quicksearch interactive' command
func NewInteractiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive [paths...]",
		Aliases: []string{"tui"},
		Short:   "Run searches from a full-screen terminal UI",
		Long: `Open a terminal UI for running searches interactively.

Type a pattern, adjust the glob filter, and press Enter to start a
run. Results stream into a scrollable viewport while the status bar
tracks live progress. Esc cancels a run in flight, 'e' exports the
collected results, and 'q' quits.`,
		Args: cobra.ArbitraryArgs,
		RunE: interactiveCommand,
	}

	cmd.Flags().StringP("text", "t", "", "Initial search text")
	cmd.Flags().StringP("pattern", "p", "*", "Initial file name globs")
	cmd.Flags().String("config", "", "Config file path (default: <home>/config.yaml)")

	return cmd
}

// interactiveCommand starts the TUI after making sure a terminal is attached
func interactiveCommand(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("interactive mode requires a terminal (use 'quicksearch search' for scripted runs)")
	}

	searchText, _ := cmd.Flags().GetString("text")
	globList, _ := cmd.Flags().GetString("pattern")
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := loadCommandConfig(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return tui.Run(tui.Options{
		Roots:  args,
		Text:   searchText,
		Globs:  globList,
		Config: cfg,
	})
}
