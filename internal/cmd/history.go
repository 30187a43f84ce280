package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/petervflocke/quicksearch/internal/history"
	"github.com/petervflocke/quicksearch/internal/models"
)

// NewHistoryCommand creates the 'quicksearch history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past search runs",
		Long: `List past search runs recorded in the history database: pattern,
roots, match counts, duration, and how each run ended. Runs are
shown newest first.

Examples:
  # Show the last 20 runs
  quicksearch history

  # Show the last 5 runs whose pattern mentions timeout
  quicksearch history --limit 5 --find timeout

  # Delete all recorded runs
  quicksearch history clear`,
		Args: cobra.NoArgs,
		RunE: historyCommand,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	cmd.Flags().String("find", "", "Only show runs whose pattern contains this text")
	cmd.Flags().String("config", "", "Config file path (default: <home>/config.yaml)")

	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// historyCommand lists recorded runs, newest first
func historyCommand(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	find, _ := cmd.Flags().GetString("find")
	configFile, _ := cmd.Flags().GetString("config")

	output := cmd.OutOrStdout()

	cfg, err := loadCommandConfig(configFile)
	if err != nil {
		return err
	}

	dbPath, err := historyDBPath(cfg)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(output, "No search history recorded yet.\n")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	var runs []*history.RunRecord
	if find != "" {
		runs, err = store.FindRuns(ctx, find, limit)
	} else {
		runs, err = store.RecentRuns(ctx, limit)
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(output, "No matching runs.\n")
		return nil
	}

	printRunHistory(output, runs)

	return nil
}

// printRunHistory renders run records in a compact listing
func printRunHistory(w io.Writer, runs []*history.RunRecord) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	cyan.Fprintf(w, "\n=== Search History ===\n\n")

	for _, run := range runs {
		mode := "literal"
		if run.Regex {
			mode = "regex"
		}

		fmt.Fprintf(w, "#%d  %s  %q (%s)\n",
			run.ID, run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Pattern, mode)
		fmt.Fprintf(w, "    Roots: %s\n", strings.Join(run.Roots, ", "))
		if len(run.Globs) > 0 {
			fmt.Fprintf(w, "    Globs: %s\n", strings.Join(run.Globs, ", "))
		}

		fmt.Fprintf(w, "    Matches: ")
		if run.Matches > 0 {
			green.Fprintf(w, "%d", run.Matches)
		} else {
			fmt.Fprintf(w, "%d", run.Matches)
		}
		duration := time.Duration(run.DurationMS) * time.Millisecond
		fmt.Fprintf(w, " in %d file(s), %s", run.FilesScanned, duration)

		switch run.Reason {
		case models.ReasonCompleted, "":
			fmt.Fprintf(w, "\n")
		case models.ReasonCancelled:
			fmt.Fprintf(w, "  ")
			yellow.Fprintf(w, "[%s]", run.Reason)
			fmt.Fprintf(w, "\n")
		default:
			fmt.Fprintf(w, "  ")
			red.Fprintf(w, "[%s]", run.Reason)
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintln(w)
	}
}

// newHistoryClearCommand creates the 'quicksearch history clear' command
func newHistoryClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded search runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return historyClearCommand(cmd, yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	cmd.Flags().String("config", "", "Config file path (default: <home>/config.yaml)")

	return cmd
}

// historyClearCommand deletes every recorded run after confirmation
func historyClearCommand(cmd *cobra.Command, yes bool) error {
	configFile, _ := cmd.Flags().GetString("config")
	output := cmd.OutOrStdout()

	cfg, err := loadCommandConfig(configFile)
	if err != nil {
		return err
	}

	dbPath, err := historyDBPath(cfg)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintf(output, "No search history recorded yet.\n")
		return nil
	}

	if !yes {
		fmt.Fprintf(output, "WARNING: This will delete ALL recorded search runs.\n")
		if !confirmHistoryClear(cmd.InOrStdin(), output) {
			fmt.Fprintf(output, "Operation cancelled.\n")
			return nil
		}
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	deleted, err := store.Clear(context.Background())
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	runText := "run"
	if deleted != 1 {
		runText = "runs"
	}
	fmt.Fprintf(output, "Deleted %d %s.\n", deleted, runText)

	return nil
}

// confirmHistoryClear prompts the user before a destructive action
func confirmHistoryClear(in io.Reader, out io.Writer) bool {
	fmt.Fprintf(out, "Continue? [y/N]: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
