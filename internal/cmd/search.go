package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/petervflocke/quicksearch/internal/config"
	"github.com/petervflocke/quicksearch/internal/display"
	"github.com/petervflocke/quicksearch/internal/export"
	"github.com/petervflocke/quicksearch/internal/history"
	"github.com/petervflocke/quicksearch/internal/logger"
	"github.com/petervflocke/quicksearch/internal/models"
	"github.com/petervflocke/quicksearch/internal/search"
)

// ErrNoMatches is returned when a search completes without producing a
// single match. main maps it to exit code 1, following the grep
// convention; other errors exit 2.
var ErrNoMatches = errors.New("no matches found")

// progressInterval is how often the verbose progress line is emitted
// while a search is in flight.
const progressInterval = 2 * time.Second

// runLogger is the logging surface the search command drives: the engine's
// leveled messages plus the run lifecycle events both concrete loggers
// implement.
type runLogger interface {
	search.Logger
	LogSearchStart(req models.SearchRequest)
	LogRunProgress(stats models.RunStats)
	LogSummary(outcome models.SearchOutcome)
}

// multiLogger fans every log call out to all attached loggers
type multiLogger struct {
	loggers []runLogger
}

func (m *multiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *multiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *multiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *multiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *multiLogger) LogSearchStart(req models.SearchRequest) {
	for _, l := range m.loggers {
		l.LogSearchStart(req)
	}
}

func (m *multiLogger) LogRunProgress(stats models.RunStats) {
	for _, l := range m.loggers {
		l.LogRunProgress(stats)
	}
}

func (m *multiLogger) LogSummary(outcome models.SearchOutcome) {
	for _, l := range m.loggers {
		l.LogSummary(outcome)
	}
}

// NewSearchCommand creates the 'quicksearch search' command
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [paths...]",
		Short: "Search for text in files under one or more directory trees",
		Long: `Search recursively for text in files whose names match the given
glob patterns. Paths default to the current directory.

Results stream as they are found: a "File: path:line" header, any
context lines with their numbers, and the matching line marked with
'>'. Directories like .git and node_modules are pruned, and files
that look binary are skipped.

Examples:
  # Literal search in the current directory
  quicksearch search -t "TODO"

  # Regex search in Go files under two trees
  quicksearch search src vendor -t "func Test\w+" -e -p "*.go"

  # Three context lines, eight workers, sorted output
  quicksearch search -t "timeout" -c 3 -j 8 --sort

  # Export matches and keep the run out of the history database
  quicksearch search -t "password" --export leaks.json --no-history`,
		Args: cobra.ArbitraryArgs,
		RunE: searchCommand,
	}

	cmd.Flags().StringP("text", "t", "", "Text to search for (required)")
	cmd.Flags().StringP("pattern", "p", "*", "Comma-separated file name globs, e.g. \"*.go,*.md\"")
	cmd.Flags().BoolP("regex", "e", false, "Interpret the search text as a regular expression")
	cmd.Flags().IntP("context", "c", 0, "Context lines captured before and after each match")
	cmd.Flags().IntP("jobs", "j", 0, "Number of scan workers (0 = number of CPUs)")
	cmd.Flags().BoolP("verbose", "v", false, "Log run progress and a summary to stderr")
	cmd.Flags().Bool("binary", false, "Scan files that look binary instead of skipping them")
	cmd.Flags().Bool("hidden", false, "Include hidden files and directories")
	cmd.Flags().Bool("pdf", false, "Extract and search text from PDF files (needs pdftotext)")
	cmd.Flags().Bool("sort", false, "Buffer all results and print them sorted by path and line")
	cmd.Flags().String("export", "", "Write results to one or more comma-separated files (.json, .csv, .md, or .html)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the search history")
	cmd.Flags().String("config", "", "Config file path (default: <home>/config.yaml)")
	cmd.Flags().String("log-dir", "", "Write a run log file to this directory")

	cmd.MarkFlagRequired("text")

	return cmd
}

// searchCommand implements the search command logic
func searchCommand(cmd *cobra.Command, args []string) error {
	searchText, _ := cmd.Flags().GetString("text")
	globList, _ := cmd.Flags().GetString("pattern")
	useRegex, _ := cmd.Flags().GetBool("regex")
	contextLines, _ := cmd.Flags().GetInt("context")
	jobs, _ := cmd.Flags().GetInt("jobs")
	verbose, _ := cmd.Flags().GetBool("verbose")
	scanBinary, _ := cmd.Flags().GetBool("binary")
	includeHidden, _ := cmd.Flags().GetBool("hidden")
	searchPDF, _ := cmd.Flags().GetBool("pdf")
	sortOutput, _ := cmd.Flags().GetBool("sort")
	exportPath, _ := cmd.Flags().GetString("export")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	configFile, _ := cmd.Flags().GetString("config")
	logDir, _ := cmd.Flags().GetString("log-dir")

	cfg, err := loadCommandConfig(configFile)
	if err != nil {
		return err
	}

	// Only flags the user actually set override the config file
	var jobsFlag, contextFlag *int
	var hiddenFlag, binaryFlag, pdfFlag *bool
	if cmd.Flags().Changed("jobs") {
		jobsFlag = &jobs
	}
	if cmd.Flags().Changed("context") {
		contextFlag = &contextLines
	}
	if cmd.Flags().Changed("hidden") {
		hiddenFlag = &includeHidden
	}
	if cmd.Flags().Changed("binary") {
		binaryFlag = &scanBinary
	}
	if cmd.Flags().Changed("pdf") {
		pdfFlag = &searchPDF
	}
	cfg.MergeWithFlags(jobsFlag, contextFlag, hiddenFlag, binaryFlag, pdfFlag)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.SearchPDF {
		if _, lookErr := exec.LookPath("pdftotext"); lookErr != nil {
			warn := display.WarnMissingTool("pdftotext",
				"Install poppler-utils to search PDF content. PDF files are skipped for this run.")
			warn.Display(cmd.ErrOrStderr())
			cfg.SearchPDF = false
		}
	}

	req := models.SearchRequest{
		Roots:         args,
		Pattern:       searchText,
		Regex:         useRegex,
		Globs:         splitList(globList),
		ContextLines:  cfg.ContextLines,
		Workers:       cfg.Workers,
		IncludeBinary: cfg.IncludeBinary,
		IncludeHidden: cfg.IncludeHidden,
		SearchPDF:     cfg.SearchPDF,
		ExcludeDirs:   cfg.ExcludeDirs,
	}

	// Diagnostics go to stderr so stdout stays clean for piping results.
	// Soft errors surface by default; -v adds lifecycle and progress lines.
	consoleLevel := "warn"
	if verbose {
		consoleLevel = "debug"
	}
	runLog := &multiLogger{}
	runLog.loggers = append(runLog.loggers, logger.NewConsoleLogger(cmd.ErrOrStderr(), consoleLevel))

	if cmd.Flags().Changed("log-dir") {
		dir := logDir
		if dir == "" {
			dir = cfg.LogDir
		}
		fileLog, logErr := logger.NewFileLoggerWithDirAndLevel(dir, cfg.LogLevel)
		if logErr != nil {
			return fmt.Errorf("failed to create run log: %w", logErr)
		}
		defer fileLog.Close()
		runLog.loggers = append(runLog.loggers, fileLog)
	}

	// The first Ctrl-C cancels the run and lets it wind down; restoring
	// the default handler means a second Ctrl-C exits immediately.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()

	engine := search.NewEngine(runLog)
	run, err := engine.Start(ctx, req)
	if err != nil {
		return err
	}

	runLog.LogSearchStart(run.Request())

	if verbose {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-run.Done():
					return
				case <-ticker.C:
					runLog.LogRunProgress(run.Stats())
				}
			}
		}()
	}

	printer := display.NewPrinter(cmd.OutOrStdout())

	var outcome models.SearchOutcome
	var records []models.MatchRecord
	if sortOutput || exportPath != "" {
		outcome = run.Each(func(rec models.MatchRecord) {
			records = append(records, rec)
		})
		if sortOutput {
			sort.Slice(records, func(i, j int) bool {
				if records[i].Path != records[j].Path {
					return records[i].Path < records[j].Path
				}
				return records[i].LineNumber < records[j].LineNumber
			})
		}
		printer.PrintAll(records)
	} else {
		outcome = run.Each(printer.PrintMatch)
	}

	runLog.LogSummary(outcome)

	if exportPath != "" {
		if exportErr := exportResults(cmd.ErrOrStderr(), exportPath, run.Request(), records, outcome); exportErr != nil {
			return exportErr
		}
	}

	if cfg.History.Enabled && !noHistory {
		recordRunHistory(cfg, runLog, run.Request(), outcome)
	}

	if outcome.Reason == models.ReasonFailed {
		return fmt.Errorf("no usable search roots")
	}
	if outcome.Matches == 0 {
		return ErrNoMatches
	}

	return nil
}

// exportResults writes the collected records to every --export target. The
// format of each target follows its file extension.
func exportResults(w io.Writer, list string, req models.SearchRequest, records []models.MatchRecord, outcome models.SearchOutcome) error {
	targets := splitList(list)
	if len(targets) == 0 {
		return fmt.Errorf("no export targets in %q", list)
	}

	report := export.NewReport(req, records, outcome)

	if len(targets) == 1 {
		if err := export.Write(targets[0], report); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		display.DisplaySingleExport(w, targets[0])
		return nil
	}

	progress := display.NewProgressIndicator(w, len(targets))
	progress.Start()
	for _, target := range targets {
		progress.Step(target)
		if err := export.Write(target, report); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}
	progress.Complete()
	return nil
}

// loadCommandConfig loads the config file named by --config, falling back
// to config.yaml in the quicksearch home. A missing file yields defaults.
func loadCommandConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadConfig(path)
	} else {
		cfg, err = config.LoadConfigFromHome()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
// Both -p globs and --export targets use it.
func splitList(list string) []string {
	var items []string
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// historyDBPath resolves the history database file from the configuration.
// Relative directories land under the quicksearch home.
func historyDBPath(cfg *config.Config) (string, error) {
	dir := cfg.History.DBPath
	if dir == "" {
		return config.GetHistoryDBPath()
	}
	if !filepath.IsAbs(dir) {
		home, err := config.GetQuicksearchHome()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, dir)
	}
	return filepath.Join(dir, "runs.db"), nil
}

// recordRunHistory stores the finished run in the history database and
// prunes old rows. History failures degrade to warnings so a successful
// search still reports its results.
func recordRunHistory(cfg *config.Config, runLog runLogger, req models.SearchRequest, outcome models.SearchOutcome) {
	dbPath, err := historyDBPath(cfg)
	if err != nil {
		runLog.LogWarn(fmt.Sprintf("history not recorded: %v", err))
		return
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		runLog.LogWarn(fmt.Sprintf("history not recorded: %v", err))
		return
	}
	defer store.Close()

	// The run context may already be cancelled (Ctrl-C); cancelled runs
	// are still worth recording.
	ctx := context.Background()

	rec := history.NewRunRecord(req, outcome)
	if err := store.RecordRun(ctx, rec); err != nil {
		runLog.LogWarn(fmt.Sprintf("history not recorded: %v", err))
		return
	}

	if cfg.History.MaxRuns > 0 {
		if _, err := store.PruneRuns(ctx, cfg.History.MaxRuns); err != nil {
			runLog.LogWarn(fmt.Sprintf("history not pruned: %v", err))
		}
	}
}
