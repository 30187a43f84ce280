package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/petervflocke/quicksearch/internal/config"
	"github.com/petervflocke/quicksearch/internal/export"
	"github.com/petervflocke/quicksearch/internal/logger"
	"github.com/petervflocke/quicksearch/internal/models"
	"github.com/petervflocke/quicksearch/internal/search"
)

const (
	statsInterval = 500 * time.Millisecond

	// recordBatchMax caps how many records a single message may carry so a
	// fast run cannot starve the event loop.
	recordBatchMax = 64

	// chromeLines is the vertical space around the results viewport:
	// header, blank, two input rows, blank, status bar.
	chromeLines = 6
)

type Focus int

const (
	FocusPattern Focus = iota
	FocusGlobs
	FocusResults
)

func (f Focus) next() Focus {
	switch f {
	case FocusPattern:
		return FocusGlobs
	case FocusGlobs:
		return FocusResults
	default:
		return FocusPattern
	}
}

func (f Focus) prev() Focus {
	switch f {
	case FocusPattern:
		return FocusResults
	case FocusGlobs:
		return FocusPattern
	default:
		return FocusGlobs
	}
}

// Options seeds the interactive session. Text and Globs prefill the inputs;
// a nil Config falls back to the defaults.
type Options struct {
	Roots  []string
	Text   string
	Globs  string
	Config *config.Config
}

type App struct {
	cfg    *config.Config
	engine *search.Engine
	roots  []string

	patternInput textinput.Model
	globsInput   textinput.Model
	viewport     viewport.Model

	// Active run; nil until the first Enter. outcome is set once the
	// record stream closes, which also marks the run as finished.
	run     *search.Run
	outcome *models.SearchOutcome

	records []models.MatchRecord
	blocks  []string

	focus  Focus
	regex  bool
	status string
	width  int
	height int
	ready  bool
}

func NewApp(opts Options) App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	roots := append([]string(nil), opts.Roots...)
	if len(roots) == 0 {
		roots = []string{"."}
	}

	pattern := textinput.New()
	pattern.Placeholder = "text to search for"
	pattern.CharLimit = 256
	pattern.SetValue(opts.Text)
	pattern.Focus()

	globs := textinput.New()
	globs.Placeholder = "*.go, *.md"
	globs.CharLimit = 256
	globs.SetValue(opts.Globs)
	if opts.Globs == "" {
		globs.SetValue("*")
	}

	return App{
		cfg:          cfg,
		engine:       search.NewEngine(logger.NewNoOpLogger()),
		roots:        roots,
		patternInput: pattern,
		globsInput:   globs,
		focus:        FocusPattern,
		status:       "Press Enter to search",
	}
}

// Run starts the interactive full-screen session and blocks until the user
// quits. The search engine logs nowhere: the terminal belongs to the UI, and
// soft error counts surface through the status bar instead.
func Run(opts Options) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}

func (a App) Init() tea.Cmd {
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		inputWidth := msg.Width - 46
		if inputWidth < 16 {
			inputWidth = 16
		}
		a.patternInput.Width = inputWidth
		a.globsInput.Width = inputWidth

		viewHeight := msg.Height - chromeLines
		if viewHeight < 1 {
			viewHeight = 1
		}
		if !a.ready {
			a.viewport = viewport.New(msg.Width, viewHeight)
			a.ready = true
			a.refreshViewport()
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = viewHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.ForceQuit):
			if a.runActive() {
				a.run.Cancel()
			}
			return &a, tea.Quit

		case key.Matches(msg, keys.Quit) && a.focus == FocusResults:
			if a.runActive() {
				a.run.Cancel()
			}
			return &a, tea.Quit

		case key.Matches(msg, keys.Start):
			return &a, a.startRun()

		case key.Matches(msg, keys.Cancel):
			if a.runActive() {
				a.run.Cancel()
				a.status = "Cancelling..."
			} else if a.focus != FocusPattern {
				cmds = append(cmds, a.setFocus(FocusPattern))
			}
			return &a, tea.Batch(cmds...)

		case key.Matches(msg, keys.ToggleRegex):
			a.regex = !a.regex
			return &a, nil

		case key.Matches(msg, keys.Tab):
			return &a, a.setFocus(a.focus.next())

		case key.Matches(msg, keys.ShiftTab):
			return &a, a.setFocus(a.focus.prev())

		case key.Matches(msg, keys.Export) && a.focus == FocusResults:
			return &a, a.exportResults()
		}

		cmds = append(cmds, a.updateFocused(msg))

	case recordsMsg:
		if a.run != nil && msg.RunID == a.run.ID() {
			a.appendRecords(msg.Records)
			cmds = append(cmds, waitForRecords(a.run))
		}

	case runDoneMsg:
		if a.run != nil && msg.RunID == a.run.ID() {
			outcome := msg.Outcome
			a.outcome = &outcome
			a.status = summaryStatus(outcome)
			if len(a.records) == 0 {
				a.refreshViewport()
			}
		}

	case statsTickMsg:
		if a.runActive() && msg.RunID == a.run.ID() {
			a.status = progressStatus(a.run.Stats())
			cmds = append(cmds, scheduleStatsTick(a.run.ID()))
		}

	case exportDoneMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			a.status = fmt.Sprintf("Exported to %s", msg.Path)
		}

	default:
		cmds = append(cmds, a.updateFocused(msg))
	}

	return &a, tea.Batch(cmds...)
}

func (a App) View() string {
	if !a.ready {
		return "\n  Initializing..."
	}

	var b strings.Builder
	b.WriteString(RenderHeader(a.roots, a.width))
	b.WriteString("\n\n")
	b.WriteString("  " + styleLabel.Render("Search:") + " " + a.patternInput.View() + "\n")
	b.WriteString("  " + styleLabel.Render("Globs: ") + " " + a.globsInput.View() + "  " + a.renderToggles() + "\n\n")
	b.WriteString(a.viewport.View() + "\n")
	b.WriteString(RenderStatusBar(a.status, a.contextHints(), a.width))
	return b.String()
}

func (a App) renderToggles() string {
	regex := styleMuted.Render("regex:off")
	if a.regex {
		regex = styleWarning.Render("regex:on")
	}
	workers := "auto"
	if a.cfg.Workers > 0 {
		workers = strconv.Itoa(a.cfg.Workers)
	}
	extras := styleMuted.Render(fmt.Sprintf("  context:%d  workers:%s", a.cfg.ContextLines, workers))
	return regex + extras
}

func (a App) contextHints() string {
	if a.runActive() {
		return "esc:cancel  ctrl+c:quit"
	}
	if a.focus == FocusResults {
		return "j/k:scroll  e:export  enter:search again  tab:edit  q:quit"
	}
	return "enter:search  tab:next field  ctrl+r:regex  ctrl+c:quit"
}

func (a App) runActive() bool {
	return a.run != nil && a.outcome == nil
}

// setFocus moves keyboard focus and returns the blink command for the
// newly focused input, if any.
func (a *App) setFocus(f Focus) tea.Cmd {
	a.focus = f
	a.patternInput.Blur()
	a.globsInput.Blur()
	switch f {
	case FocusPattern:
		return a.patternInput.Focus()
	case FocusGlobs:
		return a.globsInput.Focus()
	}
	return nil
}

func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case FocusPattern:
		a.patternInput, cmd = a.patternInput.Update(msg)
	case FocusGlobs:
		a.globsInput, cmd = a.globsInput.Update(msg)
	case FocusResults:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return cmd
}

// startRun launches a search with the current input values. Only one run may
// be in flight; a finished run's results are discarded when the next starts.
func (a *App) startRun() tea.Cmd {
	if a.runActive() {
		a.status = "A search is already running (esc to cancel)"
		return nil
	}

	pattern := strings.TrimSpace(a.patternInput.Value())
	if pattern == "" {
		a.status = "Type something to search for"
		return nil
	}

	req := models.SearchRequest{
		Roots:         a.roots,
		Pattern:       pattern,
		Regex:         a.regex,
		Globs:         parseGlobs(a.globsInput.Value()),
		ContextLines:  a.cfg.ContextLines,
		Workers:       a.cfg.Workers,
		IncludeBinary: a.cfg.IncludeBinary,
		IncludeHidden: a.cfg.IncludeHidden,
		SearchPDF:     a.cfg.SearchPDF,
		ExcludeDirs:   a.cfg.ExcludeDirs,
	}

	run, err := a.engine.Start(context.Background(), req)
	if err != nil {
		a.status = fmt.Sprintf("Error: %v", err)
		return nil
	}

	a.run = run
	a.outcome = nil
	a.records = nil
	a.blocks = nil
	a.status = "Searching..."
	a.refreshViewport()

	focusCmd := a.setFocus(FocusResults)
	return tea.Batch(waitForRecords(run), scheduleStatsTick(run.ID()), focusCmd)
}

// waitForRecords blocks on the record stream and hands back a bounded batch.
// A closed stream means the run has finished and its outcome is final.
func waitForRecords(run *search.Run) tea.Cmd {
	return func() tea.Msg {
		rec, ok := <-run.Records()
		if !ok {
			return runDoneMsg{RunID: run.ID(), Outcome: run.Outcome()}
		}
		batch := []models.MatchRecord{rec}
		for len(batch) < recordBatchMax {
			select {
			case rec, ok := <-run.Records():
				if !ok {
					// Stream closed mid-drain; the close is picked up
					// on the next wait.
					return recordsMsg{RunID: run.ID(), Records: batch}
				}
				batch = append(batch, rec)
			default:
				return recordsMsg{RunID: run.ID(), Records: batch}
			}
		}
		return recordsMsg{RunID: run.ID(), Records: batch}
	}
}

func scheduleStatsTick(runID string) tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return statsTickMsg{RunID: runID, At: t}
	})
}

// exportResults writes the finished run's records to a timestamped Markdown
// file in the current directory.
func (a *App) exportResults() tea.Cmd {
	if a.outcome == nil {
		a.status = "Nothing to export yet"
		return nil
	}
	if len(a.records) == 0 {
		a.status = "No matches to export"
		return nil
	}

	req := a.run.Request()
	records := a.records
	outcome := *a.outcome
	path := exportFileName(time.Now())
	a.status = fmt.Sprintf("Exporting to %s...", path)

	return func() tea.Msg {
		report := export.NewReport(req, records, outcome)
		if err := export.Write(path, report); err != nil {
			return exportDoneMsg{Path: path, Err: err}
		}
		return exportDoneMsg{Path: path}
	}
}

func exportFileName(t time.Time) string {
	return fmt.Sprintf("quicksearch-%s.md", t.Format("20060102-150405"))
}

// appendRecords renders the new batch into the results view. The scroll
// position is kept, so a reader working from the top is not yanked to the
// bottom while the run is still producing.
func (a *App) appendRecords(recs []models.MatchRecord) {
	a.records = append(a.records, recs...)
	for _, rec := range recs {
		a.blocks = append(a.blocks, renderRecord(rec))
	}
	if !a.ready {
		return
	}
	offset := a.viewport.YOffset
	a.viewport.SetContent(strings.Join(a.blocks, "\n"))
	a.viewport.SetYOffset(offset)
}

func (a *App) refreshViewport() {
	if !a.ready {
		return
	}
	if len(a.blocks) == 0 {
		switch {
		case a.outcome != nil:
			a.viewport.SetContent(styleMuted.Render("  No matches"))
		case a.run != nil:
			a.viewport.SetContent(styleMuted.Render("  Searching..."))
		default:
			a.viewport.SetContent(styleMuted.Render("  Press Enter to search"))
		}
		return
	}
	a.viewport.SetContent(strings.Join(a.blocks, "\n"))
}

func renderRecord(rec models.MatchRecord) string {
	var b strings.Builder
	b.WriteString(stylePath.Render(fmt.Sprintf("File: %s:%d", rec.Path, rec.LineNumber)))
	b.WriteString("\n")
	for _, ctx := range rec.Before {
		b.WriteString(styleContext.Render(fmt.Sprintf("%3d | %s", ctx.Number, ctx.Text)))
		b.WriteString("\n")
	}
	b.WriteString(styleMatch.Render(fmt.Sprintf(">%2d | %s", rec.LineNumber, rec.Line)))
	b.WriteString("\n")
	for _, ctx := range rec.After {
		b.WriteString(styleContext.Render(fmt.Sprintf("%3d | %s", ctx.Number, ctx.Text)))
		b.WriteString("\n")
	}
	return b.String()
}

func progressStatus(stats models.RunStats) string {
	s := fmt.Sprintf("Searching... %d files scanned, %d matches", stats.FilesScanned, stats.Matches)
	if skipped := stats.BinarySkipped; skipped > 0 {
		s += fmt.Sprintf(", %d binary skipped", skipped)
	}
	if errs := stats.TraversalErrors + stats.FileErrors; errs > 0 {
		s += fmt.Sprintf(", %d errors", errs)
	}
	return s
}

func summaryStatus(outcome models.SearchOutcome) string {
	reason := reasonStyle(outcome.Reason).Render(outcome.Reason)
	s := fmt.Sprintf("%s: %d matches in %d files, %s",
		reason, outcome.Matches, outcome.FilesScanned,
		outcome.Elapsed.Round(time.Millisecond))
	if errs := outcome.SoftErrors(); errs > 0 {
		s += fmt.Sprintf(", %d soft errors", errs)
	}
	return s
}

func parseGlobs(list string) []string {
	var globs []string
	for _, g := range strings.Split(list, ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			globs = append(globs, g)
		}
	}
	return globs
}
