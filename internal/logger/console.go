// Package logger provides logging implementations for quicksearch runs.
//
// The logger package offers structured logging of search progress at the
// run and summary levels. Implementations are thread-safe and support various
// output destinations (console, file, etc.).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/petervflocke/quicksearch/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs search progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps for tracking run flow.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// logLevel determines the minimum log level for messages to be output.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
// Color output is automatically enabled when writing to os.Stdout or os.Stderr with TTY support.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	// Normalize and validate log level
	normalizedLevel := normalizeLogLevel(logLevel)

	// Detect if we should use color output
	useColor := isTerminal(writer)

	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizedLevel,
		mutex:       sync.Mutex{},
		colorOutput: useColor,
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	// Check if writer is os.Stdout or os.Stderr
	if w == os.Stdout || w == os.Stderr {
		// Use color library's built-in TTY detection
		// This will return false if NO_COLOR env var is set
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}

	return "info" // Default level
}

// shouldLog checks if a message at the given level should be logged.
// Returns true if messageLevel >= configured logLevel.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	configuredLevel := logLevelToInt(cl.logLevel)
	msgLevel := logLevelToInt(messageLevel)
	return msgLevel >= configuredLevel
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo // Default to info if unknown
	}
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
// Format: "[HH:MM:SS] [DEBUG] <message>"
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
// Format: "[HH:MM:SS] [ERROR] <message>"
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	// Check if this level should be logged
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string

	if cl.colorOutput {
		// Format with colors
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		// Plain text format
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogSearchStart logs the start of a search run at INFO level.
// Format: "[HH:MM:SS] Searching for "<pattern>" in <roots> (<n> workers)"
func (cl *ConsoleLogger) LogSearchStart(req models.SearchRequest) {
	if cl.writer == nil {
		return
	}

	// Run start logging is at INFO level
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	roots := strings.Join(req.Roots, ", ")
	mode := "literal"
	if req.Regex {
		mode = "regex"
	}

	var message string
	if cl.colorOutput {
		// Bold/bright for the pattern
		pattern := color.New(color.Bold).Sprintf("%q", req.Pattern)
		message = fmt.Sprintf("[%s] Searching for %s (%s) in %s (%d workers)\n", ts, pattern, mode, roots, req.Workers)
	} else {
		message = fmt.Sprintf("[%s] Searching for %q (%s) in %s (%d workers)\n", ts, req.Pattern, mode, roots, req.Workers)
	}

	cl.writer.Write([]byte(message))
}

// LogRunProgress logs a compact snapshot of run counters at DEBUG level.
// Format: "[HH:MM:SS] Progress: files: N, matches: N, skipped: N, errors: N"
// Intended for periodic emission while a long search is in flight.
func (cl *ConsoleLogger) LogRunProgress(stats models.RunStats) {
	if cl.writer == nil {
		return
	}

	// Progress logging is at DEBUG level
	if !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	var statsLine string
	if cl.colorOutput {
		statsLine = formatColorizedStats(stats, newColorScheme())
	} else {
		statsLine = formatPlainStats(stats)
	}

	output := fmt.Sprintf("[%s] Progress: %s\n", ts, statsLine)
	cl.writer.Write([]byte(output))
}

// LogSummary logs the search summary with run statistics at INFO level.
// Format: "[HH:MM:SS] === Search Summary ===\n[HH:MM:SS] Files scanned: <n>\n[HH:MM:SS] Matches: <n>\n[HH:MM:SS] Binary skipped: <n>\n[HH:MM:SS] Errors: <n>\n[HH:MM:SS] Duration: <d>\n"
// A Result line is appended when the run did not complete normally.
func (cl *ConsoleLogger) LogSummary(outcome models.SearchOutcome) {
	if cl.writer == nil {
		return
	}

	// Summary logging is at INFO level
	if !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	durationStr := formatDuration(outcome.Elapsed)
	softErrors := outcome.SoftErrors()

	var output string

	if cl.colorOutput {
		// Colorized summary
		header := color.New(color.Bold).Sprint("=== Search Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Files scanned: %d\n", ts, outcome.FilesScanned)

		// Green for matches
		matchesText := color.New(color.FgGreen).Sprintf("Matches: %d", outcome.Matches)
		output += fmt.Sprintf("[%s] %s\n", ts, matchesText)

		output += fmt.Sprintf("[%s] Binary skipped: %d\n", ts, outcome.BinarySkipped)

		// Red for soft errors if any, otherwise show in default color
		if softErrors > 0 {
			errorsText := color.New(color.FgRed).Sprintf("Errors: %d", softErrors)
			output += fmt.Sprintf("[%s] %s\n", ts, errorsText)
		} else {
			output += fmt.Sprintf("[%s] Errors: %d\n", ts, softErrors)
		}

		output += fmt.Sprintf("[%s] Duration: %s\n", ts, durationStr)

		if outcome.Reason != models.ReasonCompleted {
			var reasonText string
			if outcome.Reason == models.ReasonCancelled {
				reasonText = color.New(color.FgYellow).Sprint(outcome.Reason)
			} else {
				reasonText = color.New(color.FgRed).Sprint(outcome.Reason)
			}
			output += fmt.Sprintf("[%s] Result: %s\n", ts, reasonText)
		}
	} else {
		// Plain text summary
		output = fmt.Sprintf("[%s] === Search Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Files scanned: %d\n", ts, outcome.FilesScanned)
		output += fmt.Sprintf("[%s] Matches: %d\n", ts, outcome.Matches)
		output += fmt.Sprintf("[%s] Binary skipped: %d\n", ts, outcome.BinarySkipped)
		output += fmt.Sprintf("[%s] Errors: %d\n", ts, softErrors)
		output += fmt.Sprintf("[%s] Duration: %s\n", ts, durationStr)

		if outcome.Reason != models.ReasonCompleted {
			output += fmt.Sprintf("[%s] Result: %s\n", ts, outcome.Reason)
		}
	}

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogTrace is a no-op implementation.
func (n *NoOpLogger) LogTrace(message string) {
}

// LogDebug is a no-op implementation.
func (n *NoOpLogger) LogDebug(message string) {
}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {
}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {
}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {
}

// LogSearchStart is a no-op implementation.
func (n *NoOpLogger) LogSearchStart(req models.SearchRequest) {
}

// LogRunProgress is a no-op implementation.
func (n *NoOpLogger) LogRunProgress(stats models.RunStats) {
}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(outcome models.SearchOutcome) {
}
