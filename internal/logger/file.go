package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/petervflocke/quicksearch/internal/models"
)

// FileLogger logs search run events to files in a logs directory.
// It creates timestamped per-run log files and maintains a latest.log
// symlink pointing to the most recent run.
// It is thread-safe and implements the search.Logger interface.
// It supports log level filtering to control message verbosity.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a new FileLogger that writes to .quicksearch/logs/.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
// Uses default log level "info".
func NewFileLogger() (*FileLogger, error) {
	// Default log directory is .quicksearch/logs/ in current working directory
	logDir := filepath.Join(".quicksearch", "logs")
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDir creates a new FileLogger with a custom log directory.
// This is useful for testing or custom deployments.
// Uses default log level "info".
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger with a custom log directory and log level.
// This is useful for testing or custom deployments.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	// Open run log file for writing
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Create/update latest.log symlink
	symlinkPath := filepath.Join(logDir, "latest.log")

	// Remove existing symlink if it exists
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}

	// Create new symlink pointing to current run log
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	// Normalize and validate log level
	normalizedLevel := normalizeLogLevel(logLevel)

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizedLevel,
		mu:       sync.Mutex{},
	}

	// Write header to run log
	logger.writeRunLog("=== Quicksearch Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// shouldLog checks if a message at the given level should be logged.
// Returns true if messageLevel >= configured logLevel.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	configuredLevel := logLevelToInt(fl.logLevel)
	msgLevel := logLevelToInt(messageLevel)
	return msgLevel >= configuredLevel
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	// Check if this level should be logged
	levelLower := strings.ToLower(level)
	if !fl.shouldLog(levelLower) {
		return
	}

	formatted := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message)
	fl.writeRunLog(formatted)
}

// LogSearchStart logs the start of a search run at INFO level.
// It records the pattern, match mode, roots, and worker count.
func (fl *FileLogger) LogSearchStart(req models.SearchRequest) {
	// Run start logging is at INFO level
	if !fl.shouldLog("info") {
		return
	}

	mode := "literal"
	if req.Regex {
		mode = "regex"
	}

	message := fmt.Sprintf(
		"[%s] Searching for %q (%s) in %s (%d workers)\n",
		time.Now().Format("15:04:05"),
		req.Pattern,
		mode,
		strings.Join(req.Roots, ", "),
		req.Workers,
	)

	fl.writeRunLog(message)
}

// LogRunProgress is a no-op for the file logger.
// Progress snapshots are displayed on console but not written to log files.
func (fl *FileLogger) LogRunProgress(stats models.RunStats) {
	// No-op: progress snapshots are console-only for now
}

// LogSummary logs the search summary with final statistics at INFO level.
// It records scanned/matched/skipped counters, duration, and the run result.
func (fl *FileLogger) LogSummary(outcome models.SearchOutcome) {
	// Summary logging is at INFO level
	if !fl.shouldLog("info") {
		return
	}

	timestamp := time.Now().Format("15:04:05")

	// Build summary output
	message := fmt.Sprintf(
		"\n[%s] === SEARCH SUMMARY ===\n"+
			"[%s] Files scanned:  %d\n"+
			"[%s] Matches:        %d\n"+
			"[%s] Binary skipped: %d\n"+
			"[%s] Errors:         %d\n"+
			"[%s] Total time:     %.1fs\n"+
			"[%s] Result:         %s\n"+
			"[%s] Completed at:   %s\n",
		timestamp,
		timestamp,
		outcome.FilesScanned,
		timestamp,
		outcome.Matches,
		timestamp,
		outcome.BinarySkipped,
		timestamp,
		outcome.SoftErrors(),
		timestamp,
		outcome.Elapsed.Seconds(),
		timestamp,
		outcome.Reason,
		timestamp,
		time.Now().Format(time.RFC3339),
	)

	fl.writeRunLog(message)
}

// RunFile returns the path of the current run log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}
