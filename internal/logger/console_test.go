package logger

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petervflocke/quicksearch/internal/models"
)

// TestNewConsoleLogger verifies the constructor creates a ConsoleLogger with the provided writer.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		if logger == nil {
			t.Error("expected non-nil logger")
		}
		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "info" {
			t.Errorf("expected log level %q, got %q", "info", logger.logLevel)
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		if logger == nil {
			t.Error("expected non-nil logger even with nil writer")
		}
		if logger.writer != nil {
			t.Error("expected nil writer")
		}
	})
}

// TestLogSearchStart verifies search start messages are formatted correctly.
func TestLogSearchStart(t *testing.T) {
	tests := []struct {
		name         string
		req          models.SearchRequest
		expectedText string
	}{
		{
			name: "literal pattern single root",
			req: models.SearchRequest{
				Pattern: "needle",
				Roots:   []string{"/tmp"},
				Workers: 4,
			},
			expectedText: `Searching for "needle" (literal) in /tmp (4 workers)`,
		},
		{
			name: "regex pattern multiple roots",
			req: models.SearchRequest{
				Pattern: "foo.*bar",
				Regex:   true,
				Roots:   []string{"/a", "/b"},
				Workers: 8,
			},
			expectedText: `Searching for "foo.*bar" (regex) in /a, /b (8 workers)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, "info")

			logger.LogSearchStart(tt.req)

			output := buf.String()
			if !strings.Contains(output, tt.expectedText) {
				t.Errorf("expected output to contain %q, got %q", tt.expectedText, output)
			}

			// Verify timestamp prefix
			if !strings.HasPrefix(output, "[") {
				t.Error("expected output to start with timestamp [")
			}
		})
	}
}

// TestLogSearchStartRespectsLevel verifies start messages are filtered above info.
func TestLogSearchStartRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "warn")

	logger.LogSearchStart(models.SearchRequest{Pattern: "needle", Roots: []string{"."}, Workers: 1})

	if buf.Len() != 0 {
		t.Errorf("expected no output at warn level, got %q", buf.String())
	}
}

// TestLogRunProgress verifies progress snapshots are emitted at debug level only.
func TestLogRunProgress(t *testing.T) {
	stats := models.RunStats{
		FilesScanned:    12,
		Matches:         3,
		BinarySkipped:   1,
		TraversalErrors: 1,
		FileErrors:      1,
	}

	t.Run("emitted at debug level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "debug")

		logger.LogRunProgress(stats)

		output := buf.String()
		expected := "Progress: files: 12, matches: 3, skipped: 1, errors: 2"
		if !strings.Contains(output, expected) {
			t.Errorf("expected output to contain %q, got %q", expected, output)
		}
	})

	t.Run("filtered at info level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, "info")

		logger.LogRunProgress(stats)

		if buf.Len() != 0 {
			t.Errorf("expected no output at info level, got %q", buf.String())
		}
	})
}

// TestLogSummary verifies the summary block contains all run statistics.
func TestLogSummary(t *testing.T) {
	tests := []struct {
		name          string
		outcome       models.SearchOutcome
		expectedLines []string
		absentLines   []string
	}{
		{
			name: "completed run",
			outcome: models.SearchOutcome{
				FilesScanned:  120,
				Matches:       45,
				BinarySkipped: 3,
				Elapsed:       time.Minute + 2*time.Second,
				Reason:        models.ReasonCompleted,
			},
			expectedLines: []string{
				"=== Search Summary ===",
				"Files scanned: 120",
				"Matches: 45",
				"Binary skipped: 3",
				"Errors: 0",
				"Duration: 1m2s",
			},
			absentLines: []string{"Result:"},
		},
		{
			name: "cancelled run with errors",
			outcome: models.SearchOutcome{
				FilesScanned:    10,
				Matches:         2,
				TraversalErrors: 1,
				FileErrors:      2,
				Elapsed:         3 * time.Second,
				Reason:          models.ReasonCancelled,
			},
			expectedLines: []string{
				"Files scanned: 10",
				"Errors: 3",
				"Duration: 3s",
				"Result: CANCELLED",
			},
		},
		{
			name: "failed run",
			outcome: models.SearchOutcome{
				Elapsed: time.Second,
				Reason:  models.ReasonFailed,
			},
			expectedLines: []string{"Result: FAILED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, "info")

			logger.LogSummary(tt.outcome)

			output := buf.String()
			for _, line := range tt.expectedLines {
				if !strings.Contains(output, line) {
					t.Errorf("expected output to contain %q, got %q", line, output)
				}
			}
			for _, line := range tt.absentLines {
				if strings.Contains(output, line) {
					t.Errorf("expected output NOT to contain %q, got %q", line, output)
				}
			}
		})
	}
}

// TestConcurrentLogging verifies thread safety under concurrent use.
func TestConcurrentLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var successCount int32

	// Run multiple goroutines logging concurrently
	numGoroutines := 10
	wg := sync.WaitGroup{}
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(index int) {
			defer wg.Done()

			req := models.SearchRequest{
				Pattern: fmt.Sprintf("pattern-%d", index),
				Roots:   []string{"."},
				Workers: 2,
			}

			logger.LogSearchStart(req)
			logger.LogInfo(fmt.Sprintf("worker %d message", index))

			outcome := models.SearchOutcome{
				FilesScanned: 10,
				Matches:      2,
				Elapsed:      time.Second,
				Reason:       models.ReasonCompleted,
			}
			logger.LogSummary(outcome)

			atomic.AddInt32(&successCount, 1)
		}(i)
	}

	wg.Wait()

	// Verify all operations completed
	if successCount != int32(numGoroutines) {
		t.Errorf("expected %d successful operations, got %d", numGoroutines, successCount)
	}

	// Verify output was written
	output := buf.String()
	if len(output) == 0 {
		t.Error("expected non-empty output")
	}

	// Verify no data corruption (all patterns present)
	for i := 0; i < numGoroutines; i++ {
		pattern := fmt.Sprintf("pattern-%d", i)
		if !strings.Contains(output, pattern) {
			t.Errorf("expected output to contain %q", pattern)
		}
	}
}

// TestNilWriter verifies that nil writer is handled gracefully.
func TestNilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, "info")

	// These should not panic
	req := models.SearchRequest{
		Pattern: "needle",
		Roots:   []string{"."},
		Workers: 1,
	}

	logger.LogSearchStart(req)
	logger.LogRunProgress(models.RunStats{FilesScanned: 1})
	logger.LogInfo("info message")
	logger.LogError("error message")

	outcome := models.SearchOutcome{
		FilesScanned: 10,
		Matches:      0,
		Elapsed:      time.Minute,
		Reason:       models.ReasonCompleted,
	}
	logger.LogSummary(outcome)

	// If we got here without panic, test passed
}

// TestDurationFormatting verifies duration formatting for various time ranges.
func TestDurationFormatting(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "zero",
			duration: 0,
			expected: "0s",
		},
		{
			name:     "5 seconds",
			duration: 5 * time.Second,
			expected: "5s",
		},
		{
			name:     "sub-second rounds down",
			duration: 300 * time.Millisecond,
			expected: "0s",
		},
		{
			name:     "1 minute",
			duration: 1 * time.Minute,
			expected: "1m",
		},
		{
			name:     "1m30s",
			duration: 1*time.Minute + 30*time.Second,
			expected: "1m30s",
		},
		{
			name:     "1 hour",
			duration: 1 * time.Hour,
			expected: "1h",
		},
		{
			name:     "1h30m",
			duration: 1*time.Hour + 30*time.Minute,
			expected: "1h30m",
		},
		{
			name:     "1h30m45s",
			duration: 1*time.Hour + 30*time.Minute + 45*time.Second,
			expected: "1h30m45s",
		},
		{
			name:     "2h15m",
			duration: 2*time.Hour + 15*time.Minute,
			expected: "2h15m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatDuration(tt.duration)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

// TestNoOpLogger verifies that NoOpLogger discards everything without panicking.
func TestNoOpLogger(t *testing.T) {
	t.Run("creation", func(t *testing.T) {
		logger := NewNoOpLogger()
		if logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("methods don't panic", func(t *testing.T) {
		logger := NewNoOpLogger()

		logger.LogTrace("trace")
		logger.LogDebug("debug")
		logger.LogInfo("info")
		logger.LogWarn("warn")
		logger.LogError("error")
		logger.LogSearchStart(models.SearchRequest{Pattern: "x"})
		logger.LogRunProgress(models.RunStats{})
		logger.LogSummary(models.SearchOutcome{Reason: models.ReasonCompleted})
	})
}
