package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/petervflocke/quicksearch/internal/models"
)

// colorScheme defines consistent colors for different counter types.
// Green: matches found
// Red: error counters
// Yellow: skipped-file counters
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	value   *color.Color
}

// newColorScheme creates the standard color scheme for run counters.
func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		value:   color.New(color.FgWhite),
	}
}

// formatColorizedMetric formats a single counter with colorized label and value.
// Label is colored cyan, value is colored white.
// Format: "label: value"
func formatColorizedMetric(label string, value interface{}, scheme *colorScheme) string {
	labelColored := scheme.label.Sprint(label)
	valueColored := scheme.value.Sprintf("%v", value)
	return fmt.Sprintf("%s: %s", labelColored, valueColored)
}

// formatColorizedStats formats run counters with color coding.
// Format: "files: N, matches: N, skipped: N, errors: N"
// The matches counter is colored green when positive, skipped yellow when
// positive, and errors red when positive; zero counters use the cyan/white
// label scheme. Colors are automatically disabled when output is not a TTY
// via fatih/color's built-in detection.
func formatColorizedStats(stats models.RunStats, scheme *colorScheme) string {
	var parts []string

	parts = append(parts, formatColorizedMetric("files", stats.FilesScanned, scheme))

	// Matches found (success - green)
	if stats.Matches > 0 {
		labelColored := scheme.success.Sprint("matches")
		valueColored := scheme.value.Sprintf("%d", stats.Matches)
		parts = append(parts, fmt.Sprintf("%s: %s", labelColored, valueColored))
	} else {
		parts = append(parts, formatColorizedMetric("matches", stats.Matches, scheme))
	}

	// Binary files skipped (warning - yellow)
	if stats.BinarySkipped > 0 {
		labelColored := scheme.warn.Sprint("skipped")
		valueColored := scheme.warn.Sprintf("%d", stats.BinarySkipped)
		parts = append(parts, fmt.Sprintf("%s: %s", labelColored, valueColored))
	} else {
		parts = append(parts, formatColorizedMetric("skipped", stats.BinarySkipped, scheme))
	}

	// Soft errors (failures - red)
	softErrors := stats.TraversalErrors + stats.FileErrors
	if softErrors > 0 {
		labelColored := scheme.fail.Sprint("errors")
		valueColored := scheme.fail.Sprintf("%d", softErrors)
		parts = append(parts, fmt.Sprintf("%s: %s", labelColored, valueColored))
	} else {
		parts = append(parts, formatColorizedMetric("errors", softErrors, scheme))
	}

	return strings.Join(parts, ", ")
}

// formatPlainStats formats run counters without color codes.
// Format: "files: N, matches: N, skipped: N, errors: N"
func formatPlainStats(stats models.RunStats) string {
	softErrors := stats.TraversalErrors + stats.FileErrors
	return fmt.Sprintf("files: %d, matches: %d, skipped: %d, errors: %d",
		stats.FilesScanned, stats.Matches, stats.BinarySkipped, softErrors)
}
