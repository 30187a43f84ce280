package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisplayWarning_TitleOnly(t *testing.T) {
	var buf bytes.Buffer
	w := Warning{
		Title: "Configuration Missing",
	}

	w.Display(&buf)

	output := buf.String()

	// Should contain yellow color code
	if !strings.Contains(output, "\x1b[33m") {
		t.Error("Expected yellow ANSI color code in output")
	}

	// Should contain warning emoji
	if !strings.Contains(output, "⚠️") {
		t.Error("Expected warning emoji ⚠️ in output")
	}

	// Should contain title
	if !strings.Contains(output, "Configuration Missing") {
		t.Error("Expected title in output")
	}

	// Should end with reset code
	if !strings.Contains(output, "\x1b[0m") {
		t.Error("Expected ANSI reset code in output")
	}
}

func TestDisplayWarning_WithMessage(t *testing.T) {
	var buf bytes.Buffer
	w := Warning{
		Title:   "Binary Files Skipped",
		Message: "Use --binary to scan files that look binary",
	}

	w.Display(&buf)

	output := buf.String()

	// Should contain title
	if !strings.Contains(output, "Binary Files Skipped") {
		t.Error("Expected title in output")
	}

	// Should contain message with indentation
	if !strings.Contains(output, "    Use --binary to scan files that look binary") {
		t.Error("Expected indented message in output")
	}

	// Should contain yellow color
	if !strings.Contains(output, "\x1b[33m") {
		t.Error("Expected yellow ANSI color code in output")
	}
}

func TestDisplayWarning_WithFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		wantText string
	}{
		{
			name:     "single file",
			files:    []string{"report.pdf"},
			wantText: "Affected file:",
		},
		{
			name:     "multiple files",
			files:    []string{"report.pdf", "notes.pdf", "scan.pdf"},
			wantText: "Affected files:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := Warning{
				Title: "PDF Extraction Failed",
				Files: tt.files,
			}

			w.Display(&buf)

			output := buf.String()

			// Should use singular/plural correctly
			if !strings.Contains(output, tt.wantText) {
				t.Errorf("Expected %q in output, got: %s", tt.wantText, output)
			}

			// Should list each file with indentation and numbering
			for i, file := range tt.files {
				expected := strings.Repeat(" ", 6) + (string(rune('1' + i))) + ". " + file
				if !strings.Contains(output, expected) {
					t.Errorf("Expected file entry %q in output, got: %s", expected, output)
				}
			}
		})
	}
}

func TestDisplayWarning_WithSuggestion(t *testing.T) {
	var buf bytes.Buffer
	w := Warning{
		Title:      "Slow Search",
		Suggestion: "Narrow the search with --pattern or exclude large directories",
	}

	w.Display(&buf)

	output := buf.String()

	if !strings.Contains(output, "Suggestion:") {
		t.Error("Expected suggestion header in output")
	}
	if !strings.Contains(output, "Narrow the search with --pattern or exclude large directories") {
		t.Error("Expected suggestion text in output")
	}
}

func TestDisplayWarning_AllComponents(t *testing.T) {
	var buf bytes.Buffer
	w := Warning{
		Title:      "Export Incomplete",
		Message:    "Two targets could not be written",
		Files:      []string{"out.json", "out.csv"},
		Suggestion: "Check directory permissions",
	}

	w.Display(&buf)

	output := buf.String()

	for _, want := range []string{
		"Export Incomplete",
		"Two targets could not be written",
		"Affected files:",
		"1. out.json",
		"2. out.csv",
		"Suggestion:",
		"Check directory permissions",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}
}

func TestWarnMissingTool(t *testing.T) {
	w := WarnMissingTool("pdftotext", "Install poppler-utils to enable PDF search")

	if !strings.Contains(w.Title, "pdftotext") {
		t.Errorf("Expected tool name in title, got %q", w.Title)
	}
	if w.Suggestion != "Install poppler-utils to enable PDF search" {
		t.Errorf("Unexpected suggestion: %q", w.Suggestion)
	}

	var buf bytes.Buffer
	w.Display(&buf)

	output := buf.String()
	if !strings.Contains(output, `Required tool "pdftotext" not found in PATH`) {
		t.Errorf("Expected tool warning in output, got: %s", output)
	}
}
