package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressIndicator_Start(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 3)

	p.Start()

	if !strings.Contains(buf.String(), "Writing export files:") {
		t.Errorf("Expected header in output, got: %s", buf.String())
	}
}

func TestProgressIndicator_Step(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 3)

	p.Step("/tmp/results.json")
	p.Step("/tmp/results.csv")

	output := buf.String()

	// Steps count up and show only the basename
	if !strings.Contains(output, "[1/3] results.json") {
		t.Errorf("Expected first step in output, got: %s", output)
	}
	if !strings.Contains(output, "[2/3] results.csv") {
		t.Errorf("Expected second step in output, got: %s", output)
	}

	// Cyan color around step lines
	if !strings.Contains(output, "\x1b[36m") {
		t.Error("Expected cyan ANSI color code in output")
	}
}

func TestProgressIndicator_Complete(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2)

	p.Complete()

	output := buf.String()

	if !strings.Contains(output, "Wrote 2 export files") {
		t.Errorf("Expected completion message in output, got: %s", output)
	}

	// Green checkmark
	if !strings.Contains(output, "\x1b[32m✓\x1b[0m") {
		t.Error("Expected green checkmark in output")
	}
}

func TestProgressIndicator_FullSequence(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 2)

	p.Start()
	p.Step("a.json")
	p.Step("b.csv")
	p.Complete()

	output := buf.String()

	// All stages present, in order
	startIdx := strings.Index(output, "Writing export files:")
	firstIdx := strings.Index(output, "[1/2] a.json")
	secondIdx := strings.Index(output, "[2/2] b.csv")
	doneIdx := strings.Index(output, "Wrote 2 export files")

	if startIdx == -1 || firstIdx == -1 || secondIdx == -1 || doneIdx == -1 {
		t.Fatalf("Missing stages in output: %s", output)
	}
	if !(startIdx < firstIdx && firstIdx < secondIdx && secondIdx < doneIdx) {
		t.Errorf("Stages out of order in output: %s", output)
	}
}

func TestDisplaySingleExport(t *testing.T) {
	var buf bytes.Buffer

	DisplaySingleExport(&buf, "/tmp/results.md")

	expected := "Writing export to /tmp/results.md...\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}
