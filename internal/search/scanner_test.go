package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petervflocke/quicksearch/internal/models"
)

func collectLines(t *testing.T, input string, pattern string, contextLines int) []models.MatchRecord {
	t.Helper()

	match, err := buildMatcher(pattern, false)
	if err != nil {
		t.Fatalf("buildMatcher returned error: %v", err)
	}

	var records []models.MatchRecord
	err = scanLines(strings.NewReader(input), "test.txt", match, contextLines, nil, func(rec models.MatchRecord) {
		records = append(records, rec)
	})
	if err != nil {
		t.Fatalf("scanLines returned error: %v", err)
	}
	return records
}

func TestScanLines_NoContext(t *testing.T) {
	input := "alpha\nneedle one\ncharlie\nneedle two\n"

	records := collectLines(t, input, "needle", 0)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].LineNumber != 2 || records[0].Line != "needle one" {
		t.Errorf("first record = %d %q, want 2 %q", records[0].LineNumber, records[0].Line, "needle one")
	}
	if records[1].LineNumber != 4 || records[1].Line != "needle two" {
		t.Errorf("second record = %d %q, want 4 %q", records[1].LineNumber, records[1].Line, "needle two")
	}
	if len(records[0].Before) != 0 || len(records[0].After) != 0 {
		t.Errorf("expected empty context with contextLines=0, got before=%d after=%d",
			len(records[0].Before), len(records[0].After))
	}
}

func TestScanLines_ContextWindows(t *testing.T) {
	input := "alpha\nbravo\nneedle here\ndelta\necho\n"

	records := collectLines(t, input, "needle", 2)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.LineNumber != 3 {
		t.Errorf("LineNumber = %d, want 3", rec.LineNumber)
	}

	wantBefore := []models.ContextLine{{Number: 1, Text: "alpha"}, {Number: 2, Text: "bravo"}}
	wantAfter := []models.ContextLine{{Number: 4, Text: "delta"}, {Number: 5, Text: "echo"}}

	if len(rec.Before) != len(wantBefore) {
		t.Fatalf("Before length = %d, want %d", len(rec.Before), len(wantBefore))
	}
	for i, want := range wantBefore {
		if rec.Before[i] != want {
			t.Errorf("Before[%d] = %+v, want %+v", i, rec.Before[i], want)
		}
	}
	if len(rec.After) != len(wantAfter) {
		t.Fatalf("After length = %d, want %d", len(rec.After), len(wantAfter))
	}
	for i, want := range wantAfter {
		if rec.After[i] != want {
			t.Errorf("After[%d] = %+v, want %+v", i, rec.After[i], want)
		}
	}
}

func TestScanLines_ContextTruncatedAtFileBoundaries(t *testing.T) {
	input := "needle first\nmiddle\nneedle last\n"

	records := collectLines(t, input, "needle", 2)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if len(first.Before) != 0 {
		t.Errorf("first match Before = %v, want empty at start of file", first.Before)
	}
	if len(first.After) != 2 {
		t.Errorf("first match After length = %d, want 2", len(first.After))
	}

	last := records[1]
	if len(last.Before) != 2 {
		t.Errorf("last match Before length = %d, want 2", len(last.Before))
	}
	if len(last.After) != 0 {
		t.Errorf("last match After = %v, want empty at end of file", last.After)
	}
}

func TestScanLines_OverlappingWindowsNotDeduplicated(t *testing.T) {
	input := "needle a\nneedle b\ntail\n"

	records := collectLines(t, input, "needle", 2)

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Both windows contain line 3; it must appear in each record.
	first, second := records[0], records[1]
	if first.LineNumber != 1 || second.LineNumber != 2 {
		t.Fatalf("records out of order: %d then %d", first.LineNumber, second.LineNumber)
	}

	wantFirstAfter := []models.ContextLine{{Number: 2, Text: "needle b"}, {Number: 3, Text: "tail"}}
	if len(first.After) != len(wantFirstAfter) {
		t.Fatalf("first After length = %d, want %d", len(first.After), len(wantFirstAfter))
	}
	for i, want := range wantFirstAfter {
		if first.After[i] != want {
			t.Errorf("first After[%d] = %+v, want %+v", i, first.After[i], want)
		}
	}

	if len(second.Before) != 1 || second.Before[0].Number != 1 {
		t.Errorf("second Before = %+v, want line 1 only", second.Before)
	}
	if len(second.After) != 1 || second.After[0] != (models.ContextLine{Number: 3, Text: "tail"}) {
		t.Errorf("second After = %+v, want line 3 only", second.After)
	}
}

func TestScanLines_MatchLineTrimmedContextRaw(t *testing.T) {
	input := "  padded context\n\tneedle indented\t\nafter\n"

	records := collectLines(t, input, "needle", 1)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Line != "needle indented" {
		t.Errorf("Line = %q, want trimmed %q", records[0].Line, "needle indented")
	}
	if records[0].Before[0].Text != "  padded context" {
		t.Errorf("Before[0].Text = %q, want raw whitespace preserved", records[0].Before[0].Text)
	}
}

func TestScanLines_StrictlyIncreasingOrder(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("needle line\nfiller\n")
	}

	records := collectLines(t, sb.String(), "needle", 3)

	if len(records) != 50 {
		t.Fatalf("expected 50 records, got %d", len(records))
	}
	prev := 0
	for _, rec := range records {
		if rec.LineNumber <= prev {
			t.Fatalf("line order violated: %d after %d", rec.LineNumber, prev)
		}
		prev = rec.LineNumber
	}
}

func TestScanLines_CarriageReturnStripped(t *testing.T) {
	input := "before\r\nneedle match\r\nafter\r\n"

	records := collectLines(t, input, "needle", 1)

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Before[0].Text != "before" {
		t.Errorf("Before[0].Text = %q, want %q", records[0].Before[0].Text, "before")
	}
	if records[0].After[0].Text != "after" {
		t.Errorf("After[0].Text = %q, want %q", records[0].After[0].Text, "after")
	}
}

func TestScanLines_CancellationFlushesPending(t *testing.T) {
	token := NewCancelToken()

	lines := 0
	match := func(line string) bool {
		lines++
		if lines == 4 {
			token.Cancel()
		}
		return strings.Contains(line, "needle")
	}

	input := "needle early\nb\nc\nd\ne\nf\nneedle late\n"
	var records []models.MatchRecord
	err := scanLines(strings.NewReader(input), "test.txt", match, 5, token, func(rec models.MatchRecord) {
		records = append(records, rec)
	})
	if err != nil {
		t.Fatalf("scanLines returned error: %v", err)
	}

	// The first match is held for 5 after-lines but cancellation lands at
	// line 4, so it must be flushed with the partial window it has.
	if len(records) != 1 {
		t.Fatalf("expected 1 flushed record, got %d", len(records))
	}
	if records[0].LineNumber != 1 {
		t.Errorf("LineNumber = %d, want 1", records[0].LineNumber)
	}
	if len(records[0].After) >= 5 {
		t.Errorf("After length = %d, want a truncated window", len(records[0].After))
	}
}

func TestScanLines_EmptyInput(t *testing.T) {
	records := collectLines(t, "", "needle", 2)
	if len(records) != 0 {
		t.Errorf("expected no records for empty input, got %d", len(records))
	}
}

func TestScanLines_RegexMatcher(t *testing.T) {
	match, err := buildMatcher(`fn \w+\(`, true)
	if err != nil {
		t.Fatalf("buildMatcher returned error: %v", err)
	}

	input := "fn main() {\nlet x = 1;\nfn helper() {\n"
	var records []models.MatchRecord
	err = scanLines(strings.NewReader(input), "lib.rs", match, 0, nil, func(rec models.MatchRecord) {
		records = append(records, rec)
	})
	if err != nil {
		t.Fatalf("scanLines returned error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].LineNumber != 1 || records[1].LineNumber != 3 {
		t.Errorf("matched lines %d and %d, want 1 and 3", records[0].LineNumber, records[1].LineNumber)
	}
}

func TestScanFile_OpenErrorIsFileReadError(t *testing.T) {
	match, _ := buildMatcher("x", false)

	err := scanFile(filepath.Join(t.TempDir(), "does-not-exist.txt"), match, 0, nil, func(models.MatchRecord) {
		t.Fatal("emit should not be called")
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !IsFileReadError(err) {
		t.Errorf("expected FileReadError, got %T: %v", err, err)
	}
}

func TestScanFile_OverlongLineIsFileReadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "long.txt")

	content := "short line\n" + strings.Repeat("a", maxLineBytes+1) + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	match, _ := buildMatcher("short", false)
	var records []models.MatchRecord
	err := scanFile(path, match, 0, nil, func(rec models.MatchRecord) {
		records = append(records, rec)
	})

	if err == nil {
		t.Fatal("expected error for overlong line")
	}
	if !IsFileReadError(err) {
		t.Errorf("expected FileReadError, got %T: %v", err, err)
	}
	// The match before the failure must already have been emitted.
	if len(records) != 1 {
		t.Errorf("expected 1 record emitted before failure, got %d", len(records))
	}
}
