package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/petervflocke/quicksearch/internal/models"
)

// Report bundles everything an export format needs: the request that ran,
// the records it produced, and the outcome summary.
type Report struct {
	Request     models.SearchRequest
	Records     []models.MatchRecord
	Outcome     models.SearchOutcome
	GeneratedAt time.Time
}

// NewReport builds a report for a finished run.
func NewReport(req models.SearchRequest, records []models.MatchRecord, outcome models.SearchOutcome) *Report {
	return &Report{
		Request:     req,
		Records:     records,
		Outcome:     outcome,
		GeneratedAt: time.Now(),
	}
}

type jsonContextLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type jsonMatch struct {
	Path   string            `json:"path"`
	Line   int               `json:"line"`
	Text   string            `json:"text"`
	Before []jsonContextLine `json:"before,omitempty"`
	After  []jsonContextLine `json:"after,omitempty"`
}

type jsonSummary struct {
	FilesScanned    int64  `json:"files_scanned"`
	Matches         int64  `json:"matches"`
	BinarySkipped   int64  `json:"binary_skipped"`
	TraversalErrors int64  `json:"traversal_errors"`
	FileErrors      int64  `json:"file_errors"`
	ElapsedMS       int64  `json:"elapsed_ms"`
	Reason          string `json:"reason"`
}

type jsonReport struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Pattern     string      `json:"pattern"`
	Regex       bool        `json:"regex"`
	Roots       []string    `json:"roots"`
	Globs       []string    `json:"globs,omitempty"`
	Summary     jsonSummary `json:"summary"`
	Matches     []jsonMatch `json:"matches"`
}

// renderJSON produces the structured JSON document.
func (r *Report) renderJSON() ([]byte, error) {
	doc := jsonReport{
		GeneratedAt: r.GeneratedAt,
		Pattern:     r.Request.Pattern,
		Regex:       r.Request.Regex,
		Roots:       r.Request.Roots,
		Globs:       r.Request.Globs,
		Summary: jsonSummary{
			FilesScanned:    r.Outcome.FilesScanned,
			Matches:         r.Outcome.Matches,
			BinarySkipped:   r.Outcome.BinarySkipped,
			TraversalErrors: r.Outcome.TraversalErrors,
			FileErrors:      r.Outcome.FileErrors,
			ElapsedMS:       r.Outcome.Elapsed.Milliseconds(),
			Reason:          r.Outcome.Reason,
		},
		Matches: make([]jsonMatch, 0, len(r.Records)),
	}

	for _, rec := range r.Records {
		m := jsonMatch{
			Path: rec.Path,
			Line: rec.LineNumber,
			Text: rec.Line,
		}
		for _, cl := range rec.Before {
			m.Before = append(m.Before, jsonContextLine{Line: cl.Number, Text: cl.Text})
		}
		for _, cl := range rec.After {
			m.After = append(m.After, jsonContextLine{Line: cl.Number, Text: cl.Text})
		}
		doc.Matches = append(doc.Matches, m)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// renderCSV produces one row per line: surrounding context rows flagged as
// before/after, the matching line flagged as match.
func (r *Report) renderCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"kind", "path", "line", "text"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range r.Records {
		for _, cl := range rec.Before {
			if err := w.Write([]string{"before", rec.Path, strconv.Itoa(cl.Number), cl.Text}); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
		if err := w.Write([]string{"match", rec.Path, strconv.Itoa(rec.LineNumber), rec.Line}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
		for _, cl := range rec.After {
			if err := w.Write([]string{"after", rec.Path, strconv.Itoa(cl.Number), cl.Text}); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// renderMarkdown produces a readable report. Match blocks reuse the console
// printer's numbering so the report reads like the terminal output.
func (r *Report) renderMarkdown() []byte {
	var sb strings.Builder

	sb.WriteString("# Quicksearch Results\n\n")

	mode := "literal"
	if r.Request.Regex {
		mode = "regex"
	}
	fmt.Fprintf(&sb, "Pattern `%s` (%s), searched under `%s` on %s.\n\n",
		r.Request.Pattern, mode,
		strings.Join(r.Request.Roots, "`, `"),
		r.GeneratedAt.Format("2006-01-02 15:04:05"))

	sb.WriteString("## Matches\n\n")
	if len(r.Records) == 0 {
		sb.WriteString("_No matches._\n\n")
	}
	for _, rec := range r.Records {
		fmt.Fprintf(&sb, "### %s:%d\n\n", rec.Path, rec.LineNumber)
		sb.WriteString("```\n")
		for _, cl := range rec.Before {
			fmt.Fprintf(&sb, "%3d | %s\n", cl.Number, cl.Text)
		}
		fmt.Fprintf(&sb, ">%2d | %s\n", rec.LineNumber, rec.Line)
		for _, cl := range rec.After {
			fmt.Fprintf(&sb, "%3d | %s\n", cl.Number, cl.Text)
		}
		sb.WriteString("```\n\n")
	}

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Files scanned: %d\n", r.Outcome.FilesScanned)
	fmt.Fprintf(&sb, "- Matches: %d\n", r.Outcome.Matches)
	fmt.Fprintf(&sb, "- Binary skipped: %d\n", r.Outcome.BinarySkipped)
	fmt.Fprintf(&sb, "- Errors: %d\n", r.Outcome.SoftErrors())
	fmt.Fprintf(&sb, "- Duration: %s\n", r.Outcome.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(&sb, "- Result: %s\n", r.Outcome.Reason)

	return []byte(sb.String())
}

// htmlStyle keeps the rendered report readable without external assets.
const htmlStyle = `body { font-family: sans-serif; max-width: 60em; margin: 2em auto; padding: 0 1em; }
pre { background: #f4f4f4; padding: 0.8em; overflow-x: auto; }
code { background: #f4f4f4; }
h3 { margin-bottom: 0.2em; }
`

// renderHTML converts the markdown report to a standalone HTML page.
func (r *Report) renderHTML() ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert(r.renderMarkdown(), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>Quicksearch results for %s</title>\n", html.EscapeString(r.Request.Pattern))
	out.WriteString("<style>\n")
	out.WriteString(htmlStyle)
	out.WriteString("</style>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
