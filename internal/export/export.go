// Package export renders search results to JSON, CSV, Markdown, or HTML files.
// The format is chosen by target file extension, and writes go through the
// filelock package so concurrent invocations never corrupt an export target.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/petervflocke/quicksearch/internal/filelock"
)

// Format identifies an export output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// FormatForPath derives the export format from the target file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export extension %q (want .json, .csv, .md, or .html)", filepath.Ext(path))
}

// Render produces the report in the given format.
func (r *Report) Render(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return r.renderJSON()
	case FormatCSV:
		return r.renderCSV()
	case FormatMarkdown:
		return r.renderMarkdown(), nil
	case FormatHTML:
		return r.renderHTML()
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// Write renders the report in the format implied by the target path and
// writes it atomically under a file lock.
func Write(path string, report *Report) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	data, err := report.Render(format)
	if err != nil {
		return err
	}

	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}
