package search

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/petervflocke/quicksearch/internal/models"
)

// pdftotextPath is the external tool used for PDF text extraction. A
// variable so tests can substitute a stub command.
var pdftotextPath = "pdftotext"

// extractPDFText converts a PDF to plain text via pdftotext, writing to
// stdout in quiet mode. The context kills the subprocess when the run is
// cancelled or times out.
func extractPDFText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, pdftotextPath, path, "-", "-q")

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s failed: %w: %s", pdftotextPath, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s failed: %w", pdftotextPath, err)
	}

	return string(output), nil
}

// scanPDF extracts the PDF's text and matches it line by line. PDF matches
// carry no context lines; line numbers refer to the extracted text, not to
// any visual position in the document.
func scanPDF(ctx context.Context, path string, match Matcher, token *CancelToken, emit func(models.MatchRecord)) error {
	text, err := extractPDFText(ctx, path)
	if err != nil {
		if token != nil && token.Canceled() {
			return nil
		}
		return NewFileReadError(path, err)
	}

	lineNo := 0
	for _, line := range strings.Split(text, "\n") {
		if token != nil && token.Canceled() {
			return nil
		}
		lineNo++
		line = strings.TrimSuffix(line, "\r")
		if match(line) {
			emit(models.MatchRecord{
				Path:       path,
				LineNumber: lineNo,
				Line:       strings.TrimSpace(line),
			})
		}
	}

	return nil
}
