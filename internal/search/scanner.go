package search

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/petervflocke/quicksearch/internal/models"
)

const (
	// initialLineBuffer is the starting scanner buffer size.
	initialLineBuffer = 64 * 1024

	// maxLineBytes caps a single line; longer lines fail the file with a
	// read error rather than exhausting memory.
	maxLineBytes = 1024 * 1024
)

// pendingMatch is a match whose after-context window is still filling.
type pendingMatch struct {
	record models.MatchRecord
	need   int
}

// scanFile opens the file and streams its matches to emit. Open and read
// failures are returned as FileReadError; matches emitted before a mid-read
// failure remain valid.
func scanFile(path string, match Matcher, contextLines int, token *CancelToken, emit func(models.MatchRecord)) error {
	f, err := os.Open(path)
	if err != nil {
		return NewFileReadError(path, err)
	}
	defer f.Close()

	if err := scanLines(f, path, match, contextLines, token, emit); err != nil {
		return NewFileReadError(path, err)
	}
	return nil
}

// scanLines reads r line by line and emits a MatchRecord for every matching
// line, in strictly increasing line order.
//
// Before-context comes from a sliding window of the last contextLines lines.
// After-context is gathered by holding each match until contextLines further
// lines have been read; matches inside another match's after-window open
// their own window, so nearby records repeat shared lines instead of
// deduplicating them. EOF and cancellation flush held records with however
// much after-context they have.
func scanLines(r io.Reader, path string, match Matcher, contextLines int, token *CancelToken, emit func(models.MatchRecord)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialLineBuffer), maxLineBytes)

	var before []models.ContextLine
	var pending []*pendingMatch
	lineNo := 0

	for sc.Scan() {
		if token != nil && token.Canceled() {
			break
		}

		lineNo++
		text := strings.TrimSuffix(sc.Text(), "\r")

		for _, p := range pending {
			p.record.After = append(p.record.After, models.ContextLine{Number: lineNo, Text: text})
			p.need--
		}
		for len(pending) > 0 && pending[0].need <= 0 {
			emit(pending[0].record)
			pending = pending[1:]
		}

		if match(text) {
			rec := models.MatchRecord{
				Path:       path,
				LineNumber: lineNo,
				Line:       strings.TrimSpace(text),
				Before:     append([]models.ContextLine(nil), before...),
			}
			if contextLines == 0 {
				emit(rec)
			} else {
				pending = append(pending, &pendingMatch{record: rec, need: contextLines})
			}
		}

		if contextLines > 0 {
			before = append(before, models.ContextLine{Number: lineNo, Text: text})
			if len(before) > contextLines {
				before = before[1:]
			}
		}
	}

	for _, p := range pending {
		emit(p.record)
	}

	return sc.Err()
}
