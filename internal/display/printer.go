package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/petervflocke/quicksearch/internal/models"
)

// Printer renders match records in the classic quicksearch text layout:
//
//	File: <path>:<line>
//	  3 | context before
//	> 5 | matching line
//	  6 | context after
//
// with a blank line between records. Context lines carry their own line
// numbers; the matching line is marked with '>'.
type Printer struct {
	writer      io.Writer
	colorOutput bool
}

// NewPrinter creates a Printer that writes to the provided io.Writer.
// Color output is automatically enabled when writing to os.Stdout or
// os.Stderr with TTY support.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		writer:      w,
		colorOutput: printerIsTerminal(w),
	}
}

// printerIsTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func printerIsTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// fatih/color's detection also honors the NO_COLOR env var
		return !color.NoColor
	}

	return false
}

// PrintMatch writes a single match record block.
func (p *Printer) PrintMatch(rec models.MatchRecord) {
	if p.writer == nil {
		return
	}

	if p.colorOutput {
		header := color.New(color.FgCyan).Sprintf("%s:%d", rec.Path, rec.LineNumber)
		fmt.Fprintf(p.writer, "File: %s\n", header)
	} else {
		fmt.Fprintf(p.writer, "File: %s:%d\n", rec.Path, rec.LineNumber)
	}

	for _, ctx := range rec.Before {
		fmt.Fprintf(p.writer, "%3d | %s\n", ctx.Number, ctx.Text)
	}

	if p.colorOutput {
		marker := color.New(color.FgGreen).Sprintf(">%2d", rec.LineNumber)
		fmt.Fprintf(p.writer, "%s | %s\n", marker, rec.Line)
	} else {
		fmt.Fprintf(p.writer, ">%2d | %s\n", rec.LineNumber, rec.Line)
	}

	for _, ctx := range rec.After {
		fmt.Fprintf(p.writer, "%3d | %s\n", ctx.Number, ctx.Text)
	}

	// Empty line between records
	fmt.Fprintln(p.writer)
}

// PrintAll writes every record in order. Useful with sorted result sets.
func (p *Printer) PrintAll(records []models.MatchRecord) {
	for _, rec := range records {
		p.PrintMatch(rec)
	}
}
