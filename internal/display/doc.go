// Package display provides terminal output utilities for rendering matches, warnings, and progress messages.
//
// This package centralizes user-facing output formatting for the quicksearch CLI.
// It provides three main categories of functionality:
//
// # Match Rendering
//
// Use Printer to render match records as they stream from a search run:
//
//	printer := display.NewPrinter(os.Stdout)
//	for rec := range run.Records() {
//	    printer.PrintMatch(rec)
//	}
//
// Each record is rendered as a block with a File: header, numbered context
// lines, and the matching line marked with '>'. Color is applied only when
// writing to a terminal.
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Required tool \"pdftotext\" not found in PATH",
//	    Suggestion: "Install poppler-utils to enable PDF search",
//	}
//	warning.Display(os.Stderr)
//
// Or use the convenience factory:
//
//	display.WarnMissingTool("pdftotext", "Install poppler-utils to enable PDF search").Display(os.Stderr)
//
// # Progress Indicators
//
// Use ProgressIndicator when writing multiple export files:
//
//	progress := display.NewProgressIndicator(os.Stdout, len(targets))
//	progress.Start()
//	for _, target := range targets {
//	    progress.Step(target)
//	    // ... write file ...
//	}
//	progress.Complete()
//
// For a single export target:
//
//	display.DisplaySingleExport(os.Stdout, filename)
//
// # ANSI Colors
//
// The package uses ANSI escape codes for terminal colors:
//   - Cyan (\x1b[36m) for progress indicators and file headers
//   - Green (\x1b[32m) for success messages and match markers
//   - Yellow (\x1b[33m) for warnings
//   - Reset (\x1b[0m) after each colored section
//
// All functions accept io.Writer interfaces for testability and flexibility.
//
// # Design Principles
//
//   - Single source of truth for all display logic
//   - Consistent formatting across all commands
//   - Testable via io.Writer abstraction
//   - No global state or side effects
package display
