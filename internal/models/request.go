package models

import "runtime"

// Default directory names excluded from traversal unless overridden
var DefaultExcludeDirs = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"target",
	"dist",
	"build",
	"__pycache__",
	".idea",
	".vscode",
}

// SearchRequest describes a single search run over one or more directory trees.
// A request is normalized once before dispatch and treated as immutable afterwards.
type SearchRequest struct {
	Roots         []string // Root paths to search, in order (empty defaults to ".")
	Pattern       string   // Literal text or regular expression to match
	Regex         bool     // Interpret Pattern as a regular expression
	Globs         []string // Base-name globs; a file passes if any matches (empty = all files)
	ContextLines  int      // Lines of context captured before and after each match
	Workers       int      // Worker goroutine count (<=0 selects runtime.NumCPU())
	IncludeBinary bool     // Scan files classified as binary instead of skipping them
	IncludeHidden bool     // Include dot-files and descend into dot-directories
	SearchPDF     bool     // Extract and search text from .pdf files via pdftotext
	ExcludeDirs   []string // Directory names pruned during traversal (nil = DefaultExcludeDirs)
}

// Normalized returns a copy of the request with defaults applied: empty roots
// become the current directory, a non-positive worker count becomes the number
// of CPUs, and a nil exclude list becomes DefaultExcludeDirs.
func (r SearchRequest) Normalized() SearchRequest {
	out := r

	out.Roots = append([]string(nil), r.Roots...)
	if len(out.Roots) == 0 {
		out.Roots = []string{"."}
	}

	out.Globs = append([]string(nil), r.Globs...)

	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}
	if out.Workers < 1 {
		out.Workers = 1
	}

	if r.ExcludeDirs == nil {
		out.ExcludeDirs = append([]string(nil), DefaultExcludeDirs...)
	} else {
		out.ExcludeDirs = append([]string(nil), r.ExcludeDirs...)
	}

	return out
}

// Validate checks the request invariants that normalization cannot repair.
func (r SearchRequest) Validate() error {
	if r.Pattern == "" {
		return &ValidationError{Field: "pattern", Message: "search pattern cannot be empty"}
	}
	if r.ContextLines < 0 {
		return &ValidationError{Field: "context", Message: "context line count cannot be negative"}
	}
	return nil
}

// ValidationError reports a SearchRequest field that failed validation.
type ValidationError struct {
	Field   string // Name of the offending field
	Message string // Human-readable description
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return "invalid search request: " + e.Message
}
