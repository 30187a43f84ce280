package models

// ContextLine is a single line of surrounding context with its own line number.
type ContextLine struct {
	Number int    // 1-based line number within the file
	Text   string // Raw line text, untrimmed
}

// MatchRecord represents one matching line together with its context window.
// Records for the same file are produced in strictly increasing line order.
// Context windows of nearby matches may overlap; overlapping lines are
// repeated in each record rather than deduplicated.
type MatchRecord struct {
	Path       string        // File the match was found in
	LineNumber int           // 1-based number of the matching line
	Line       string        // Matching line text, whitespace-trimmed
	Before     []ContextLine // Up to ContextLines lines preceding the match
	After      []ContextLine // Up to ContextLines lines following the match
}
