package search

import (
	"errors"
	"fmt"
)

// PatternError represents an invalid search pattern. It is detected before
// any traversal or scanning starts, so a run that fails with a PatternError
// has performed no work.
type PatternError struct {
	Pattern string // The pattern that failed to compile
	Err     error  // Underlying compile error
}

// NewPatternError creates a PatternError wrapping the compile failure.
func NewPatternError(pattern string, err error) *PatternError {
	return &PatternError{
		Pattern: pattern,
		Err:     err,
	}
}

// Error implements the error interface for PatternError.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// TraversalError represents a directory tree entry that could not be read.
// Traversal errors are soft: they are counted and the walk continues.
type TraversalError struct {
	Path string // Path of the unreadable entry
	Err  error  // Underlying filesystem error
}

// NewTraversalError creates a TraversalError for the given path.
func NewTraversalError(path string, err error) *TraversalError {
	return &TraversalError{
		Path: path,
		Err:  err,
	}
}

// Error implements the error interface for TraversalError.
func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot traverse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *TraversalError) Unwrap() error {
	return e.Err
}

// FileReadError represents a file that could not be opened or that failed
// mid-read. Read errors are soft: the file is abandoned, already-emitted
// matches from it remain valid, and the run continues with other files.
type FileReadError struct {
	Path string // Path of the file that failed
	Err  error  // Underlying read error
}

// NewFileReadError creates a FileReadError for the given path.
func NewFileReadError(path string, err error) *FileReadError {
	return &FileReadError{
		Path: path,
		Err:  err,
	}
}

// Error implements the error interface for FileReadError.
func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileReadError) Unwrap() error {
	return e.Err
}

// IsPatternError checks if the error is or wraps a PatternError.
func IsPatternError(err error) bool {
	if err == nil {
		return false
	}
	var pe *PatternError
	return errors.As(err, &pe)
}

// IsTraversalError checks if the error is or wraps a TraversalError.
func IsTraversalError(err error) bool {
	if err == nil {
		return false
	}
	var te *TraversalError
	return errors.As(err, &te)
}

// IsFileReadError checks if the error is or wraps a FileReadError.
func IsFileReadError(err error) bool {
	if err == nil {
		return false
	}
	var fe *FileReadError
	return errors.As(err, &fe)
}
