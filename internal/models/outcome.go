package models

import "time"

// Search run completion reasons
const (
	ReasonCompleted = "COMPLETED" // All candidates were processed
	ReasonCancelled = "CANCELLED" // Cancellation was requested before completion
	ReasonFailed    = "FAILED"    // No root path could be opened
)

// RunStats is a point-in-time snapshot of a run's progress counters.
// Snapshots are safe to take while the run is still in flight.
type RunStats struct {
	FilesScanned    int64 // Files whose content was fully or partially scanned
	Matches         int64 // Match records produced so far
	BinarySkipped   int64 // Files skipped by the binary classifier
	TraversalErrors int64 // Unreadable directories, entries, or roots
	FileErrors      int64 // Files that failed to open or read mid-scan
}

// SearchOutcome summarizes a finished run. It is produced exactly once, after
// every worker has terminated, so its counters are final.
// FilesScanned, BinarySkipped, and FileErrors partition the candidates that
// reached a worker: each candidate lands in exactly one of the three.
type SearchOutcome struct {
	RunID           string        // Unique identifier assigned at dispatch
	FilesScanned    int64         // Files whose content was scanned
	Matches         int64         // Total match records emitted
	BinarySkipped   int64         // Files skipped as binary
	TraversalErrors int64         // Soft errors during tree traversal
	FileErrors      int64         // Soft errors reading individual files
	Elapsed         time.Duration // Wall-clock time from dispatch to join
	Reason          string        // ReasonCompleted, ReasonCancelled, or ReasonFailed
}

// SoftErrors returns the combined count of non-fatal errors encountered.
func (o SearchOutcome) SoftErrors() int64 {
	return o.TraversalErrors + o.FileErrors
}
