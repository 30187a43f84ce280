package search

import (
	"sync/atomic"

	"github.com/petervflocke/quicksearch/internal/models"
)

// runStats holds the live progress counters for a run. Workers and the
// walker update them with atomic increments; consumers snapshot them at any
// time without locks.
type runStats struct {
	filesScanned    atomic.Int64
	matches         atomic.Int64
	binarySkipped   atomic.Int64
	traversalErrors atomic.Int64
	fileErrors      atomic.Int64
}

// Snapshot returns a point-in-time copy of the counters.
func (s *runStats) Snapshot() models.RunStats {
	return models.RunStats{
		FilesScanned:    s.filesScanned.Load(),
		Matches:         s.matches.Load(),
		BinarySkipped:   s.binarySkipped.Load(),
		TraversalErrors: s.traversalErrors.Load(),
		FileErrors:      s.fileErrors.Load(),
	}
}
