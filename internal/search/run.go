package search

import (
	"context"
	"sync"
	"time"

	"github.com/petervflocke/quicksearch/internal/models"
)

// Run is the handle for a dispatched search. It streams match records to the
// consumer, accepts cancellation, and delivers the final outcome once every
// worker has terminated.
//
// The consumer must drain the record stream (via Records or Each) for the
// run to make progress; records are never dropped, including after
// cancellation.
type Run struct {
	id      string
	req     models.SearchRequest
	started time.Time

	token     *CancelToken
	ctx       context.Context
	cancelCtx context.CancelFunc

	records chan models.MatchRecord
	done    chan struct{}
	wg      sync.WaitGroup

	stats       *runStats
	rootsFailed bool
	outcome     models.SearchOutcome
}

// ID returns the unique identifier assigned to this run at dispatch.
func (r *Run) ID() string {
	return r.id
}

// Request returns the normalized request the run was started with.
func (r *Run) Request() models.SearchRequest {
	return r.req
}

// Records returns the stream of match records. Records for one file arrive
// in increasing line order; records from different files arrive in the order
// workers produce them. The channel closes after the last worker finishes.
func (r *Run) Records() <-chan models.MatchRecord {
	return r.records
}

// Each consumes the whole record stream, invoking fn for every record, and
// returns the final outcome. fn runs on the caller's goroutine.
func (r *Run) Each(fn func(models.MatchRecord)) models.SearchOutcome {
	for rec := range r.records {
		fn(rec)
	}
	return r.Outcome()
}

// Cancel requests cooperative cancellation. Workers finish the file they are
// scanning, already-produced records are still delivered, and the outcome
// reports ReasonCancelled. Cancel is idempotent and safe after completion.
func (r *Run) Cancel() {
	r.token.Cancel()
	r.cancelCtx()
}

// Canceled reports whether cancellation has been requested.
func (r *Run) Canceled() bool {
	return r.token.Canceled()
}

// Done returns a channel that closes when the run has fully terminated.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Outcome blocks until the run terminates, then returns its summary. It is
// safe to call from multiple goroutines and returns the same value each time.
func (r *Run) Outcome() models.SearchOutcome {
	<-r.done
	return r.outcome
}

// Stats returns a live snapshot of the run's progress counters. Unlike
// Outcome it never blocks, so it is suitable for progress display while the
// run is in flight.
func (r *Run) Stats() models.RunStats {
	return r.stats.Snapshot()
}

// finish stamps the outcome and releases the consumer. Called exactly once,
// after the worker join barrier.
func (r *Run) finish() {
	snap := r.stats.Snapshot()

	reason := models.ReasonCompleted
	switch {
	case r.rootsFailed:
		reason = models.ReasonFailed
	case r.token.Canceled():
		reason = models.ReasonCancelled
	}

	r.outcome = models.SearchOutcome{
		RunID:           r.id,
		FilesScanned:    snap.FilesScanned,
		Matches:         snap.Matches,
		BinarySkipped:   snap.BinarySkipped,
		TraversalErrors: snap.TraversalErrors,
		FileErrors:      snap.FileErrors,
		Elapsed:         time.Since(r.started),
		Reason:          reason,
	}

	close(r.records)
	close(r.done)
	r.cancelCtx()
}
