package search

import (
	"github.com/petervflocke/quicksearch/internal/models"
)

// runWorker pulls candidates from the shared channel until the walker closes
// it. Pulling gives dynamic load balancing: a worker stuck in one large file
// does not hold up assignment of the remaining files. After cancellation the
// worker keeps draining the channel without scanning so the walker can never
// block on a full buffer.
func (e *Engine) runWorker(r *Run, match Matcher, candidates <-chan candidate) {
	defer r.wg.Done()

	for cand := range candidates {
		if r.token.Canceled() {
			continue
		}
		e.scanCandidate(r, match, cand)
	}
}

// scanCandidate classifies and scans a single file. Every candidate lands in
// exactly one outcome bucket: scanned, binary-skipped, or failed. A file cut
// short by cancellation still counts as scanned.
func (e *Engine) scanCandidate(r *Run, match Matcher, cand candidate) {
	emit := func(rec models.MatchRecord) {
		r.stats.matches.Add(1)
		r.records <- rec
	}

	switch cand.kind {
	case kindPDF:
		if err := scanPDF(r.ctx, cand.path, match, r.token, emit); err != nil {
			e.recordFileError(r, err)
			return
		}
	default:
		if !r.req.IncludeBinary && isBinaryFile(cand.path) {
			r.stats.binarySkipped.Add(1)
			return
		}
		if err := scanFile(cand.path, match, r.req.ContextLines, r.token, emit); err != nil {
			e.recordFileError(r, err)
			return
		}
	}

	r.stats.filesScanned.Add(1)
}

func (e *Engine) recordFileError(r *Run, err error) {
	r.stats.fileErrors.Add(1)
	if e.logger != nil {
		e.logger.LogDebug(err.Error())
	}
}
