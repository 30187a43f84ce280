// Package search implements the parallel search engine: recursive traversal
// of directory trees, binary-file classification, line scanning with context
// capture, and a bounded worker pool with cooperative cancellation.
//
// A run streams match records as they are found. Per-file record order is
// strictly increasing by line number; cross-file order is whatever order the
// workers produce, so consumers that need a total order must sort.
package search

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-zglob"

	"github.com/petervflocke/quicksearch/internal/models"
)

const (
	// candidateBuffer bounds the walker-to-worker handoff so traversal
	// overlaps scanning without buffering the whole tree.
	candidateBuffer = 256

	// recordBuffer smooths bursts of matches between workers and the
	// consumer.
	recordBuffer = 256
)

// Logger receives run lifecycle and soft-error messages from the engine.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Engine validates search requests and dispatches runs.
type Engine struct {
	logger Logger
}

// NewEngine constructs an Engine. The logger parameter is optional and can
// be nil to disable logging.
func NewEngine(logger Logger) *Engine {
	return &Engine{logger: logger}
}

// Start validates the request and dispatches a run with exactly
// req.Workers worker goroutines pulling files from the traversal.
//
// Invalid requests and uncompilable patterns fail here, before any goroutine
// starts or any file is touched. Everything that goes wrong later in the run
// is a soft error: it is counted in the outcome and the run keeps going.
// Unusable roots are soft errors too, except when every root is unusable, in
// which case the run terminates immediately with ReasonFailed.
//
// Cancelling ctx cancels the run; Run.Cancel does the same without a
// context. Every started run terminates with an outcome.
func (e *Engine) Start(ctx context.Context, req models.SearchRequest) (*Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	match, err := buildMatcher(req.Pattern, req.Regex)
	if err != nil {
		return nil, err
	}
	for _, g := range req.Globs {
		if _, err := zglob.Match(g, "probe"); err != nil {
			return nil, NewPatternError(g, err)
		}
	}

	stats := &runStats{}
	token := NewCancelToken()
	runCtx, cancel := context.WithCancel(ctx)

	r := &Run{
		id:        uuid.New().String(),
		req:       req,
		started:   time.Now(),
		token:     token,
		ctx:       runCtx,
		cancelCtx: cancel,
		records:   make(chan models.MatchRecord, recordBuffer),
		done:      make(chan struct{}),
		stats:     stats,
	}

	roots := make([]string, 0, len(req.Roots))
	for _, root := range req.Roots {
		if _, statErr := os.Stat(root); statErr != nil {
			stats.traversalErrors.Add(1)
			if e.logger != nil {
				e.logger.LogWarn(NewTraversalError(root, statErr).Error())
			}
			continue
		}
		roots = append(roots, root)
	}
	r.rootsFailed = len(roots) == 0

	if e.logger != nil {
		e.logger.LogInfo(fmt.Sprintf("run %s: %d root(s), %d worker(s), pattern %q",
			r.id, len(roots), req.Workers, req.Pattern))
	}

	// Bridge caller-context cancellation onto the run's token.
	go func() {
		select {
		case <-ctx.Done():
			r.Cancel()
		case <-r.done:
		}
	}()

	w := &walker{req: req, roots: roots, token: token, stats: stats, logger: e.logger}
	candidates := make(chan candidate, candidateBuffer)
	go w.run(candidates)

	r.wg.Add(req.Workers)
	for i := 0; i < req.Workers; i++ {
		go e.runWorker(r, match, candidates)
	}

	go func() {
		r.wg.Wait()
		r.finish()
		if e.logger != nil {
			o := r.outcome
			e.logger.LogInfo(fmt.Sprintf("run %s: %s, %d match(es) in %d file(s), %d soft error(s), elapsed %s",
				o.RunID, o.Reason, o.Matches, o.FilesScanned, o.SoftErrors(), o.Elapsed.Round(time.Millisecond)))
		}
	}()

	return r, nil
}
