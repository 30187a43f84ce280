package search

import "sync/atomic"

// CancelToken is a one-way cancellation flag shared by the walker, the
// workers, and the run handle. Once set it never resets; checking it is a
// single lock-free load, so it is cheap enough to poll per line.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken creates an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests cancellation. Safe to call from any goroutine and
// idempotent: repeated calls have no further effect.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Canceled reports whether cancellation has been requested.
func (t *CancelToken) Canceled() bool {
	return t.flag.Load()
}
