package tui

import (
	"time"

	"github.com/petervflocke/quicksearch/internal/models"
)

// recordsMsg carries a batch of match records pulled from the run stream.
// RunID lets Update drop late batches from a superseded run.
type recordsMsg struct {
	RunID   string
	Records []models.MatchRecord
}

// runDoneMsg arrives once the record stream closes and the outcome is final.
type runDoneMsg struct {
	RunID   string
	Outcome models.SearchOutcome
}

// statsTickMsg drives the live progress line while a run is in flight.
type statsTickMsg struct {
	RunID string
	At    time.Time
}

// exportDoneMsg reports the result of an export triggered with 'e'.
type exportDoneMsg struct {
	Path string
	Err  error
}
