package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/scourlabs/scour/internal/catalog"
)

// Outcome classifies what happened to one target.
type Outcome string

const (
	OutcomeCleaned     Outcome = "cleaned"
	OutcomePreview     Outcome = "preview"     // dry run: would be cleaned
	OutcomeNotFound    Outcome = "not-found"   // already gone, counts as done
	OutcomeProtected   Outcome = "protected"   // whitelist refused it
	OutcomeBusy        Outcome = "busy"        // guard veto, nothing attempted
	OutcomeInUse       Outcome = "in-use"      // held by another process
	OutcomePermission  Outcome = "permission"
	OutcomeBadFormat   Outcome = "bad-format"
	OutcomeUnsupported Outcome = "unsupported" // command has no meaning on this platform
	OutcomeError       Outcome = "error"
)

// Failed reports whether the outcome counts toward the failure total.
// Deliberate skips do not.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeInUse, OutcomePermission, OutcomeBadFormat, OutcomeError:
		return true
	}
	return false
}

// ActionResult is one record of the engine touching, or deliberately
// not touching, one target.
type ActionResult struct {
	Cleaner string
	Option  string
	Command catalog.Command
	Target  string
	Outcome Outcome
	Bytes   int64
	Items   int
	Detail  string // error text or veto reason
}

// Report aggregates one run.
type Report struct {
	RunID   string
	Started time.Time
	Elapsed time.Duration

	BytesFreed int64
	ItemsFreed int

	// Preview totals: what a dry run would have freed.
	BytesPlanned int64
	ItemsPlanned int

	Counts  map[Outcome]int
	Results []ActionResult
}

// NewReport stamps a fresh report with a run id.
func NewReport() *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Counts:  make(map[Outcome]int),
	}
}

// Add folds one result into the totals.
func (r *Report) Add(res ActionResult) {
	r.Results = append(r.Results, res)
	r.Counts[res.Outcome]++
	switch res.Outcome {
	case OutcomeCleaned:
		r.BytesFreed += res.Bytes
		r.ItemsFreed += res.Items
	case OutcomePreview:
		r.BytesPlanned += res.Bytes
		r.ItemsPlanned += res.Items
	}
}

// Finish stamps the elapsed wall time.
func (r *Report) Finish() { r.Elapsed = time.Since(r.Started) }

// Failures counts results that were real failures, not skips.
func (r *Report) Failures() int {
	n := 0
	for o, c := range r.Counts {
		if o.Failed() {
			n += c
		}
	}
	return n
}
