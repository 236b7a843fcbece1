package domain

import "fmt"

// Outcome is the result of processing one decision.
type Outcome int

// Per-decision outcomes.
const (
	// OutcomeSkipped means the decision was rejected without error.
	OutcomeSkipped Outcome = iota

	// OutcomeCreated means a new record was stored.
	OutcomeCreated

	// OutcomeUpdated means an existing record was replaced.
	OutcomeUpdated

	// OutcomeSubmitted means the decision was sent to the screening service.
	OutcomeSubmitted

	// OutcomeDeleted means records were removed.
	OutcomeDeleted

	// OutcomeErroneous means processing failed and the source was marked erroneous.
	OutcomeErroneous
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeErroneous:
		return "erroneous"
	default:
		return unknownDescription
	}
}

// Outcomes lists every outcome, in declaration order.
var Outcomes = []Outcome{
	OutcomeSkipped,
	OutcomeCreated,
	OutcomeUpdated,
	OutcomeSubmitted,
	OutcomeDeleted,
	OutcomeErroneous,
}

// RunSummary counts outcomes over a batch job.
type RunSummary struct {
	New       int
	Updated   int
	Submitted int
	Deleted   int
	Skipped   int
	Errors    int
}

// Record counts one outcome.
func (s *RunSummary) Record(o Outcome) {
	switch o {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeCreated:
		s.New++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSubmitted:
		s.Submitted++
	case OutcomeDeleted:
		s.Deleted++
	case OutcomeErroneous:
		s.Errors++
	}
}

// Merge adds the counts of other.
func (s *RunSummary) Merge(other RunSummary) {
	s.New += other.New
	s.Updated += other.Updated
	s.Submitted += other.Submitted
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}

// Count returns the count recorded for an outcome.
func (s RunSummary) Count(o Outcome) int {
	switch o {
	case OutcomeSkipped:
		return s.Skipped
	case OutcomeCreated:
		return s.New
	case OutcomeUpdated:
		return s.Updated
	case OutcomeSubmitted:
		return s.Submitted
	case OutcomeDeleted:
		return s.Deleted
	case OutcomeErroneous:
		return s.Errors
	default:
		return 0
	}
}

// String renders the end-of-run line.
func (s RunSummary) String() string {
	return fmt.Sprintf("New: %d, Update: %d, Submitted: %d, Deleted: %d, Skip: %d, Error: %d",
		s.New, s.Updated, s.Submitted, s.Deleted, s.Skipped, s.Errors)
}
