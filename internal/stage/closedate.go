package stage

import (
	"time"

	"github.com/ignite/crm-retention/internal/domain"
)

// CloseDateTracker remembers the close date an opportunity was loaded with
// and whether a person has since changed it. A human edit is authoritative
// and survives later stage changes.
type CloseDateTracker struct {
	original      time.Time
	current       time.Time
	changedByUser bool
}

// NewCloseDateTracker starts tracking from the stored close date.
func NewCloseDateTracker(original time.Time) *CloseDateTracker {
	return &CloseDateTracker{original: original, current: original}
}

// Edit records a close date typed in by the user. Setting the date back to
// the original clears the user-edited flag.
func (t *CloseDateTracker) Edit(date time.Time) {
	t.current = date
	t.changedByUser = !sameDay(date, t.original)
}

// ChangedByUser reports whether the current close date came from a person.
func (t *CloseDateTracker) ChangedByUser() bool { return t.changedByUser }

// Current returns the close date to display.
func (t *CloseDateTracker) Current() time.Time { return t.current }

// StageChanged updates the close date for a newly selected stage and
// returns it. A closed stage moves an untouched date to today; any other
// stage moves it back to the original expected date.
func (t *CloseDateTracker) StageChanged(label string, today time.Time) time.Time {
	if t.changedByUser {
		return t.current
	}
	if CloseDateIsFixed(label) {
		t.current = truncateDay(today)
	} else {
		t.current = t.original
	}
	return t.current
}

// Apply moves an opportunity to a new stage: probability and close date
// follow the stage defaults.
func Apply(opp domain.Opportunity, label string, tracker *CloseDateTracker, today time.Time) domain.Opportunity {
	opp.SalesStage = domain.SalesStage(label)
	opp.Probability = ProbabilityFor(label)
	opp.CloseDate = tracker.StageChanged(label, today)
	return opp
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
