// Package stage holds the opportunity sales-stage rules: the default win
// probability for a stage and whether its close date is fixed.
package stage

import (
	"time"

	"github.com/ignite/crm-retention/internal/domain"
)

// DefaultProbability is used for stages without an entry in the table,
// including the empty label.
const DefaultProbability = 50

var probabilities = map[domain.SalesStage]int{
	domain.StageProspecting: 10,
	domain.StageProposal:    65,
	domain.StageNegotiation: 80,
	domain.StageClosedWon:   100,
	domain.StageClosedLost:  0,
}

// ProbabilityFor returns the default win probability, in percent, for a
// sales stage label.
func ProbabilityFor(label string) int {
	if p, ok := probabilities[domain.SalesStage(label)]; ok {
		return p
	}
	return DefaultProbability
}

// CloseDateIsFixed reports whether the stage is a closed one, in which case
// the close date is a fact rather than an expectation.
func CloseDateIsFixed(label string) bool {
	switch domain.SalesStage(label) {
	case domain.StageClosedWon, domain.StageClosedLost:
		return true
	}
	return false
}

// CloseDateLabel is the caption shown next to the close date.
func CloseDateLabel(label string) string {
	if CloseDateIsFixed(label) {
		return "Close Date:"
	}
	return "Expected Close Date:"
}

// Info bundles everything derived from a stage label.
type Info struct {
	Stage          string `json:"stage"`
	Probability    int    `json:"probability"`
	CloseDateFixed bool   `json:"close_date_fixed"`
	CloseDateLabel string `json:"close_date_label"`
}

// Describe returns the derived values for a stage label.
func Describe(label string) Info {
	return Info{
		Stage:          label,
		Probability:    ProbabilityFor(label),
		CloseDateFixed: CloseDateIsFixed(label),
		CloseDateLabel: CloseDateLabel(label),
	}
}

// All describes every known stage in pipeline order.
func All() []Info {
	out := make([]Info, 0, len(domain.SalesStages))
	for _, s := range domain.SalesStages {
		out = append(out, Describe(string(s)))
	}
	return out
}

// NextStepDate is the date suggested for the next step: two weeks out.
func NextStepDate(today time.Time) time.Time {
	return truncateDay(today).AddDate(0, 0, 14)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
