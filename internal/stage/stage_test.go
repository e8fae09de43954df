package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/crm-retention/internal/domain"
)

func TestProbabilityFor(t *testing.T) {
	tests := map[string]int{
		"Prospecting":          10,
		"Proposal/Price Quote": 65,
		"Negotiation/Review":   80,
		"Closed Won":           100,
		"Closed Lost":          0,
		"Qualification":        50,
		"unknown":              50,
		"":                     50,
		"closed won":           50,
	}
	for label, want := range tests {
		assert.Equal(t, want, ProbabilityFor(label), "stage %q", label)
	}
}

func TestCloseDateIsFixed(t *testing.T) {
	assert.True(t, CloseDateIsFixed("Closed Won"))
	assert.True(t, CloseDateIsFixed("Closed Lost"))
	assert.False(t, CloseDateIsFixed("Prospecting"))
	assert.False(t, CloseDateIsFixed("Negotiation/Review"))
	assert.False(t, CloseDateIsFixed(""))
}

func TestCloseDateLabel(t *testing.T) {
	assert.Equal(t, "Close Date:", CloseDateLabel("Closed Lost"))
	assert.Equal(t, "Expected Close Date:", CloseDateLabel("Prospecting"))
}

func TestAll_CoversEveryStage(t *testing.T) {
	all := All()
	require.Len(t, all, len(domain.SalesStages))
	assert.Equal(t, "Prospecting", all[0].Stage)
	assert.Equal(t, 10, all[0].Probability)
	last := all[len(all)-1]
	assert.Equal(t, "Closed Lost", last.Stage)
	assert.True(t, last.CloseDateFixed)
	assert.Equal(t, "Close Date:", last.CloseDateLabel)
}

func TestNextStepDate(t *testing.T) {
	now := time.Date(2026, time.December, 25, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, time.January, 8, 0, 0, 0, 0, time.UTC), NextStepDate(now))
}
