package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/crm-retention/internal/domain"
)

var (
	expected = time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC)
	now      = time.Date(2026, time.April, 2, 9, 15, 0, 0, time.UTC)
	nowDay   = time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)
)

func TestStageChanged_ClosedStageMovesUntouchedDateToToday(t *testing.T) {
	tr := NewCloseDateTracker(expected)
	assert.Equal(t, nowDay, tr.StageChanged("Closed Won", now))

	// reopening goes back to the expected date
	assert.Equal(t, expected, tr.StageChanged("Negotiation/Review", now))
	assert.False(t, tr.ChangedByUser())
}

func TestStageChanged_UserEditIsPreserved(t *testing.T) {
	tr := NewCloseDateTracker(expected)
	edited := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	tr.Edit(edited)
	assert.True(t, tr.ChangedByUser())

	assert.Equal(t, edited, tr.StageChanged("Closed Lost", now))
	assert.Equal(t, edited, tr.StageChanged("Prospecting", now))
}

func TestEdit_BackToOriginalClearsFlag(t *testing.T) {
	tr := NewCloseDateTracker(expected)
	tr.Edit(expected.AddDate(0, 0, 3))
	tr.Edit(expected)
	assert.False(t, tr.ChangedByUser())
	assert.Equal(t, nowDay, tr.StageChanged("Closed Won", now))
}

func TestApply(t *testing.T) {
	opp := domain.Opportunity{ID: "o-1", SalesStage: domain.StageProspecting, Probability: 10, CloseDate: expected}
	tr := NewCloseDateTracker(opp.CloseDate)

	won := Apply(opp, "Closed Won", tr, now)
	assert.Equal(t, domain.StageClosedWon, won.SalesStage)
	assert.Equal(t, 100, won.Probability)
	assert.Equal(t, nowDay, won.CloseDate)

	// the input value is not modified
	assert.Equal(t, domain.StageProspecting, opp.SalesStage)
	assert.Equal(t, expected, opp.CloseDate)
}
