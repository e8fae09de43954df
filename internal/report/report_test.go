package report

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/service/retention"
)

func samplePlan() *retention.Plan {
	return &retention.Plan{
		RunID:     "run-42",
		Action:    domain.GDPRFullyDelete,
		Filter:    "acme",
		Today:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Evaluated: 12,
		Kept:      9,
		Protected: 1,
		Candidates: []retention.Candidate{
			{
				Contact:     domain.Contact{ID: "c1", GivenName: "Olga", FamilyName: "Orphan", PreferredEmail: "olga@acme.test", Country: "Germany"},
				CountryCode: "de",
				Decision:    domain.DecisionDelete,
				Reasons:     []string{"eligible, no account"},
			},
			{
				Contact:  domain.Contact{ID: "c2", PreferredEmail: "x@acme.test"},
				Decision: domain.DecisionDelete,
			},
		},
	}
}

func TestRender_DefaultTemplate(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, samplePlan()))
	out := buf.String()

	assert.Contains(t, out, "Run:        run-42")
	assert.Contains(t, out, `Filter:     containing "acme"`)
	assert.Contains(t, out, "Date:       2026-03-15")
	assert.Contains(t, out, "Candidates: 2")
	assert.Contains(t, out, "Olga Orphan <ol***@acme.test> [delete] (de)")
	assert.Contains(t, out, "eligible, no account")
	assert.Contains(t, out, "(no name) <x***@acme.test>")
	assert.NotContains(t, out, "olga@acme.test")
}

func TestRender_CustomTemplate(t *testing.T) {
	r, err := NewRenderer(`{{ run_id }}:{% for c in candidates %}{{ c.id }},{% endfor %}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, samplePlan()))
	assert.Equal(t, "run-42:c1,c2,", buf.String())
}

func TestRender_NoFilterLine(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	plan := samplePlan()
	plan.Filter = ""
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, plan))
	assert.NotContains(t, buf.String(), "Filter:")
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "ol***@acme.test", maskEmail("olga@acme.test"))
	assert.Equal(t, "ab***@acme.test", maskEmail("ab@acme.test"))
	assert.Equal(t, "not-an-email", maskEmail("not-an-email"))

	masked := maskEmail("élodie@acme.test")
	assert.Equal(t, "él***@acme.test", masked)
	assert.True(t, utf8.ValidString(maskEmail("日本語@acme.test")))
	assert.Equal(t, "日本***@acme.test", maskEmail("日本語@acme.test"))
}

func TestNewRenderer_BadTemplate(t *testing.T) {
	_, err := NewRenderer(`{% for c in candidates %}`)
	assert.Error(t, err)
}
