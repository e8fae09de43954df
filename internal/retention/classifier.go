package retention

import (
	"time"

	"github.com/ignite/crm-retention/internal/domain"
)

// RetentionDays is the age, in days, after which a contact or an
// opportunity is considered old (five 365-day years).
const RetentionDays = 5 * 365

// Input is everything the rule looks at for one contact.
type Input struct {
	Contact domain.Contact

	// Account is the contact's account, nil when the contact has none.
	Account *domain.Account

	// RecentOpportunities counts the account's opportunities entered
	// within RetentionDays, see RecentOpportunityCount.
	RecentOpportunities int

	Notes     int
	Emails    int
	Today     time.Time
	Protected ProtectedSet
}

// Result captures classification output.
type Result struct {
	Decision domain.RetentionDecision `json:"decision"`
	Reasons  []string                 `json:"reasons"`

	// Protected is set when an eligible contact was kept only because its
	// email is on the protected list; Overridden is the decision it escaped.
	Protected  bool                     `json:"protected,omitempty"`
	Overridden domain.RetentionDecision `json:"overridden,omitempty"`
}

// Classify applies the retention ladder to one contact. The first matching
// rule decides.
func Classify(in Input) Result {
	c := in.Contact

	// 1) Business relations are never touched
	if in.Account != nil && in.Account.Type.IsBusinessRelation() {
		return Result{Decision: domain.DecisionKeep, Reasons: []string{"account is a " + string(in.Account.Type)}}
	}

	// 2) Already processed
	if c.IsAnonymized() {
		return Result{Decision: domain.DecisionKeep, Reasons: []string{"already anonymized"}}
	}

	// 3) Eligibility
	if !Eligible(in) {
		return Result{Decision: domain.DecisionKeep, Reasons: Explain(in)}
	}

	decision := domain.DecisionAnonymize
	reason := "eligible, linked to an account"
	if in.Account == nil {
		decision = domain.DecisionDelete
		reason = "eligible, no account"
	}

	// 4) Allow-list exported from the newsletter tool
	if in.Protected.Contains(c.PreferredEmail) {
		return Result{
			Decision:   domain.DecisionKeep,
			Reasons:    []string{"email is protected against " + string(decision)},
			Protected:  true,
			Overridden: decision,
		}
	}

	return Result{Decision: decision, Reasons: []string{reason}}
}

// Eligible reports whether the contact is old and unused enough to be
// cleaned up, ignoring account classification and the protected list.
func Eligible(in Input) bool {
	return in.RecentOpportunities == 0 &&
		NoteIsOld(in.Contact.Note, in.Today) &&
		createdBefore(in.Contact.CreatedAt, in.Today)
}

// Explain lists why a contact is kept by the eligibility check. It also
// mentions linked notes and emails, which are informative only.
func Explain(in Input) []string {
	var reasons []string
	if in.RecentOpportunities > 0 {
		reasons = append(reasons, "account has recent opportunities")
	}
	if in.Notes > 0 {
		reasons = append(reasons, "contact has notes")
	}
	if in.Emails > 0 {
		reasons = append(reasons, "contact has emails")
	}
	if !NoteIsOld(in.Contact.Note, in.Today) {
		reasons = append(reasons, "contact description is recent")
	}
	if !createdBefore(in.Contact.CreatedAt, in.Today) {
		reasons = append(reasons, "created recently")
	}
	return reasons
}

// RecentOpportunityCount counts opportunities entered less than
// RetentionDays before today. Only the entry date is considered; an unknown
// (zero) entry date counts as recent.
func RecentOpportunityCount(opps []domain.Opportunity, today time.Time) int {
	n := 0
	for _, o := range opps {
		if o.EnteredAt.IsZero() || daysBetween(o.EnteredAt, today) < RetentionDays {
			n++
		}
	}
	return n
}

// MatchesAction reports whether a decision is what the given cleanup action
// is looking for.
func MatchesAction(d domain.RetentionDecision, action domain.GDPRAction) bool {
	switch action {
	case domain.GDPRFullyDelete:
		return d == domain.DecisionDelete
	case domain.GDPRAnonymize:
		return d == domain.DecisionAnonymize
	}
	return false
}

// createdBefore is false for an unknown (zero) creation date.
func createdBefore(created, today time.Time) bool {
	if created.IsZero() {
		return false
	}
	return daysBetween(created, today) > RetentionDays
}

// daysBetween returns the number of calendar days from a to b, negative when
// b is before a.
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
