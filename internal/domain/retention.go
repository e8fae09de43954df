package domain

import "time"

// RetentionDecision is the outcome of the GDPR retention rule for a contact.
type RetentionDecision string

const (
	DecisionKeep      RetentionDecision = "keep"
	DecisionAnonymize RetentionDecision = "anonymize"
	DecisionDelete    RetentionDecision = "delete"
)

// GDPRAction selects which decision a cleanup pass is looking for.
type GDPRAction string

const (
	GDPRNoAction    GDPRAction = ""
	GDPRAnonymize   GDPRAction = "anonymize"
	GDPRFullyDelete GDPRAction = "delete"
)

// Valid reports whether the action is one of the known values.
func (a GDPRAction) Valid() bool {
	switch a {
	case GDPRNoAction, GDPRAnonymize, GDPRFullyDelete:
		return true
	}
	return false
}

// DetailsType tags which kind of CRM record a view or filter is about.
type DetailsType string

const (
	DetailsAccount     DetailsType = "account"
	DetailsCampaign    DetailsType = "campaign"
	DetailsContact     DetailsType = "contact"
	DetailsLead        DetailsType = "lead"
	DetailsOpportunity DetailsType = "opportunity"
)

// RetentionRun is the persisted summary of one cleanup pass.
type RetentionRun struct {
	ID         string     `json:"id" db:"id"`
	Action     GDPRAction `json:"action" db:"action"`
	Filter     string     `json:"filter" db:"filter"`
	Evaluated  int        `json:"evaluated" db:"evaluated"`
	Kept       int        `json:"kept" db:"kept"`
	Candidates int        `json:"candidates" db:"candidates"`
	Protected  int        `json:"protected" db:"protected"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt time.Time  `json:"finished_at" db:"finished_at"`
}
