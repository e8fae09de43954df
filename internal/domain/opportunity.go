package domain

import "time"

// SalesStage is one of the fixed CRM sales stage labels.
type SalesStage string

const (
	StageProspecting        SalesStage = "Prospecting"
	StageQualification      SalesStage = "Qualification"
	StageNeedsAnalysis      SalesStage = "Needs Analysis"
	StageValueProposition   SalesStage = "Value Proposition"
	StageDecisionMakers     SalesStage = "Id. Decision Makers"
	StagePerceptionAnalysis SalesStage = "Perception Analysis"
	StageProposal           SalesStage = "Proposal/Price Quote"
	StageNegotiation        SalesStage = "Negotiation/Review"
	StageClosedWon          SalesStage = "Closed Won"
	StageClosedLost         SalesStage = "Closed Lost"
)

// SalesStages lists every stage in pipeline order.
var SalesStages = []SalesStage{
	StageProspecting,
	StageQualification,
	StageNeedsAnalysis,
	StageValueProposition,
	StageDecisionMakers,
	StagePerceptionAnalysis,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Opportunity is a sales opportunity cached from the remote CRM.
type Opportunity struct {
	ID           string     `json:"id" db:"id"`
	AccountID    string     `json:"account_id" db:"account_id"`
	Name         string     `json:"name" db:"name"`
	SalesStage   SalesStage `json:"sales_stage" db:"sales_stage"`
	Probability  int        `json:"probability" db:"probability"`
	Amount       float64    `json:"amount" db:"amount"`
	CurrencyID   string     `json:"currency_id" db:"currency_id"`
	NextStep     string     `json:"next_step" db:"next_step"`
	NextCallDate *time.Time `json:"next_call_date" db:"next_call_date"`
	CloseDate    time.Time  `json:"close_date" db:"date_closed"`
	EnteredAt    time.Time  `json:"entered_at" db:"date_entered"`
}
