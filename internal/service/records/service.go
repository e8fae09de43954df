package records

import (
	"context"
	"fmt"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/filter"
	"github.com/ignite/crm-retention/internal/pkg/logger"
)

// Service filters cached record lists.
type Service struct {
	repo Repository
}

// NewService creates a record search service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AccountRow is an account with its billing country resolved to an ISO code.
type AccountRow struct {
	domain.Account
	CountryCode string `json:"country_code,omitempty"`
}

// ContactRow is a contact with its country resolved to an ISO code.
type ContactRow struct {
	domain.Contact
	CountryCode string `json:"country_code,omitempty"`
}

// Result is one filtered list. Only the slice matching Type is set.
type Result struct {
	Type        domain.DetailsType `json:"type"`
	Filter      string             `json:"filter,omitempty"`
	Description string             `json:"description,omitempty"`
	Total       int                `json:"total"`
	Accounts    []AccountRow       `json:"accounts,omitempty"`
	Contacts    []ContactRow       `json:"contacts,omitempty"`
	Leads       []domain.Lead      `json:"leads,omitempty"`
	Campaigns   []domain.Campaign  `json:"campaigns,omitempty"`
}

// Search returns the records of kind that match query. An empty query
// matches everything.
func (s *Service) Search(ctx context.Context, kind domain.DetailsType, query string) (*Result, error) {
	res := &Result{Type: kind, Filter: query, Description: filter.Description(query)}

	switch kind {
	case domain.DetailsAccount:
		all, err := s.repo.Accounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("search accounts: %w", err)
		}
		for _, a := range all {
			if filter.Account(a, query) {
				res.Accounts = append(res.Accounts, AccountRow{Account: a, CountryCode: filter.CountryCode(a.BillingCountry)})
			}
		}
		res.Total = len(res.Accounts)
	case domain.DetailsContact:
		all, err := s.repo.Contacts(ctx)
		if err != nil {
			return nil, fmt.Errorf("search contacts: %w", err)
		}
		for _, c := range all {
			if filter.Contact(c, query) {
				res.Contacts = append(res.Contacts, ContactRow{Contact: c, CountryCode: filter.CountryCode(c.Country)})
			}
		}
		res.Total = len(res.Contacts)
	case domain.DetailsLead:
		all, err := s.repo.Leads(ctx)
		if err != nil {
			return nil, fmt.Errorf("search leads: %w", err)
		}
		for _, l := range all {
			if filter.Lead(l, query) {
				res.Leads = append(res.Leads, l)
			}
		}
		res.Total = len(res.Leads)
	case domain.DetailsCampaign:
		all, err := s.repo.Campaigns(ctx)
		if err != nil {
			return nil, fmt.Errorf("search campaigns: %w", err)
		}
		for _, c := range all {
			if filter.Campaign(c, query) {
				res.Campaigns = append(res.Campaigns, c)
			}
		}
		res.Total = len(res.Campaigns)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, kind)
	}

	logger.Info("record search", "type", string(kind), "filter", query, "total", res.Total)
	return res, nil
}
