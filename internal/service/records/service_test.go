package records

import (
	"context"
	"errors"
	"testing"

	"github.com/ignite/crm-retention/internal/domain"
)

type mockRepo struct {
	accounts  []domain.Account
	contacts  []domain.Contact
	leads     []domain.Lead
	campaigns []domain.Campaign
	err       error
}

func (m *mockRepo) Accounts(_ context.Context) ([]domain.Account, error) { return m.accounts, m.err }
func (m *mockRepo) Contacts(_ context.Context) ([]domain.Contact, error) { return m.contacts, m.err }
func (m *mockRepo) Leads(_ context.Context) ([]domain.Lead, error) { return m.leads, m.err }
func (m *mockRepo) Campaigns(_ context.Context) ([]domain.Campaign, error) {
	return m.campaigns, m.err
}

func newTestRepo() *mockRepo {
	return &mockRepo{
		accounts: []domain.Account{
			{ID: "a1", Name: "Acme Corp", BillingCountry: "Germany"},
			{ID: "a2", Name: "Globex", BillingCity: "Paris", BillingCountry: "Atlantis"},
		},
		contacts: []domain.Contact{
			{ID: "c1", GivenName: "Ada", FamilyName: "Lovelace", Country: "United Kingdom"},
			{ID: "c2", GivenName: "Bob", Organization: "Acme"},
		},
		leads: []domain.Lead{
			{ID: "l1", FirstName: "Lena", LastName: "Lead", AccountName: "Acme"},
			{ID: "l2", FirstName: "Max", LastName: "Other", Status: "Dead"},
		},
		campaigns: []domain.Campaign{
			{ID: "k1", Name: "Spring Mailing", Status: "Active"},
			{ID: "k2", Name: "Fair", Status: "Planning"},
		},
	}
}

func TestSearch_Accounts(t *testing.T) {
	svc := NewService(newTestRepo())

	res, err := svc.Search(context.Background(), domain.DetailsAccount, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 accounts, got %d", res.Total)
	}
	if res.Accounts[0].CountryCode != "de" {
		t.Errorf("expected country code de, got %q", res.Accounts[0].CountryCode)
	}
	if res.Accounts[1].CountryCode != "" {
		t.Errorf("expected no code for unknown country, got %q", res.Accounts[1].CountryCode)
	}
	if res.Description != "" {
		t.Errorf("expected empty description, got %q", res.Description)
	}

	res, err = svc.Search(context.Background(), domain.DetailsAccount, "paris")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Accounts[0].ID != "a2" {
		t.Errorf("expected only a2, got %+v", res.Accounts)
	}
	if res.Description != `containing "paris"` {
		t.Errorf("unexpected description %q", res.Description)
	}
}

func TestSearch_Contacts(t *testing.T) {
	res, err := NewService(newTestRepo()).Search(context.Background(), domain.DetailsContact, "lovelace")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Contacts[0].ID != "c1" {
		t.Fatalf("expected only c1, got %+v", res.Contacts)
	}
	if res.Contacts[0].CountryCode != "gb" {
		t.Errorf("expected country code gb, got %q", res.Contacts[0].CountryCode)
	}
}

func TestSearch_LeadsAndCampaigns(t *testing.T) {
	svc := NewService(newTestRepo())

	leads, err := svc.Search(context.Background(), domain.DetailsLead, "ACME")
	if err != nil {
		t.Fatalf("Search leads: %v", err)
	}
	if leads.Total != 1 || leads.Leads[0].ID != "l1" {
		t.Errorf("expected only l1, got %+v", leads.Leads)
	}
	if leads.Campaigns != nil {
		t.Error("expected no campaigns in a lead result")
	}

	campaigns, err := svc.Search(context.Background(), domain.DetailsCampaign, "active")
	if err != nil {
		t.Fatalf("Search campaigns: %v", err)
	}
	if campaigns.Total != 1 || campaigns.Campaigns[0].ID != "k1" {
		t.Errorf("expected only k1, got %+v", campaigns.Campaigns)
	}
}

func TestSearch_UnsupportedType(t *testing.T) {
	svc := NewService(newTestRepo())
	for _, kind := range []domain.DetailsType{domain.DetailsOpportunity, "widget"} {
		if _, err := svc.Search(context.Background(), kind, ""); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("%s: expected ErrUnsupportedType, got %v", kind, err)
		}
	}
}

func TestSearch_RepositoryError(t *testing.T) {
	repo := newTestRepo()
	repo.err = errors.New("db down")

	_, err := NewService(repo).Search(context.Background(), domain.DetailsLead, "")
	if err == nil || errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
