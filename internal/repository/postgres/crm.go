package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// CRMRepo implements retention.Repository against the PostgreSQL cache of
// CRM records.
type CRMRepo struct{ db *sql.DB }

// NewCRMRepo creates a Postgres-backed CRM cache repository.
func NewCRMRepo(db *sql.DB) *CRMRepo { return &CRMRepo{db: db} }

const contactColumns = `id, COALESCE(account_id, ''), given_name, family_name, note,
	preferred_email, organization, work_phone, mobile_phone, country, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(s scanner) (domain.Contact, error) {
	var (
		c       domain.Contact
		created sql.NullTime
	)
	err := s.Scan(&c.ID, &c.AccountID, &c.GivenName, &c.FamilyName, &c.Note,
		&c.PreferredEmail, &c.Organization, &c.WorkPhone, &c.MobilePhone, &c.Country, &created)
	if created.Valid {
		c.CreatedAt = created.Time
	}
	return c, err
}

func (r *CRMRepo) Contacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM crm_contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CRMRepo) ContactByID(ctx context.Context, id string) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM crm_contacts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, retention.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}

const accountColumns = `a.id, a.name, a.account_type, a.email, a.phone_office,
	a.billing_street, a.billing_city, a.billing_postal_code, a.billing_country,
	a.shipping_street, a.shipping_city, a.shipping_postal_code,
	(SELECT COUNT(*) FROM crm_opportunities o WHERE o.account_id = a.id)`

func scanAccount(s scanner) (domain.Account, error) {
	var a domain.Account
	err := s.Scan(&a.ID, &a.Name, &a.Type, &a.Email, &a.PhoneOffice,
		&a.BillingStreet, &a.BillingCity, &a.BillingPostalCode, &a.BillingCountry,
		&a.ShippingStreet, &a.ShippingCity, &a.ShippingPostalCode, &a.OpportunityCount)
	return a, err
}

func (r *CRMRepo) AccountByID(ctx context.Context, id string) (*domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM crm_accounts a WHERE a.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, retention.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// Accounts lists every cached account ordered by name.
func (r *CRMRepo) Accounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM crm_accounts a ORDER BY a.name, a.id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Leads lists every cached lead ordered by last name.
func (r *CRMRepo) Leads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, status, account_name, email, assigned_user_name
		FROM crm_leads
		ORDER BY last_name, first_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Status,
			&l.AccountName, &l.Email, &l.AssignedUserName); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Campaigns lists every cached campaign ordered by name.
func (r *CRMRepo) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, status, campaign_type, end_date, assigned_user_name
		FROM crm_campaigns
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.Type, &c.EndDate, &c.AssignedUserName); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CRMRepo) OpportunitiesForAccount(ctx context.Context, accountID string) ([]domain.Opportunity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, COALESCE(account_id, ''), name, sales_stage, probability, amount,
			currency_id, next_step, next_call_date, date_closed, date_entered
		FROM crm_opportunities
		WHERE account_id = $1
		ORDER BY date_entered DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var out []domain.Opportunity
	for rows.Next() {
		var (
			o        domain.Opportunity
			nextCall sql.NullTime
			closed   sql.NullTime
		)
		if err := rows.Scan(&o.ID, &o.AccountID, &o.Name, &o.SalesStage, &o.Probability, &o.Amount,
			&o.CurrencyID, &o.NextStep, &nextCall, &closed, &o.EnteredAt); err != nil {
			return nil, fmt.Errorf("scan opportunity: %w", err)
		}
		if nextCall.Valid {
			t := nextCall.Time
			o.NextCallDate = &t
		}
		if closed.Valid {
			o.CloseDate = closed.Time
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *CRMRepo) NoteCount(ctx context.Context, contactID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crm_notes WHERE contact_id = $1`, contactID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

func (r *CRMRepo) EmailCount(ctx context.Context, contactID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crm_emails WHERE contact_id = $1`, contactID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count emails: %w", err)
	}
	return n, nil
}
